package kodelet

import (
	"strconv"
	"strings"
)

// Config holds the flag surface of `kodelet run`. The zero value is
// not useful; start from DefaultConfig.
type Config struct {
	// KodeletPath is an explicit binary path. It takes precedence over
	// the PATH lookup and must exist.
	KodeletPath string

	// WorkDir is the working directory for the CLI process and the
	// hook discovery root. Defaults to the current directory.
	WorkDir string

	// Env holds extra environment variables for the CLI process.
	Env map[string]string

	Provider             string
	Model                string
	WeakModel            string
	MaxTokens            int
	WeakModelMaxTokens   int
	ThinkingBudgetTokens int

	// ReasoningEffort is passed only when Provider is "openai".
	ReasoningEffort string

	AllowedTools    []string
	AllowedCommands []string

	MaxTurns           int
	CompactRatio       float64
	DisableAutoCompact bool
	IncludeHistory     bool

	NoSkills bool
	NoHooks  bool
	NoMCP    bool
	NoSave   bool

	// Images are attached to the query via repeated --image flags.
	Images []string

	// Account selects a named Anthropic account.
	Account string

	// StreamDeltas requests incremental text/thinking delta events.
	StreamDeltas bool

	// EventBufferSize is the stream's event channel buffer.
	EventBufferSize int
}

// DefaultConfig returns the CLI's documented defaults.
func DefaultConfig() Config {
	return Config{
		Provider:             "anthropic",
		Model:                "claude-sonnet-4-5-20250929",
		WeakModel:            "claude-haiku-4-5-20251001",
		MaxTokens:            8192,
		WeakModelMaxTokens:   8192,
		ThinkingBudgetTokens: 4096,
		ReasoningEffort:      "medium",
		MaxTurns:             50,
		CompactRatio:         0.8,
		StreamDeltas:         true,
		EventBufferSize:      100,
	}
}

// buildArgs constructs the exact `kodelet run` argument list for one
// query. Ordering is stable: flags appear in a fixed sequence with the
// query last, so invocations are reproducible and assertable.
func buildArgs(config Config, resume string, follow bool, conversationID, message string) []string {
	args := []string{"run", "--headless"}

	if config.StreamDeltas {
		args = append(args, "--stream-deltas")
	}

	args = append(args,
		"--provider", config.Provider,
		"--model", config.Model,
		"--weak-model", config.WeakModel,
		"--max-tokens", strconv.Itoa(config.MaxTokens),
		"--weak-model-max-tokens", strconv.Itoa(config.WeakModelMaxTokens),
		"--thinking-budget-tokens", strconv.Itoa(config.ThinkingBudgetTokens),
	)

	if config.Provider == "openai" {
		args = append(args, "--reasoning-effort", config.ReasoningEffort)
	}

	if len(config.AllowedTools) > 0 {
		args = append(args, "--allowed-tools", strings.Join(config.AllowedTools, ","))
	}
	if len(config.AllowedCommands) > 0 {
		args = append(args, "--allowed-commands", strings.Join(config.AllowedCommands, ","))
	}

	args = append(args,
		"--max-turns", strconv.Itoa(config.MaxTurns),
		"--compact-ratio", strconv.FormatFloat(config.CompactRatio, 'g', -1, 64),
	)

	if config.DisableAutoCompact {
		args = append(args, "--disable-auto-compact")
	}
	if config.IncludeHistory {
		args = append(args, "--include-history")
	}
	if config.NoSkills {
		args = append(args, "--no-skills")
	}
	if config.NoHooks {
		args = append(args, "--no-hooks")
	}
	if config.NoMCP {
		args = append(args, "--no-mcp")
	}
	if config.NoSave {
		args = append(args, "--no-save")
	}

	for _, image := range config.Images {
		args = append(args, "--image", image)
	}

	// Conversation identity: explicit resume wins, then follow, then
	// the ID discovered from an earlier query on this client.
	switch {
	case resume != "":
		args = append(args, "--resume", resume)
	case follow:
		args = append(args, "--follow")
	case conversationID != "":
		args = append(args, "--resume", conversationID)
	}

	if config.Account != "" {
		args = append(args, "--account", config.Account)
	}

	return append(args, message)
}
