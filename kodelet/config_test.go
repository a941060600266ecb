package kodelet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArgs_Defaults(t *testing.T) {
	t.Parallel()

	args := buildArgs(DefaultConfig(), "", false, "", "hello world")

	expected := []string{
		"run", "--headless",
		"--stream-deltas",
		"--provider", "anthropic",
		"--model", "claude-sonnet-4-5-20250929",
		"--weak-model", "claude-haiku-4-5-20251001",
		"--max-tokens", "8192",
		"--weak-model-max-tokens", "8192",
		"--thinking-budget-tokens", "4096",
		"--max-turns", "50",
		"--compact-ratio", "0.8",
		"hello world",
	}
	assert.Equal(t, expected, args)
}

func TestBuildArgs_QueryIsLastArg(t *testing.T) {
	t.Parallel()

	args := buildArgs(DefaultConfig(), "", false, "", "summarize --all files")
	assert.Equal(t, "summarize --all files", args[len(args)-1])
}

func TestBuildArgs_ReasoningEffortOnlyForOpenAI(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	assert.NotContains(t, buildArgs(config, "", false, "", "q"), "--reasoning-effort")

	config.Provider = "openai"
	args := buildArgs(config, "", false, "", "q")
	require.Contains(t, args, "--reasoning-effort")
	assert.Contains(t, args, "medium")
}

func TestBuildArgs_ToolRestrictions(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	config.AllowedTools = []string{"bash", "file_read"}
	config.AllowedCommands = []string{"ls *", "go test *"}

	args := buildArgs(config, "", false, "", "q")
	assert.Contains(t, args, "--allowed-tools")
	assert.Contains(t, args, "bash,file_read")
	assert.Contains(t, args, "--allowed-commands")
	assert.Contains(t, args, "ls *,go test *")
}

func TestBuildArgs_BoolFlags(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	config.StreamDeltas = false
	config.DisableAutoCompact = true
	config.IncludeHistory = true
	config.NoSkills = true
	config.NoHooks = true
	config.NoMCP = true
	config.NoSave = true

	args := buildArgs(config, "", false, "", "q")
	assert.NotContains(t, args, "--stream-deltas")
	assert.Contains(t, args, "--disable-auto-compact")
	assert.Contains(t, args, "--include-history")
	assert.Contains(t, args, "--no-skills")
	assert.Contains(t, args, "--no-hooks")
	assert.Contains(t, args, "--no-mcp")
	assert.Contains(t, args, "--no-save")
}

func TestBuildArgs_Images(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	config.Images = []string{"a.png", "b.png"}

	args := buildArgs(config, "", false, "", "q")
	count := 0
	for _, a := range args {
		if a == "--image" {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestBuildArgs_ConversationIdentity(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()

	// Explicit resume wins over everything.
	args := buildArgs(config, "conv-9", true, "conv-1", "q")
	assert.Contains(t, args, "--resume")
	assert.Contains(t, args, "conv-9")
	assert.NotContains(t, args, "--follow")
	assert.NotContains(t, args, "conv-1")

	// Follow beats the discovered ID.
	args = buildArgs(config, "", true, "conv-1", "q")
	assert.Contains(t, args, "--follow")
	assert.NotContains(t, args, "--resume")

	// Discovered ID keeps subsequent queries on the same conversation.
	args = buildArgs(config, "", false, "conv-1", "q")
	assert.Contains(t, args, "--resume")
	assert.Contains(t, args, "conv-1")
}

func TestBuildArgs_Account(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	config.Account = "work"

	args := buildArgs(config, "", false, "", "q")
	require.True(t, len(args) >= 3)
	// Account sits between the identity flags and the query.
	assert.Equal(t, "--account", args[len(args)-3])
	assert.Equal(t, "work", args[len(args)-2])
	assert.Equal(t, "q", args[len(args)-1])
}

func TestOptions_ApplyToConfig(t *testing.T) {
	t.Parallel()

	c := &Client{config: DefaultConfig()}
	for _, opt := range []Option{
		WithModel("claude-opus-4-1"),
		WithProvider("anthropic"),
		WithWorkDir("/work"),
		WithMaxTurns(5),
		WithAllowedTools("bash"),
		WithResume("conv-7"),
		WithEnv(map[string]string{"FOO": "1"}),
	} {
		opt(c)
	}

	assert.Equal(t, "claude-opus-4-1", c.config.Model)
	assert.Equal(t, "/work", c.config.WorkDir)
	assert.Equal(t, 5, c.config.MaxTurns)
	assert.Equal(t, []string{"bash"}, c.config.AllowedTools)
	assert.Equal(t, "conv-7", c.resume)
	assert.Equal(t, "1", c.config.Env["FOO"])
}

func TestWithConfig_ReplacesWholesale(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	config.MaxTokens = 1024

	c := &Client{config: DefaultConfig()}
	WithConfig(config)(c)
	assert.Equal(t, 1024, c.config.MaxTokens)
}
