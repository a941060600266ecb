package kodelet

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ConversationMessage is one message in a stored conversation.
type ConversationMessage struct {
	Role    string
	Content string
}

// ConversationSummary is one row of `kodelet conversation list`.
type ConversationSummary struct {
	ID             string
	CreatedAt      *time.Time
	UpdatedAt      *time.Time
	MessageCount   int
	Provider       string
	Preview        string
	TotalCost      float64
	CurrentContext int
	MaxContext     int
}

// Conversation is the full record returned by show.
type Conversation struct {
	ID        string
	Provider  string
	Summary   string
	CreatedAt *time.Time
	UpdatedAt *time.Time
	Messages  []ConversationMessage
	Usage     map[string]interface{}
}

// ListOptions filters and orders conversation listings. The zero value
// lists the ten most recently updated conversations.
type ListOptions struct {
	Limit  int
	Offset int

	// Search filters by a free-text term.
	Search string

	// Provider filters by LLM provider (anthropic, openai, google).
	Provider string

	// StartDate and EndDate bound the listing, formatted YYYY-MM-DD.
	StartDate string
	EndDate   string

	// SortBy is updated_at, created_at, or messages.
	SortBy    string
	SortOrder string
}

// ConversationManager operates on the CLI's stored conversations. Each
// method is a discrete short-lived CLI invocation.
type ConversationManager struct {
	binary  string
	workDir string
}

// NewConversationManager returns a manager for a specific CLI binary.
// Most callers reach one through Client.Conversations instead.
func NewConversationManager(opts ...Option) (*ConversationManager, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return c.Conversations(), nil
}

// List returns conversation summaries matching opts.
func (m *ConversationManager) List(ctx context.Context, opts ListOptions) ([]ConversationSummary, error) {
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.SortBy == "" {
		opts.SortBy = "updated_at"
	}
	if opts.SortOrder == "" {
		opts.SortOrder = "desc"
	}

	args := []string{
		"conversation", "list", "--json",
		"--limit", strconv.Itoa(opts.Limit),
		"--offset", strconv.Itoa(opts.Offset),
		"--sort-by", opts.SortBy,
		"--sort-order", opts.SortOrder,
	}
	if opts.Search != "" {
		args = append(args, "--search", opts.Search)
	}
	if opts.Provider != "" {
		args = append(args, "--provider", opts.Provider)
	}
	if opts.StartDate != "" {
		args = append(args, "--start", opts.StartDate)
	}
	if opts.EndDate != "" {
		args = append(args, "--end", opts.EndDate)
	}

	stdout, stderr, err := m.run(ctx, args...)
	if err != nil {
		return nil, &DirectoryError{Op: "list", Stderr: stderr, Cause: err}
	}

	var doc struct {
		Conversations []map[string]interface{} `json:"conversations"`
	}
	if err := json.Unmarshal(stdout, &doc); err != nil {
		return nil, &DirectoryError{Op: "list", Cause: err}
	}

	summaries := make([]ConversationSummary, 0, len(doc.Conversations))
	for _, c := range doc.Conversations {
		summaries = append(summaries, ConversationSummary{
			ID:             stringField(c, "id"),
			CreatedAt:      timeField(c, "created_at"),
			UpdatedAt:      timeField(c, "updated_at"),
			MessageCount:   intField(c, "message_count"),
			Provider:       stringField(c, "provider"),
			Preview:        stringField(c, "preview"),
			TotalCost:      floatField(c, "total_cost"),
			CurrentContext: intField(c, "current_context_window"),
			MaxContext:     intField(c, "max_context_window"),
		})
	}
	return summaries, nil
}

// Show returns the full record for one conversation. A failing CLI
// invocation is reported as ConversationNotFoundError; the CLI does
// not distinguish a missing ID from other failures.
func (m *ConversationManager) Show(ctx context.Context, conversationID string) (*Conversation, error) {
	stdout, _, err := m.run(ctx, "conversation", "show", conversationID, "--format", "json")
	if err != nil {
		return nil, &ConversationNotFoundError{ID: conversationID}
	}

	var data map[string]interface{}
	if err := json.Unmarshal(stdout, &data); err != nil {
		return nil, &DirectoryError{Op: "show", Cause: err}
	}

	conv := &Conversation{
		ID:        stringField(data, "id"),
		Provider:  stringField(data, "provider"),
		Summary:   stringField(data, "summary"),
		CreatedAt: timeField(data, "created_at"),
		UpdatedAt: timeField(data, "updated_at"),
		Usage:     mapField(data, "usage"),
	}
	for _, item := range sliceField(data, "messages") {
		msg, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		conv.Messages = append(conv.Messages, ConversationMessage{
			Role:    stringField(msg, "role"),
			Content: stringField(msg, "content"),
		})
	}
	return conv, nil
}

// Delete removes a conversation without prompting.
func (m *ConversationManager) Delete(ctx context.Context, conversationID string) error {
	if _, stderr, err := m.run(ctx, "conversation", "delete", conversationID, "--no-confirm"); err != nil {
		return &DirectoryError{Op: "delete", Stderr: stderr, Cause: err}
	}
	return nil
}

// Fork copies a conversation with usage statistics reset and returns
// the new ID. An empty conversationID forks the most recent one.
func (m *ConversationManager) Fork(ctx context.Context, conversationID string) (string, error) {
	args := []string{"conversation", "fork"}
	if conversationID != "" {
		args = append(args, conversationID)
	}

	stdout, stderr, err := m.run(ctx, args...)
	if err != nil {
		return "", &DirectoryError{Op: "fork", Stderr: stderr, Cause: err}
	}
	return parseForkID(string(stdout))
}

// parseForkID extracts the forked ID from the CLI's human-readable
// output. The "New ID:" line is the only contract fork offers today;
// keep the parse here so a structured format can replace it in one
// place.
func parseForkID(output string) (string, error) {
	for _, line := range strings.Split(output, "\n") {
		if _, after, ok := strings.Cut(line, "New ID:"); ok {
			return strings.TrimSpace(after), nil
		}
	}
	return "", &DirectoryError{Op: "fork", Cause: errForkIDMissing}
}

func (m *ConversationManager) run(ctx context.Context, args ...string) ([]byte, string, error) {
	cmd := exec.CommandContext(ctx, m.binary, args...)
	if m.workDir != "" {
		cmd.Dir = m.workDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), strings.TrimSpace(stderr.String()), err
}

func floatField(m map[string]interface{}, key string) float64 {
	if f, ok := m[key].(float64); ok {
		return f
	}
	return 0
}
