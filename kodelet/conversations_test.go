package kodelet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDirectoryCLI stands in for the kodelet binary's conversation
// subcommands.
const fakeDirectoryCLI = `case "$1 $2" in
"conversation list")
  echo '{"conversations":[{"id":"c1","created_at":"2026-08-01T10:00:00Z","updated_at":"2026-08-02T10:00:00Z","message_count":4,"provider":"anthropic","preview":"hi there","total_cost":0.12,"current_context_window":2048,"max_context_window":200000}]}'
  ;;
"conversation show")
  echo '{"id":"c1","provider":"anthropic","summary":"greeting","created_at":"2026-08-01T10:00:00Z","updated_at":"2026-08-02T10:00:00Z","messages":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}],"usage":{"total_cost":0.12}}'
  ;;
"conversation delete")
  ;;
"conversation fork")
  echo "Forking conversation c1..."
  echo "New ID: c2"
  echo "Done."
  ;;
*)
  echo "unknown command" >&2
  exit 2
  ;;
esac`

func newFakeManager(t *testing.T, script string) *ConversationManager {
	t.Helper()
	m, err := NewConversationManager(WithKodeletPath(writeFakeCLI(t, script)))
	require.NoError(t, err)
	return m
}

func TestConversations_List(t *testing.T) {
	t.Parallel()

	m := newFakeManager(t, fakeDirectoryCLI)
	summaries, err := m.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, "c1", s.ID)
	assert.Equal(t, 4, s.MessageCount)
	assert.Equal(t, "anthropic", s.Provider)
	assert.Equal(t, "hi there", s.Preview)
	assert.Equal(t, 0.12, s.TotalCost)
	assert.Equal(t, 2048, s.CurrentContext)
	assert.Equal(t, 200000, s.MaxContext)
	require.NotNil(t, s.CreatedAt)
	assert.Equal(t, 2026, s.CreatedAt.Year())
}

func TestConversations_ListFlags(t *testing.T) {
	t.Parallel()

	argsFile := filepath.Join(t.TempDir(), "args.txt")
	script := fmt.Sprintf(`echo "$@" > %q
echo '{"conversations":[]}'`, argsFile)

	m := newFakeManager(t, script)
	_, err := m.List(context.Background(), ListOptions{
		Search:    "deploy",
		Provider:  "anthropic",
		StartDate: "2026-08-01",
		EndDate:   "2026-08-29",
	})
	require.NoError(t, err)

	recorded, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	args := string(recorded)
	assert.Contains(t, args, "conversation list --json")
	// Zero-value options fall back to the directory's defaults.
	assert.Contains(t, args, "--limit 10")
	assert.Contains(t, args, "--offset 0")
	assert.Contains(t, args, "--sort-by updated_at")
	assert.Contains(t, args, "--sort-order desc")
	assert.Contains(t, args, "--search deploy")
	assert.Contains(t, args, "--start 2026-08-01")
	assert.Contains(t, args, "--end 2026-08-29")
}

func TestConversations_Show(t *testing.T) {
	t.Parallel()

	m := newFakeManager(t, fakeDirectoryCLI)
	conv, err := m.Show(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, "c1", conv.ID)
	assert.Equal(t, "greeting", conv.Summary)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "user", conv.Messages[0].Role)
	assert.Equal(t, "hello", conv.Messages[1].Content)
	assert.Equal(t, 0.12, conv.Usage["total_cost"])
}

func TestConversations_ShowNotFound(t *testing.T) {
	t.Parallel()

	m := newFakeManager(t, `echo "not found" >&2; exit 1`)
	_, err := m.Show(context.Background(), "missing-id")

	var notFound *ConversationNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing-id", notFound.ID)
	assert.True(t, IsNotFound(err))
}

func TestConversations_Delete(t *testing.T) {
	t.Parallel()

	argsFile := filepath.Join(t.TempDir(), "args.txt")
	m := newFakeManager(t, fmt.Sprintf(`echo "$@" > %q`, argsFile))

	require.NoError(t, m.Delete(context.Background(), "c1"))

	recorded, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Contains(t, string(recorded), "conversation delete c1 --no-confirm")
}

func TestConversations_DeleteFailure(t *testing.T) {
	t.Parallel()

	m := newFakeManager(t, `echo "db locked" >&2; exit 1`)
	err := m.Delete(context.Background(), "c1")

	var dirErr *DirectoryError
	require.ErrorAs(t, err, &dirErr)
	assert.Equal(t, "delete", dirErr.Op)
	assert.Contains(t, dirErr.Stderr, "db locked")
}

func TestConversations_Fork(t *testing.T) {
	t.Parallel()

	m := newFakeManager(t, fakeDirectoryCLI)
	newID, err := m.Fork(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c2", newID)
}

func TestConversations_ForkMostRecent(t *testing.T) {
	t.Parallel()

	argsFile := filepath.Join(t.TempDir(), "args.txt")
	script := fmt.Sprintf(`echo "$@" > %q
echo "New ID: c9"`, argsFile)

	m := newFakeManager(t, script)
	newID, err := m.Fork(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "c9", newID)

	recorded, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	// Without an ID the CLI forks the most recent conversation.
	assert.Equal(t, "conversation fork\n", string(recorded))
}

func TestParseForkID(t *testing.T) {
	t.Parallel()

	id, err := parseForkID("Forking...\nNew ID: abc-123  \nDone.\n")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)

	_, err = parseForkID("fork complete, no marker here")
	var dirErr *DirectoryError
	require.ErrorAs(t, err, &dirErr)
	assert.ErrorIs(t, err, errForkIDMissing)
}
