package kodelet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/kodelet/kodelet-go/internal/logger"
)

// HookType identifies the lifecycle point at which a hook fires.
type HookType string

const (
	HookBeforeToolCall  HookType = "before_tool_call"
	HookAfterToolCall   HookType = "after_tool_call"
	HookUserMessageSend HookType = "user_message_send"
	HookAgentStop       HookType = "agent_stop"
	HookTurnEnd         HookType = "turn_end"
)

// HookFunc is the signature of a hook callback. It receives the
// decoded JSON payload from the CLI and returns the JSON object to
// send back; a nil result is sent as {}.
type HookFunc func(payload map[string]interface{}) (map[string]interface{}, error)

// Hook is a caller-supplied callback bound to a lifecycle point. Name
// is the unique key; registering two hooks with the same name keeps
// the last one, matching the CLI's own per-name hook resolution.
type Hook struct {
	Name string
	Type HookType
	Func HookFunc
}

// hookScriptPrefix namespaces bridge-generated artifacts so they never
// collide with hooks the user installed through other channels.
const hookScriptPrefix = "_gosdk_"

// hookArgMarker is the reserved argv[1] value the generated artifacts
// use to re-enter the host binary. See RunHookProcess.
const hookArgMarker = "__kodelet-hook"

var hookNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// hooksDir returns the CLI's hook discovery directory under cwd.
func hooksDir(cwd string) string {
	return filepath.Join(cwd, ".kodelet", "hooks")
}

// dedupeHooks keeps the last hook registered under each name,
// preserving first-seen order.
func dedupeHooks(hooks []Hook) []Hook {
	index := make(map[string]int, len(hooks))
	out := make([]Hook, 0, len(hooks))
	for _, h := range hooks {
		if i, ok := index[h.Name]; ok {
			out[i] = h
			continue
		}
		index[h.Name] = len(out)
		out = append(out, h)
	}
	return out
}

// writeHookScripts materializes one executable bridge artifact per
// registered hook under <cwd>/.kodelet/hooks. Each artifact implements
// the CLI's binary hook protocol:
//
//	artifact hook  → prints the hook type, exit 0
//	artifact run   → JSON payload on stdin, JSON result on stdout
//
// The `hook` verb is answered by the shell shim itself; `run`
// re-executes the host binary, which must call RunHookProcess with the
// same hooks before doing anything else. Any failure here is fatal to
// starting the session. The returned paths are recorded for cleanup.
func writeHookScripts(cwd string, hooks []Hook) ([]string, error) {
	if len(hooks) == 0 {
		return nil, nil
	}

	host, err := os.Executable()
	if err != nil {
		return nil, &HookSetupError{Cause: fmt.Errorf("resolve host executable: %w", err)}
	}

	dir := hooksDir(cwd)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &HookSetupError{Cause: err}
	}

	var created []string
	for _, h := range dedupeHooks(hooks) {
		if !hookNamePattern.MatchString(h.Name) {
			removeHookScripts(context.Background(), created)
			return nil, &HookSetupError{HookName: h.Name, Cause: fmt.Errorf("invalid hook name")}
		}

		path := filepath.Join(dir, hookScriptPrefix+h.Name)
		if err := os.WriteFile(path, hookScript(host, h), 0o755); err != nil {
			removeHookScripts(context.Background(), created)
			return nil, &HookSetupError{HookName: h.Name, Cause: err}
		}
		created = append(created, path)
	}
	return created, nil
}

// hookScript renders the shell shim for one hook.
func hookScript(host string, h Hook) []byte {
	script := fmt.Sprintf(`#!/bin/sh
# generated by kodelet-go for hook %q; removed when the session ends
case "$1" in
hook)
    echo %q
    ;;
run)
    exec %q %s %q run
    ;;
*)
    echo "usage: $0 hook|run" >&2
    exit 1
    ;;
esac
`, h.Name, string(h.Type), host, hookArgMarker, h.Name)
	return []byte(script)
}

// removeHookScripts deletes bridge artifacts. Removal is best-effort:
// failures are logged and never escalated, so cleanup cannot mask the
// session's own result.
func removeHookScripts(ctx context.Context, paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.G(ctx).WithError(err).WithField("path", path).Warn("failed to remove hook script")
		}
	}
}
