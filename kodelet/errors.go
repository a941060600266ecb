package kodelet

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	ErrQueryInFlight = errors.New("another query is already in flight on this client")

	errForkIDMissing = errors.New("could not parse new conversation ID from fork output")
)

// BinaryNotFoundError indicates the kodelet binary could not be
// resolved, either at the configured path or on PATH. It is raised
// before any subprocess is spawned.
type BinaryNotFoundError struct {
	Path  string
	Cause error
}

func (e *BinaryNotFoundError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("kodelet binary not found at %q", e.Path)
	}
	return "kodelet binary not found in PATH; install kodelet or set Config.KodeletPath"
}

func (e *BinaryNotFoundError) Unwrap() error {
	return e.Cause
}

// ExecError indicates the kodelet process exited with a nonzero code.
// It is surfaced only after every event the process produced has been
// delivered.
type ExecError struct {
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("kodelet exited with code %d: %s", e.ExitCode, e.Stderr)
}

// ProcessError indicates the kodelet process could not be started or
// its stdio pipes could not be set up.
type ProcessError struct {
	Cause   error
	Message string
}

func (e *ProcessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("process error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("process error: %s", e.Message)
}

func (e *ProcessError) Unwrap() error {
	return e.Cause
}

// HookSetupError indicates a bridge artifact could not be generated.
// Raised before the subprocess is spawned; removal failures during
// cleanup are never escalated.
type HookSetupError struct {
	HookName string
	Cause    error
}

func (e *HookSetupError) Error() string {
	return fmt.Sprintf("failed to set up hook %q: %v", e.HookName, e.Cause)
}

func (e *HookSetupError) Unwrap() error {
	return e.Cause
}

// ConversationNotFoundError indicates a directory lookup for an
// unknown conversation ID, distinct from a generic execution failure.
type ConversationNotFoundError struct {
	ID string
}

func (e *ConversationNotFoundError) Error() string {
	return fmt.Sprintf("conversation %q not found", e.ID)
}

// DirectoryError indicates a conversation directory operation failed.
type DirectoryError struct {
	Op     string
	Stderr string
	Cause  error
}

func (e *DirectoryError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("conversation %s failed: %s", e.Op, e.Stderr)
	}
	return fmt.Sprintf("conversation %s failed: %v", e.Op, e.Cause)
}

func (e *DirectoryError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is a conversation lookup miss.
func IsNotFound(err error) bool {
	var nf *ConversationNotFoundError
	return errors.As(err, &nf)
}
