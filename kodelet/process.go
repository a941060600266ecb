package kodelet

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/kodelet/kodelet-go/internal/ndjson"
	"github.com/kodelet/kodelet-go/internal/procattr"
)

// queryProcess manages one `kodelet run` invocation. The CLI operates
// in one-shot mode: the query is passed as an argument, events stream
// on stdout as NDJSON, and the process exits when the turn completes.
type queryProcess struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser
	reader *ndjson.Reader

	binary string
	args   []string
	dir    string
	env    map[string]string

	stderrBuf bytes.Buffer
	pumps     errgroup.Group

	mu      sync.Mutex
	started bool

	waitOnce sync.Once
	waitErr  error
	exitCode int
	exited   chan struct{}
}

func newQueryProcess(binary string, args []string, dir string, env map[string]string) *queryProcess {
	return &queryProcess{
		binary: binary,
		args:   args,
		dir:    dir,
		env:    env,
		exited: make(chan struct{}),
	}
}

// Start spawns the CLI process. Cancellation is handled by the caller
// signalling the process group, not by tying the command to a context,
// so children of the CLI are torn down along with it.
func (qp *queryProcess) Start() error {
	qp.mu.Lock()
	defer qp.mu.Unlock()

	if qp.started {
		return &ProcessError{Message: "process already started"}
	}

	qp.cmd = exec.Command(qp.binary, qp.args...)

	qp.cmd.Env = os.Environ()
	for k, v := range qp.env {
		qp.cmd.Env = append(qp.cmd.Env, k+"="+v)
	}

	// Process group keeps orphaned CLI children reachable for cleanup.
	procattr.Set(qp.cmd)

	if qp.dir != "" {
		qp.cmd.Dir = qp.dir
	}

	var err error
	qp.stdout, err = qp.cmd.StdoutPipe()
	if err != nil {
		return &ProcessError{Message: "failed to create stdout pipe", Cause: err}
	}

	qp.stderr, err = qp.cmd.StderrPipe()
	if err != nil {
		return &ProcessError{Message: "failed to create stderr pipe", Cause: err}
	}

	qp.reader = ndjson.NewReader(qp.stdout)

	if err := qp.cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return &BinaryNotFoundError{Path: qp.binary, Cause: err}
		}
		return &ProcessError{Message: "failed to start kodelet process", Cause: err}
	}

	// Drain stderr concurrently so the CLI never blocks on a full pipe.
	stderr := qp.stderr
	qp.pumps.Go(func() error {
		_, err := io.Copy(&qp.stderrBuf, stderr)
		return err
	})

	qp.started = true
	return nil
}

// ReadLine returns the next non-blank stdout line. io.EOF signals that
// the stream is finished and the process should be reaped with Wait.
func (qp *queryProcess) ReadLine() ([]byte, error) {
	qp.mu.Lock()
	reader := qp.reader
	qp.mu.Unlock()

	if reader == nil {
		return nil, &ProcessError{Message: "process not started"}
	}
	return reader.ReadLine()
}

// Wait reaps the process and returns its exit code along with captured
// stderr. Safe to call from multiple goroutines; the process is reaped
// exactly once.
func (qp *queryProcess) Wait() (int, string, error) {
	qp.waitOnce.Do(func() {
		defer close(qp.exited)

		// The stderr pump must finish before Wait closes the pipes.
		_ = qp.pumps.Wait()

		err := qp.cmd.Wait()
		qp.exitCode = exitCodeOf(qp.cmd, err)
		if err != nil && qp.exitCode < 0 {
			qp.waitErr = err
		}
	})
	return qp.exitCode, qp.stderrBuf.String(), qp.waitErr
}

// Exited is closed once the process has been reaped.
func (qp *queryProcess) Exited() <-chan struct{} {
	return qp.exited
}

// Terminate sends SIGTERM to the process group.
func (qp *queryProcess) Terminate() {
	if qp.cmd != nil && qp.cmd.Process != nil {
		_ = procattr.SignalGroup(qp.cmd.Process, syscall.SIGTERM)
	}
}

// Kill sends SIGKILL to the process group.
func (qp *queryProcess) Kill() {
	if qp.cmd != nil && qp.cmd.Process != nil {
		_ = procattr.KillGroup(qp.cmd.Process)
	}
}

// exitCodeOf extracts the exit code from a Wait error. Returns -1 for
// failures that carry no code (signals on some platforms, I/O errors).
func exitCodeOf(cmd *exec.Cmd, err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return -1
}
