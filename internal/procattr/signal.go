//go:build unix

package procattr

import (
	"os"
	"syscall"
)

// SignalGroup delivers sig to the entire process group of p. The
// negative PID addresses the group rather than the single process, so
// tool subprocesses spawned by the CLI are signalled too.
func SignalGroup(p *os.Process, sig syscall.Signal) error {
	if p == nil {
		return nil
	}
	return syscall.Kill(-p.Pid, sig)
}

// KillGroup sends SIGKILL to the entire process group of p.
func KillGroup(p *os.Process) error {
	return SignalGroup(p, syscall.SIGKILL)
}
