//go:build linux

// Package procattr configures spawned kodelet processes so the whole
// process tree can be signalled as a group and never outlives the SDK.
package procattr

import (
	"os/exec"
	"syscall"
)

// Set places the child in its own process group and arranges for it to
// receive SIGTERM if this process dies without running cleanup (OOM
// kill, SIGKILL). The process group lets group-wide signals reach any
// grandchildren the CLI spawns for its tools.
func Set(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}
