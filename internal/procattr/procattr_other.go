//go:build unix && !linux

// Package procattr configures spawned kodelet processes so the whole
// process tree can be signalled as a group and never outlives the SDK.
package procattr

import (
	"os/exec"
	"syscall"
)

// Set places the child in its own process group. Pdeathsig is Linux
// only; on other platforms the group alone enables kill(-pgid) cleanup
// by the parent.
func Set(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
