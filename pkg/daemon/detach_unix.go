//go:build !windows

package daemon

import (
	"os/exec"
	"syscall"
)

// detachFromSession makes the child the leader of a new session, so it
// keeps running after the parent's terminal goes away.
func detachFromSession(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
