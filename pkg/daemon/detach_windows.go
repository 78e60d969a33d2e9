//go:build windows

package daemon

import (
	"os/exec"
	"syscall"
)

// detachFromSession starts the child in its own console process group.
func detachFromSession(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}
