//go:build windows

package process

import (
	"os"
	"os/exec"

	"github.com/michaelmohamed/pm5/pkg/errors"
)

// ConfigureGroupLeader is a no-op on Windows. There is no POSIX process
// group to lead; signalling reaches the direct child only.
func ConfigureGroupLeader(cmd *exec.Cmd) {
}

// ProbeGroup checks whether the process is still findable.
func ProbeGroup(pgid int) error {
	process, err := os.FindProcess(pgid)
	if err != nil {
		return errors.NewNotFoundError("failed to probe process group", err).WithContext("pgid", pgid)
	}
	process.Release()
	return nil
}

// TerminateGroup terminates the direct child. Windows offers no
// graceful group-wide termination request.
func TerminateGroup(pgid int) error {
	return killProcess(pgid, "failed to terminate process group")
}

// KillGroup terminates the direct child.
func KillGroup(pgid int) error {
	return killProcess(pgid, "failed to kill process group")
}

func killProcess(pid int, msg string) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return errors.NewNotFoundError(msg, err).WithContext("pgid", pid)
	}
	defer process.Release()

	if err := process.Kill(); err != nil {
		return errors.NewProcessError(msg, err).WithContext("pgid", pid)
	}
	return nil
}

// Probe checks whether a single process is still findable.
func Probe(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return errors.NewNotFoundError("failed to probe process", err).WithContext("pid", pid)
	}
	process.Release()
	return nil
}

// Terminate kills a single process. Windows offers no graceful
// termination request.
func Terminate(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return errors.NewNotFoundError("failed to terminate process", err).WithContext("pid", pid)
	}
	defer process.Release()

	if err := process.Kill(); err != nil {
		return errors.NewProcessError("failed to terminate process", err).WithContext("pid", pid)
	}
	return nil
}
