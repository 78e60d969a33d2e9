//go:build !windows

package process

import (
	"os/exec"
	"syscall"

	"github.com/michaelmohamed/pm5/pkg/errors"
)

// ConfigureGroupLeader arranges for cmd to start as the leader of a new
// process group, so its group ID equals its process ID and group-wide
// signals reach every descendant it forks.
func ConfigureGroupLeader(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// ProbeGroup checks whether the process group is still alive without
// delivering a signal.
func ProbeGroup(pgid int) error {
	return signalGroup(pgid, syscall.Signal(0), "failed to probe process group")
}

// TerminateGroup asks every member of the process group to exit.
func TerminateGroup(pgid int) error {
	return signalGroup(pgid, syscall.SIGTERM, "failed to terminate process group")
}

// KillGroup forcibly kills every member of the process group.
func KillGroup(pgid int) error {
	return signalGroup(pgid, syscall.SIGKILL, "failed to kill process group")
}

func signalGroup(pgid int, sig syscall.Signal, msg string) error {
	if err := syscall.Kill(-pgid, sig); err != nil {
		switch err {
		case syscall.ESRCH:
			return errors.NewNotFoundError(msg, err).WithContext("pgid", pgid)
		case syscall.EPERM:
			return errors.NewPermissionError(msg, err).WithContext("pgid", pgid)
		}
		return errors.NewProcessError(msg, err).WithContext("pgid", pgid)
	}
	return nil
}

// Probe checks whether a single process is still alive without
// delivering a signal.
func Probe(pid int) error {
	return signalProcess(pid, syscall.Signal(0), "failed to probe process")
}

// Terminate asks a single process to exit. Unlike TerminateGroup it
// does not touch the rest of the process group.
func Terminate(pid int) error {
	return signalProcess(pid, syscall.SIGTERM, "failed to terminate process")
}

func signalProcess(pid int, sig syscall.Signal, msg string) error {
	if err := syscall.Kill(pid, sig); err != nil {
		switch err {
		case syscall.ESRCH:
			return errors.NewNotFoundError(msg, err).WithContext("pid", pid)
		case syscall.EPERM:
			return errors.NewPermissionError(msg, err).WithContext("pid", pid)
		}
		return errors.NewProcessError(msg, err).WithContext("pid", pid)
	}
	return nil
}
