package supervisor

import (
	"os"
	"os/exec"
	"strings"

	"github.com/michaelmohamed/pm5/pkg/config"
	"github.com/michaelmohamed/pm5/pkg/errors"
	"github.com/michaelmohamed/pm5/pkg/process"
)

// StartInstance launches one instance of a service as the leader of a
// new process group, inserts it into the process table and persists the
// registry. Instances inherit the supervisor's environment extended by
// the service's env entries, and its stdout and stderr.
func (s *Supervisor) StartInstance(service *config.ServiceConfig, instanceID int) (*TrackedProcess, error) {
	if s.shutdown.Load() {
		return nil, errors.NewProcessError("supervisor is shutting down", nil).
			WithContext("service", service.Name).
			WithContext("instance", instanceID)
	}

	command := service.Command()

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Env = append(os.Environ(), service.Env.EnvironStrings()...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	cwd := service.WorkingDirectory
	if cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			cwd = wd
		}
	}
	cmd.Dir = cwd

	process.ConfigureGroupLeader(cmd)

	if err := cmd.Start(); err != nil {
		return nil, errors.NewProcessError("failed to start service instance", err).
			WithContext("service", service.Name).
			WithContext("instance", instanceID)
	}

	tp := newTrackedProcess(cmd, service.Name)
	s.track(tp)
	go tp.reap()

	s.logger.Infof("Starting instance %d of service '%s' with command: %s (PID: %d) in directory: %s",
		instanceID, service.Name, strings.Join(command, " "), tp.PID, cwd)

	return tp, nil
}
