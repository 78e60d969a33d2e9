// Package daemon backgrounds the current binary by re-executing it
// detached from the controlling terminal and tracking it through a PID
// file.
package daemon

import (
	"os"
	"os/exec"

	"github.com/michaelmohamed/pm5/pkg/errors"
	"github.com/michaelmohamed/pm5/pkg/logging"
	"github.com/michaelmohamed/pm5/pkg/process"
	"github.com/michaelmohamed/pm5/pkg/processfile"
)

// DefaultPIDFileName is where the daemon PID is recorded, relative to
// the working directory the daemon was started from.
const DefaultPIDFileName = ".daemon.pid"

// DefaultLogFileName receives the daemon's stdout and stderr, and by
// inheritance the output of every supervised service.
const DefaultLogFileName = "pm5.log"

const childMarkerEnv = "PM5_DAEMON_CHILD"

// IsChild reports whether the current process is the re-executed
// daemon child.
func IsChild() bool {
	return os.Getenv(childMarkerEnv) != ""
}

// Manager starts and stops the daemonized instance of the current
// binary.
type Manager struct {
	processFile *processfile.ProcessFileManager
	logFilePath string
	logger      logging.Logger
}

func NewManager(pidFilePath, logFilePath string, logger logging.Logger) *Manager {
	return &Manager{
		processFile: processfile.NewProcessFileManager(pidFilePath, logger),
		logFilePath: logFilePath,
		logger:      logger,
	}
}

// Start re-executes the current binary with the same arguments as a
// detached child and records its PID. It fails if the PID file points
// at a live process.
func (m *Manager) Start() error {
	if pid, err := m.processFile.ReadPIDFile(); err == nil {
		if process.Probe(pid) == nil {
			m.logger.Errorf("Daemon is already running.")
			return errors.NewProcessError("daemon is already running", nil).WithContext("pid", pid)
		}
		m.logger.Debugf("Removing stale PID file (PID: %d)", pid)
		if err := m.processFile.RemovePIDFile(); err != nil {
			return err
		}
	}

	executable, err := os.Executable()
	if err != nil {
		return errors.NewInternalError("failed to resolve current executable", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return errors.NewIOError("failed to resolve working directory", err)
	}

	logFile, err := os.OpenFile(m.logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.NewIOError("failed to open daemon log file", err).
			WithContext("path", m.logFilePath)
	}
	defer logFile.Close()

	cmd := exec.Command(executable, os.Args[1:]...)
	cmd.Env = append(os.Environ(), childMarkerEnv+"=1")
	cmd.Dir = cwd
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	detachFromSession(cmd)

	if err := cmd.Start(); err != nil {
		m.logger.Errorf("Error starting daemon: %v", err)
		return errors.NewProcessError("failed to start daemon", err)
	}

	pid := cmd.Process.Pid

	// A daemon that is not recorded cannot be stopped later.
	if err := m.processFile.WritePIDFile(pid); err != nil {
		_ = process.Terminate(pid)
		m.logger.Errorf("Error starting daemon: %v", err)
		return err
	}

	_ = cmd.Process.Release()

	m.logger.Infof("Daemon started successfully. (PID: %d, logging to %s)", pid, m.logFilePath)

	return nil
}

// Stop terminates the daemon recorded in the PID file and removes the
// file.
func (m *Manager) Stop() error {
	pid, err := m.processFile.ReadPIDFile()
	if err != nil {
		if errors.IsNotFoundError(err) {
			m.logger.Errorf("PID file not found. Is the daemon running?")
		} else {
			m.logger.Errorf("Error stopping daemon: %v", err)
		}
		return err
	}

	if err := process.Terminate(pid); err != nil {
		if errors.IsNotFoundError(err) {
			m.logger.Errorf("No such process. The daemon may have already stopped.")
		} else {
			m.logger.Errorf("Error stopping daemon: %v", err)
		}
		return err
	}

	m.logger.Infof("Daemon stopped successfully.")

	if err := m.processFile.RemovePIDFile(); err != nil {
		m.logger.Errorf("Error stopping daemon: %v", err)
		return err
	}
	return nil
}
