package processfile

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/michaelmohamed/pm5/pkg/errors"
	"github.com/michaelmohamed/pm5/pkg/logging"

	"github.com/google/renameio/v2"
)

// ProcessFileManager owns the supervisor's PID file: the single-instance
// lock written by a starting daemon and read back by the stop command.
type ProcessFileManager struct {
	path   string
	logger logging.Logger
}

// NewProcessFileManager returns a manager bound to the given PID file path.
func NewProcessFileManager(path string, logger logging.Logger) *ProcessFileManager {
	return &ProcessFileManager{
		path:   path,
		logger: logger,
	}
}

// Path returns the PID file path the manager is bound to.
func (m *ProcessFileManager) Path() string {
	return m.path
}

// WritePIDFile atomically writes the PID file.
func (m *ProcessFileManager) WritePIDFile(pid int) error {
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewIOError("failed to create PID file directory", err).WithContext("directory", dir)
	}

	content := strconv.Itoa(pid) + "\n"
	if err := renameio.WriteFile(m.path, []byte(content), 0644); err != nil {
		return errors.NewIOError("failed to write PID file", err).WithContext("path", m.path)
	}

	m.logger.Debugf("Wrote PID file %s (PID: %d)", m.path, pid)

	return nil
}

// ReadPIDFile reads the PID back from the file.
func (m *ProcessFileManager) ReadPIDFile() (int, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.NewNotFoundError("PID file not found", err).WithContext("path", m.path)
		}
		return 0, errors.NewIOError("failed to read PID file", err).WithContext("path", m.path)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, errors.NewValidationError("invalid pid in pid file", err).WithContext("path", m.path)
	}

	return pid, nil
}

// RemovePIDFile removes the PID file. Removing an absent file is not
// an error.
func (m *ProcessFileManager) RemovePIDFile() error {
	if err := os.Remove(m.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewIOError("failed to remove PID file", err).WithContext("path", m.path)
	}

	m.logger.Debugf("Removed PID file %s", m.path)

	return nil
}
