package registry

import (
	"encoding/json"
	"os"

	"github.com/michaelmohamed/pm5/pkg/errors"
	"github.com/michaelmohamed/pm5/pkg/logging"
	"github.com/michaelmohamed/pm5/pkg/process"

	"github.com/google/renameio/v2"
)

// DefaultFileName is the registry file written to the supervisor's
// working directory.
const DefaultFileName = "process_lock.json"

// Registry persists the set of supervised process-group IDs so a later
// supervisor run can discover and terminate children left behind by an
// uncleanly-terminated predecessor.
type Registry struct {
	path   string
	logger logging.Logger
}

// NewRegistry returns a registry persisting to the given file path.
func NewRegistry(path string, logger logging.Logger) *Registry {
	return &Registry{
		path:   path,
		logger: logger,
	}
}

// Path returns the registry file path.
func (r *Registry) Path() string {
	return r.path
}

// Load reads the persisted process-group IDs. An absent or malformed
// file yields an empty set, never an error.
func (r *Registry) Load() []int {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil
	}

	var pgids []int
	if err := json.Unmarshal(data, &pgids); err != nil {
		r.logger.Debugf("Ignoring malformed registry file %s: %v", r.path, err)
		return nil
	}

	return pgids
}

// Save atomically overwrites the persisted state with exactly the given
// process-group IDs.
func (r *Registry) Save(pgids []int) error {
	if pgids == nil {
		pgids = []int{}
	}

	data, err := json.Marshal(pgids)
	if err != nil {
		return errors.NewInternalError("failed to encode process registry", err)
	}

	if err := renameio.WriteFile(r.path, data, 0644); err != nil {
		return errors.NewIOError("failed to write process registry", err).WithContext("path", r.path)
	}

	return nil
}

// Clear removes the persisted state entirely. Clearing an absent file
// is not an error.
func (r *Registry) Clear() error {
	if err := os.Remove(r.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewIOError("failed to remove process registry", err).WithContext("path", r.path)
	}

	return nil
}

// RecoverAndTerminate signals every persisted process group from a
// previous run with a termination request. Groups that no longer exist
// or cannot be signalled are dropped with a warning; groups that were
// successfully signalled are considered still possibly alive and are
// re-persisted. Must run once, before any new instance is launched.
func (r *Registry) RecoverAndTerminate() {
	pgids := r.Load()

	var active []int
	for _, pgid := range pgids {
		if err := process.ProbeGroup(pgid); err != nil {
			r.warnUnreachable(pgid, err)
			continue
		}

		r.logger.Infof("Terminating existing process group with pid: %d", pgid)

		if err := process.TerminateGroup(pgid); err != nil {
			r.warnUnreachable(pgid, err)
			continue
		}

		active = append(active, pgid)
	}

	if len(active) > 0 {
		if err := r.Save(active); err != nil {
			r.logger.Errorf("Failed to persist recovered process groups: %v", err)
		}
		return
	}

	if err := r.Clear(); err != nil {
		r.logger.Errorf("Failed to clear process registry: %v", err)
	}
}

func (r *Registry) warnUnreachable(pgid int, err error) {
	switch {
	case errors.IsNotFoundError(err):
		r.logger.Warnf("No process group found with pid: %d", pgid)
	case errors.IsPermissionError(err):
		r.logger.Warnf("Permission denied to terminate process group with pid: %d", pgid)
	default:
		r.logger.Warnf("Failed to terminate process group with pid: %d: %v", pgid, err)
	}
}
