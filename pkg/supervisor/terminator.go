package supervisor

import (
	"time"

	"github.com/michaelmohamed/pm5/pkg/errors"
	"github.com/michaelmohamed/pm5/pkg/process"
)

// ShutdownAll terminates every tracked process group and clears the
// persisted registry. It runs at most once; later calls return after a
// warning. The process table itself is left intact so that a final
// sweep can verify nothing survived.
func (s *Supervisor) ShutdownAll() {
	if !s.shutdown.CompareAndSwap(false, true) {
		s.logger.Warnf("Shutting down all services. Please hold...")
		return
	}

	s.mutex.Lock()

	tracked := s.snapshotLocked()

	for _, tp := range tracked {
		s.logger.Infof("Sending SIGTERM to process group %d of service '%s'", tp.PGID, tp.Service)
		if err := process.TerminateGroup(tp.PGID); err != nil {
			s.logger.Infof("Error sending SIGTERM to process group %d of service '%s': %v",
				tp.PGID, tp.Service, err)
		}
	}

	s.logger.Infof("Cleaning up services...")

	time.Sleep(s.options.GraceInterval)

	for _, tp := range tracked {
		if tp.Exited() {
			continue
		}
		s.logger.Infof("Sending SIGKILL to process group %d of service '%s'", tp.PGID, tp.Service)
		if err := process.KillGroup(tp.PGID); err != nil {
			s.logger.Infof("Error sending SIGKILL to process group %d of service '%s': %v",
				tp.PGID, tp.Service, err)
		}
	}

	for _, tp := range tracked {
		if !tp.WaitTimeout(s.options.ReapTimeout) {
			s.logger.Warnf("Process %d of service '%s' did not terminate in time", tp.PID, tp.Service)
		}
	}

	if err := s.registry.Clear(); err != nil {
		s.logger.Errorf("Failed to clear process registry: %v", err)
	}

	s.mutex.Unlock()

	s.logger.Infof("Service cleanup complete.")

	close(s.done)
}

// FinalSweep re-scans the process table after shutdown and force-kills
// anything still alive. The returned error aggregates one entry per
// straggler; nil means the table is fully drained.
func (s *Supervisor) FinalSweep() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stragglers := errors.NewErrorCollection()
	for _, tp := range s.snapshotLocked() {
		if tp.Exited() {
			continue
		}
		s.logger.Warnf("Process %d is still running, forcing exit...", tp.PID)
		if err := process.KillGroup(tp.PGID); err != nil {
			s.logger.Warnf("Error force-killing process group %d: %v", tp.PGID, err)
		}
		stragglers.Add(errors.NewProcessError("process group still alive", nil).
			WithContext("pid", tp.PID).
			WithContext("service", tp.Service))
	}
	return stragglers.ToError()
}
