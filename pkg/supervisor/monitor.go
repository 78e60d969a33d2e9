package supervisor

import (
	"github.com/michaelmohamed/pm5/pkg/config"
)

// StartMonitor watches tp on its own goroutine and applies the
// service's restart policy each time the instance exits.
func (s *Supervisor) StartMonitor(service *config.ServiceConfig, tp *TrackedProcess, instanceID int) {
	s.monitors.Add(1)
	go func() {
		defer s.monitors.Done()
		s.monitor(service, tp, instanceID)
	}()
}

func (s *Supervisor) monitor(service *config.ServiceConfig, tp *TrackedProcess, instanceID int) {
	maxRestarts := service.MaxRestarts
	restarts := 0

	for restarts <= maxRestarts && !s.shutdown.Load() {
		tp.Wait()

		s.untrack(tp)

		if s.shutdown.Load() {
			return
		}

		exitCode := tp.ExitCode()
		if exitCode != 0 {
			s.logger.Errorf("Instance %d of service '%s' exited with error code %d",
				instanceID, service.Name, exitCode)
		}

		switch {
		case restarts < maxRestarts && service.AutoRestart:
			s.logger.Infof("Restarting instance %d of service '%s' (Restart %d)",
				instanceID, service.Name, restarts+1)

			next, err := s.StartInstance(service, instanceID)
			if err != nil {
				s.logger.Errorf("Failed to restart instance %d of service '%s': %v",
					instanceID, service.Name, err)
				return
			}
			tp = next
			restarts++

		case restarts == maxRestarts && maxRestarts > 0:
			// The budget was consumed by actual restarts; a still-failing
			// instance means the configuration itself is unhealthy.
			if exitCode != 0 {
				s.logger.Warnf("Instance %d of service '%s' has exceeded the maximum number of restarts (%d). Stopping all services.",
					instanceID, service.Name, maxRestarts)
				s.escalated.Store(true)
				s.ShutdownAll()
			}
			return

		default:
			if exitCode != 0 {
				s.logger.Errorf("Instance %d of service '%s' has exited with an error and will not be restarted",
					instanceID, service.Name)
			}
			return
		}
	}
}
