package supervisor

import (
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/michaelmohamed/pm5/pkg/config"
	"github.com/michaelmohamed/pm5/pkg/errors"
	"github.com/michaelmohamed/pm5/pkg/logging"
)

// Run creates a Supervisor and runs the given ecosystem until every
// service has stopped. A non-nil error means the run ended abnormally
// and the caller should exit non-zero.
func Run(options Options, cfg *config.EcosystemConfig, logger logging.Logger) error {
	return NewSupervisor(options, logger).Run(cfg)
}

// Run recovers stale process groups from a previous run, launches every
// enabled service instance and blocks until shutdown completes.
func (s *Supervisor) Run(cfg *config.EcosystemConfig) error {
	s.logger.Debugf("The process manager process id is: %d", os.Getpid())
	s.logger.Debugf("Platform: OS=%s, Arch=%s, CPUs=%d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		close(signalCh)
	}()

	go func() {
		for range signalCh {
			if !s.shutdown.Load() {
				s.logger.Infof("Terminating services...")
			}
			s.ShutdownAll()
		}
	}()

	s.registry.RecoverAndTerminate()

	totalCPUs := runtime.NumCPU()
	started := false

	for i := range cfg.Services {
		service := &cfg.Services[i]

		if service.Disabled {
			s.logger.Infof("Service '%s' is disabled. Skipping...", service.Name)
			continue
		}

		instances := service.ResolveInstances(totalCPUs)

		for instanceID := 0; instanceID < instances; instanceID++ {
			tp, err := s.StartInstance(service, instanceID)
			if err != nil {
				s.logger.Errorf("Failed to start instance %d of service '%s': %v",
					instanceID, service.Name, err)
				continue
			}
			started = true
			if service.WaitReady {
				s.StartMonitor(service, tp, instanceID)
			}
		}
	}

	if !started {
		s.logger.Errorf("Error: No services to start. Exiting...")
		return errors.NewValidationError("no services to start", nil)
	}

	<-s.done

	if err := s.FinalSweep(); err != nil {
		return errors.NewProcessError("processes still running after shutdown", err)
	}

	s.monitors.Wait()

	if s.escalated.Load() {
		return errors.NewProcessError("a service exceeded its maximum number of restarts", nil)
	}

	return nil
}
