package supervisor

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, s *Supervisor, timeout time.Duration) bool {
	t.Helper()
	select {
	case <-s.Done():
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestMonitor_RestartsUntilBudgetThenEscalates(t *testing.T) {
	skipOnWindows(t)

	s, logger, registryPath := newTestSupervisor(t)

	svc := shellService("flaky", "exit 1")
	svc.WaitReady = true
	svc.AutoRestart = true
	svc.MaxRestarts = 2

	tp, err := s.StartInstance(svc, 0)
	require.NoError(t, err)
	s.StartMonitor(svc, tp, 0)

	require.True(t, waitDone(t, s, 10*time.Second), "escalation should shut the supervisor down")
	s.monitors.Wait()

	assert.True(t, logger.contains("Instance 0 of service 'flaky' exited with error code 1"))
	assert.True(t, logger.contains("Restarting instance 0 of service 'flaky' (Restart 1)"))
	assert.True(t, logger.contains("Restarting instance 0 of service 'flaky' (Restart 2)"))
	assert.False(t, logger.contains("(Restart 3)"), "restart budget must be respected")
	assert.True(t, logger.contains("Instance 0 of service 'flaky' has exceeded the maximum number of restarts (2). Stopping all services."))

	assert.Equal(t, 3, logger.count("Starting instance 0 of service 'flaky'"), "initial launch plus two restarts")
	assert.True(t, s.escalated.Load())
	assert.NoFileExists(t, registryPath)
}

func TestMonitor_RestartsOnCleanExitWhileBudgetRemains(t *testing.T) {
	skipOnWindows(t)

	s, logger, _ := newTestSupervisor(t)
	defer s.ShutdownAll()

	svc := shellService("quick", "exit 0")
	svc.WaitReady = true
	svc.AutoRestart = true
	svc.MaxRestarts = 1

	tp, err := s.StartInstance(svc, 0)
	require.NoError(t, err)
	s.StartMonitor(svc, tp, 0)

	require.Eventually(t, func() bool {
		return logger.contains("Restarting instance 0 of service 'quick' (Restart 1)")
	}, 5*time.Second, 10*time.Millisecond)

	s.monitors.Wait()

	assert.False(t, logger.contains("exited with error code"))
	assert.False(t, s.escalated.Load(), "clean exits must not escalate")
	assert.False(t, waitDone(t, s, 50*time.Millisecond))
}

func TestMonitor_ZeroBudgetErrorExitStaysLocal(t *testing.T) {
	skipOnWindows(t)

	s, logger, _ := newTestSupervisor(t)
	defer s.ShutdownAll()

	neighbor, err := s.StartInstance(shellService("neighbor", "sleep 30"), 0)
	require.NoError(t, err)

	svc := shellService("fragile", "exit 7")
	svc.WaitReady = true

	tp, err := s.StartInstance(svc, 0)
	require.NoError(t, err)
	s.StartMonitor(svc, tp, 0)

	s.monitors.Wait()

	assert.True(t, logger.contains("Instance 0 of service 'fragile' exited with error code 7"))
	assert.True(t, logger.contains("Instance 0 of service 'fragile' has exited with an error and will not be restarted"))
	assert.False(t, logger.contains("Restarting"))
	assert.False(t, logger.contains("Stopping all services"))
	assert.False(t, s.escalated.Load())
	assert.False(t, waitDone(t, s, 50*time.Millisecond))
	assert.False(t, neighbor.Exited(), "other services must be unaffected")
}

func TestMonitor_ErrorExitBelowBudgetWithoutAutoRestart(t *testing.T) {
	skipOnWindows(t)

	s, logger, _ := newTestSupervisor(t)
	defer s.ShutdownAll()

	svc := shellService("oneshot", "exit 2")
	svc.WaitReady = true
	svc.MaxRestarts = 3

	tp, err := s.StartInstance(svc, 0)
	require.NoError(t, err)
	s.StartMonitor(svc, tp, 0)

	s.monitors.Wait()

	assert.True(t, logger.contains("Instance 0 of service 'oneshot' exited with error code 2"))
	assert.True(t, logger.contains("Instance 0 of service 'oneshot' has exited with an error and will not be restarted"))
	assert.False(t, logger.contains("Restarting"))
	assert.False(t, s.escalated.Load())
	assert.False(t, waitDone(t, s, 50*time.Millisecond))
}

func TestMonitor_CleanExitAtBudgetBoundaryStopsQuietly(t *testing.T) {
	skipOnWindows(t)

	s, logger, _ := newTestSupervisor(t)
	defer s.ShutdownAll()

	svc := shellService("done", "exit 0")
	svc.WaitReady = true
	svc.AutoRestart = true

	tp, err := s.StartInstance(svc, 0)
	require.NoError(t, err)
	s.StartMonitor(svc, tp, 0)

	s.monitors.Wait()

	assert.False(t, logger.contains("Restarting"))
	assert.False(t, logger.contains("Stopping all services"))
	assert.False(t, s.escalated.Load())
	assert.Empty(t, s.TrackedPIDs(), "exited instance should have been removed from the table")
}

func TestMonitor_EscalationTakesDownEveryService(t *testing.T) {
	skipOnWindows(t)

	s, _, registryPath := newTestSupervisor(t)

	keeper, err := s.StartInstance(shellService("keeper", "sleep 30"), 0)
	require.NoError(t, err)

	svc := shellService("transient", "exit 5")
	svc.WaitReady = true
	svc.AutoRestart = true
	svc.MaxRestarts = 1

	tp, err := s.StartInstance(svc, 0)
	require.NoError(t, err)
	s.StartMonitor(svc, tp, 0)

	require.True(t, waitDone(t, s, 10*time.Second), "exhausted budget with failing exits escalates")
	s.monitors.Wait()

	assert.True(t, keeper.Exited(), "escalation must take down every service")
	assert.NoFileExists(t, registryPath, fmt.Sprintf("registry %s should be cleared by shutdown", registryPath))
}
