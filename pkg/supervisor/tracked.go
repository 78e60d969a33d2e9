package supervisor

import (
	"os/exec"
	"sync"
	"time"
)

// TrackedProcess is one live supervised instance. The process is the
// leader of its own process group, so PGID equals PID.
type TrackedProcess struct {
	PID     int
	PGID    int
	Service string

	cmd  *exec.Cmd
	done chan struct{}

	mu       sync.Mutex
	exited   bool
	exitCode int
}

func newTrackedProcess(cmd *exec.Cmd, service string) *TrackedProcess {
	return &TrackedProcess{
		PID:     cmd.Process.Pid,
		PGID:    cmd.Process.Pid,
		Service: service,
		cmd:     cmd,
		done:    make(chan struct{}),
	}
}

// reap performs the single Wait on the child, records its exit state
// and releases everyone blocked on it. Runs once, on its own goroutine.
func (tp *TrackedProcess) reap() {
	err := tp.cmd.Wait()

	code := 0
	if tp.cmd.ProcessState != nil {
		code = tp.cmd.ProcessState.ExitCode()
	} else if err != nil {
		code = -1
	}

	tp.mu.Lock()
	tp.exited = true
	tp.exitCode = code
	tp.mu.Unlock()

	close(tp.done)
}

// Wait blocks until the process has exited and been reaped.
func (tp *TrackedProcess) Wait() {
	<-tp.done
}

// WaitTimeout waits up to d for the process to exit. It reports whether
// the process exited within the window.
func (tp *TrackedProcess) WaitTimeout(d time.Duration) bool {
	select {
	case <-tp.done:
		return true
	case <-time.After(d):
		return false
	}
}

// Exited reports whether the process has exited.
func (tp *TrackedProcess) Exited() bool {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return tp.exited
}

// ExitCode returns the recorded exit code. Only meaningful once Exited
// reports true; a process killed by a signal reports -1.
func (tp *TrackedProcess) ExitCode() int {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return tp.exitCode
}
