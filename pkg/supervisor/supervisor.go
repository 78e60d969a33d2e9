package supervisor

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/michaelmohamed/pm5/pkg/logging"
	"github.com/michaelmohamed/pm5/pkg/registry"
)

// Options configures a Supervisor.
type Options struct {
	// RegistryPath is the path of the persisted process group registry.
	// Defaults to registry.DefaultFileName in the working directory.
	RegistryPath string

	// GraceInterval is how long terminated process groups get between
	// SIGTERM and SIGKILL during shutdown. Defaults to 1 second.
	GraceInterval time.Duration

	// ReapTimeout bounds how long shutdown waits for each process to be
	// reaped after the kill phase. Defaults to 5 seconds.
	ReapTimeout time.Duration
}

func (o *Options) setDefaults() {
	if o.RegistryPath == "" {
		o.RegistryPath = registry.DefaultFileName
	}
	if o.GraceInterval == 0 {
		o.GraceInterval = time.Second
	}
	if o.ReapTimeout == 0 {
		o.ReapTimeout = 5 * time.Second
	}
}

// Supervisor owns the process table, the persisted registry and the
// shutdown state machine. All launch, restart and termination decisions
// go through it.
type Supervisor struct {
	options Options
	logger  logging.Logger

	registry *registry.Registry

	mutex     sync.Mutex
	processes map[int]*TrackedProcess

	shutdown  atomic.Bool
	escalated atomic.Bool
	done      chan struct{}

	monitors sync.WaitGroup
}

// NewSupervisor creates a Supervisor with an empty process table.
func NewSupervisor(options Options, logger logging.Logger) *Supervisor {
	options.setDefaults()
	return &Supervisor{
		options:   options,
		logger:    logger,
		registry:  registry.NewRegistry(options.RegistryPath, logger),
		processes: make(map[int]*TrackedProcess),
		done:      make(chan struct{}),
	}
}

// ShuttingDown reports whether shutdown has been initiated.
func (s *Supervisor) ShuttingDown() bool {
	return s.shutdown.Load()
}

// Done is closed once shutdown has completed.
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

// TrackedPIDs returns the PIDs currently in the process table, sorted.
func (s *Supervisor) TrackedPIDs() []int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.pidsLocked()
}

// track inserts tp into the process table and persists the registry
// within the same critical section.
func (s *Supervisor) track(tp *TrackedProcess) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.processes[tp.PID] = tp
	s.persistLocked()
}

// untrack removes tp from the process table, if still present, and
// persists the registry within the same critical section.
func (s *Supervisor) untrack(tp *TrackedProcess) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.processes[tp.PID]; !ok {
		return
	}
	delete(s.processes, tp.PID)
	s.persistLocked()
}

// persistLocked rewrites the registry to match the process table.
// Callers must hold the mutex. Once shutdown has started the terminator
// owns the registry and its clear is the final write.
func (s *Supervisor) persistLocked() {
	if s.shutdown.Load() {
		return
	}
	if err := s.registry.Save(s.pidsLocked()); err != nil {
		s.logger.Errorf("Failed to persist process registry: %v", err)
	}
}

func (s *Supervisor) pidsLocked() []int {
	pids := make([]int, 0, len(s.processes))
	for pid := range s.processes {
		pids = append(pids, pid)
	}
	sort.Ints(pids)
	return pids
}

// snapshotLocked returns the tracked processes ordered by PID. Callers
// must hold the mutex.
func (s *Supervisor) snapshotLocked() []*TrackedProcess {
	tracked := make([]*TrackedProcess, 0, len(s.processes))
	for _, pid := range s.pidsLocked() {
		tracked = append(tracked, s.processes[pid])
	}
	return tracked
}
