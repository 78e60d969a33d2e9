// Package process provides the OS-level primitives the supervisor uses
// to launch and signal child process groups.
//
// Full process-group termination is only guaranteed on Unix platforms,
// where a launched instance becomes the leader of a new process group
// and a single signal to the group reaches every descendant it forks.
// On Windows there is no equivalent job control here: signals are
// delivered to the direct child only, and any grandchildren must be
// cleaned up separately by the caller.
package process
