//go:build !windows

package process

import (
	"os/exec"
	"syscall"
	"testing"

	"github.com/michaelmohamed/pm5/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startSleeper(t *testing.T) *exec.Cmd {
	t.Helper()

	cmd := exec.Command("sleep", "30")
	ConfigureGroupLeader(cmd)
	require.NoError(t, cmd.Start())

	t.Cleanup(func() {
		_ = KillGroup(cmd.Process.Pid)
		_ = cmd.Wait()
	})

	return cmd
}

func TestConfigureGroupLeader(t *testing.T) {
	cmd := startSleeper(t)

	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	require.NoError(t, err)
	assert.Equal(t, cmd.Process.Pid, pgid)
}

func TestProbeGroup(t *testing.T) {
	cmd := startSleeper(t)

	assert.NoError(t, ProbeGroup(cmd.Process.Pid))
}

func TestTerminateGroup(t *testing.T) {
	cmd := startSleeper(t)
	pgid := cmd.Process.Pid

	require.NoError(t, TerminateGroup(pgid))

	err := cmd.Wait()
	require.Error(t, err) // died by signal

	err = ProbeGroup(pgid)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestKillGroup(t *testing.T) {
	cmd := startSleeper(t)
	pgid := cmd.Process.Pid

	require.NoError(t, KillGroup(pgid))
	_ = cmd.Wait()

	err := ProbeGroup(pgid)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestSignalGroup_GoneGroupIsNotFound(t *testing.T) {
	cmd := startSleeper(t)
	pgid := cmd.Process.Pid

	require.NoError(t, KillGroup(pgid))
	_ = cmd.Wait()

	assert.True(t, errors.IsNotFoundError(TerminateGroup(pgid)))
	assert.True(t, errors.IsNotFoundError(KillGroup(pgid)))
}

func TestProbe(t *testing.T) {
	cmd := startSleeper(t)

	assert.NoError(t, Probe(cmd.Process.Pid))
}

func TestTerminate(t *testing.T) {
	cmd := startSleeper(t)
	pid := cmd.Process.Pid

	require.NoError(t, Terminate(pid))
	_ = cmd.Wait()

	err := Probe(pid)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))

	assert.True(t, errors.IsNotFoundError(Terminate(pid)))
}
