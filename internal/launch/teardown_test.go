package launch

import (
	"context"
	"net"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeRunner records the argv of every delegated pop invocation.
type fakeRunner struct {
	calls [][]string
	out   string
	err   error
}

func (f *fakeRunner) Run(_ context.Context, args ...string) (string, error) {
	f.calls = append(f.calls, args)
	return f.out, f.err
}

// spawnSleeper starts a real process the test can kill.
func spawnSleeper(t *testing.T) *exec.Cmd {
	t.Helper()
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})
	return cmd
}

func TestKillProcess_LiveThenDead(t *testing.T) {
	cmd := spawnSleeper(t)
	pid := cmd.Process.Pid

	require.NoError(t, KillProcess(pid))
	_ = cmd.Wait()

	// Killing an already-dead pid is success, twice over.
	require.NoError(t, KillProcess(pid))
	require.NoError(t, KillProcess(pid))
}

func TestProcessAlive(t *testing.T) {
	require.True(t, ProcessAlive(os.Getpid()))
	require.False(t, ProcessAlive(0))
	require.False(t, ProcessAlive(-1))

	cmd := spawnSleeper(t)
	pid := cmd.Process.Pid
	require.True(t, ProcessAlive(pid))

	require.NoError(t, KillProcess(pid))
	_ = cmd.Wait()
	require.False(t, ProcessAlive(pid))
}

func TestProcessAlive_Zombie(t *testing.T) {
	// Killed but not yet reaped: alive to kill(2), dead for our purposes.
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	pid := cmd.Process.Pid
	require.NoError(t, KillProcess(pid))

	require.Eventually(t, func() bool { return !ProcessAlive(pid) },
		5*time.Second, 50*time.Millisecond)
	_ = cmd.Wait()
}

func TestKillAll_MissingPIDsAreFine(t *testing.T) {
	a := spawnSleeper(t)
	b := spawnSleeper(t)
	pa, pb := a.Process.Pid, b.Process.Pid

	c := NewCoordinator(&fakeRunner{}, time.Second)
	require.NoError(t, c.KillAll(pa, pb))
	_ = a.Wait()
	_ = b.Wait()

	require.NoError(t, c.KillAll(pa, pb), "teardown is idempotent")
}

func TestCoordinator_CleanNodesArgs(t *testing.T) {
	runner := &fakeRunner{out: "Nodes cleaned"}
	c := NewCoordinator(runner, time.Second)

	_, err := c.CleanNodes(context.Background())
	require.NoError(t, err)
	_, err = c.CleanNodes(context.Background(), 11, 12)
	require.NoError(t, err)

	require.Equal(t, [][]string{
		{"clean", "node", "--all"},
		{"clean", "node", "--pid", "11", "12"},
	}, runner.calls)
}

func TestCoordinator_CleanNetworkArgs(t *testing.T) {
	runner := &fakeRunner{}
	c := NewCoordinator(runner, time.Second)

	ctx := context.Background()
	_, err := c.CleanNetwork(ctx, "", true, false)
	require.NoError(t, err)
	_, err = c.CleanNetwork(ctx, "./network.toml", false, true)
	require.NoError(t, err)
	_, err = c.CleanNetwork(ctx, "", false, false)
	require.NoError(t, err)

	require.Equal(t, [][]string{
		{"clean", "network", "--all"},
		{"clean", "network", "./network.toml", "--keep-state"},
		{"clean", "network"},
	}, runner.calls)
}

func TestWaitPortsFree(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ep := Endpoint{Role: RoleChain, Host: "127.0.0.1", Port: port}

	c := NewCoordinator(&fakeRunner{}, 600*time.Millisecond)
	err = c.WaitPortsFree(context.Background(), ep)
	var td *TeardownError
	require.ErrorAs(t, err, &td)
	require.Equal(t, port, td.Port)

	require.NoError(t, ln.Close())
	require.NoError(t, c.WaitPortsFree(context.Background(), ep))
}
