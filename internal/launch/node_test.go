package launch

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeFakePop drops a shell script that stands in for the pop binary.
func writeFakePop(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pop")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func readPIDFile(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	require.NoError(t, err)
	return pid
}

func TestNode_ReadyFromStream(t *testing.T) {
	body := `echo '⚙  Local node started successfully:'
echo '│  portal: https://polkadot.js.org/apps/?rpc=ws://localhost:9944/#/explorer'
echo '│  url: ws://localhost:9944/'
echo 'preparing chain spec' >&2
echo '└  Node bootstrapped successfully. Run ` + "`kill -9 11040 11253`" + ` to terminate it.'`
	l := NewLauncher(writeFakePop(t, body))

	out, err := l.Node(context.Background(), NodeRequest{Timeout: 10 * time.Second})
	require.NoError(t, err)
	require.Equal(t, StateReady, out.State)
	require.Equal(t, []Endpoint{{Role: RoleChain, Host: "localhost", Port: 9944}}, out.Endpoints)
	require.Equal(t, []int{11040, 11253}, out.PIDs)
	require.Contains(t, out.Output, "preparing chain spec", "stderr lines belong in the captured output")
	require.Contains(t, out.Output, "portal:")
}

func TestNode_PortOverridesReachArgvAndParser(t *testing.T) {
	body := `echo "args: $*"
echo '│  url: ws://localhost:8546'
echo '│  url: ws://localhost:9945/'`
	l := NewLauncher(writeFakePop(t, body))

	out, err := l.Node(context.Background(), NodeRequest{
		RPCPort:    9945,
		EthRPCPort: 8546,
		Timeout:    10 * time.Second,
	})
	require.NoError(t, err)
	require.Equal(t, StateReady, out.State)
	require.Contains(t, out.Output, "--rpc-port 9945")
	require.Contains(t, out.Output, "--eth-rpc-port 8546")

	ep, ok := out.Endpoint(RoleChain)
	require.True(t, ok)
	require.Equal(t, 9945, ep.Port, "the Ethereum RPC line must not win")
}

func TestNode_FatalMarkerKillsChild(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "pid")
	body := `echo $$ > "` + pidFile + `"
echo 'Could not launch local network'
exec sleep 30`
	l := NewLauncher(writeFakePop(t, body))

	out, err := l.Node(context.Background(), NodeRequest{Timeout: 10 * time.Second})
	require.NoError(t, err)
	require.Equal(t, StateFailed, out.State)

	var fatal *FatalOutputError
	require.ErrorAs(t, out.Err, &fatal)
	require.Equal(t, FatalNetworkMarker, fatal.Marker)
	require.Contains(t, out.Output, FatalNetworkMarker)

	pid := readPIDFile(t, pidFile)
	require.False(t, ProcessAlive(pid), "the child must be killed on a fatal marker")
}

func TestNode_TimeoutKillsChild(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "pid")
	body := `echo $$ > "` + pidFile + `"
exec sleep 30`
	l := NewLauncher(writeFakePop(t, body))

	start := time.Now()
	out, err := l.Node(context.Background(), NodeRequest{Timeout: 700 * time.Millisecond})
	require.NoError(t, err)
	require.Equal(t, StateTimedOut, out.State)
	require.Less(t, time.Since(start), 5*time.Second)

	var timeout *TimeoutError
	require.ErrorAs(t, out.Err, &timeout)

	pid := readPIDFile(t, pidFile)
	require.False(t, ProcessAlive(pid), "a timed out launch must not leak its child")
}

func TestNode_EarlyExitNonZero(t *testing.T) {
	body := `echo 'Error: port 9944 already in use' >&2
exit 1`
	l := NewLauncher(writeFakePop(t, body))

	out, err := l.Node(context.Background(), NodeRequest{Timeout: 10 * time.Second})
	require.NoError(t, err)
	require.Equal(t, StateFailed, out.State)
	require.Contains(t, out.Output, "already in use")
	require.Contains(t, out.Err.Error(), "already in use", "the failure should carry the diagnostics")
}

func TestNode_CleanExitWithoutURL(t *testing.T) {
	l := NewLauncher(writeFakePop(t, `echo 'nothing useful'`))

	out, err := l.Node(context.Background(), NodeRequest{Timeout: 10 * time.Second})
	require.NoError(t, err)
	require.Equal(t, StateFailed, out.State)
	require.ErrorIs(t, out.Err, ErrNoEndpoint)
	require.Contains(t, out.Output, "nothing useful")
}

func TestNode_SpawnFailure(t *testing.T) {
	l := NewLauncher(filepath.Join(t.TempDir(), "missing-pop"))

	out, err := l.Node(context.Background(), NodeRequest{Timeout: time.Second})
	require.Nil(t, out)

	var res *ResolutionError
	require.ErrorAs(t, err, &res)
}

func TestNode_ContextCancelKillsChild(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "pid")
	body := `echo $$ > "` + pidFile + `"
exec sleep 30`
	l := NewLauncher(writeFakePop(t, body))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	out, err := l.Node(ctx, NodeRequest{Timeout: 30 * time.Second})
	require.Nil(t, out)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	pid := readPIDFile(t, pidFile)
	require.False(t, ProcessAlive(pid))
}
