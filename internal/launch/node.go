package launch

import (
	"context"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultNodeTimeout bounds how long a single node may take to
	// advertise its RPC URL.
	DefaultNodeTimeout = 60 * time.Second

	// DefaultNodeRPCPort is where pop serves the node RPC unless told
	// otherwise.
	DefaultNodeRPCPort = 9944

	// DefaultEthRPCPort is where pop serves the Ethereum RPC adapter.
	DefaultEthRPCPort = 8545

	// readyGrace is how long to keep draining output after the URL
	// appeared, so the trailing kill hint with the node pids makes it
	// into the captured log before pop detaches and exits.
	readyGrace = 2 * time.Second

	// abortGrace bounds the post-kill drain. The pipes normally close
	// the instant the child dies; an orphaned grandchild holding them
	// open must not wedge the launch call.
	abortGrace = 500 * time.Millisecond
)

// NodeRequest configures a single dev node launch.
type NodeRequest struct {
	RPCPort    int           // node RPC port; 0 keeps pop's default
	EthRPCPort int           // Ethereum RPC port; 0 keeps pop's default
	Timeout    time.Duration // readiness budget; 0 means DefaultNodeTimeout
}

func nodeArgs(req NodeRequest) []string {
	args := []string{"up", "ink-node", "-y", "--detach"}
	if req.RPCPort > 0 {
		args = append(args, "--rpc-port", strconv.Itoa(req.RPCPort))
	}
	if req.EthRPCPort > 0 {
		args = append(args, "--eth-rpc-port", strconv.Itoa(req.EthRPCPort))
	}
	return args
}

// Node launches a local dev node and watches its output streams until the
// node advertises its RPC URL, a fatal marker or early exit ends the
// launch, or the budget runs out. The node itself detaches and keeps
// running after Ready; the pids in the outcome are what teardown needs.
func (l *Launcher) Node(ctx context.Context, req NodeRequest) (*Outcome, error) {
	h, err := l.StartPiped(nodeArgs(req)...)
	if err != nil {
		return nil, err
	}

	rpcPort := req.RPCPort
	if rpcPort == 0 {
		rpcPort = DefaultNodeRPCPort
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultNodeTimeout
	}

	lines := funnelLines(h.stdout, h.stderr)
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	var buf strings.Builder
	for {
		select {
		case ln, ok := <-lines:
			if !ok {
				return l.nodeExited(h, buf.String())
			}
			buf.WriteString(ln.text)
			buf.WriteByte('\n')
			if strings.Contains(ln.text, FatalNetworkMarker) {
				abort(h, lines, &buf)
				output := buf.String()
				l.log.Warn("node launch failed", "marker", FatalNetworkMarker)
				return &Outcome{
					State:  StateFailed,
					Output: output,
					Err:    &FatalOutputError{Marker: FatalNetworkMarker, Output: output},
				}, nil
			}
			if url, ok := nodeURLFromLine(ln.text, rpcPort); ok {
				return l.nodeReady(h, lines, url, &buf)
			}
		case <-deadline.C:
			abort(h, lines, &buf)
			l.log.Warn("node launch timed out", "budget", timeout)
			return &Outcome{
				State:  StateTimedOut,
				Output: buf.String(),
				Err:    &TimeoutError{Stage: "node output", Budget: timeout},
			}, nil
		case <-ctx.Done():
			abort(h, lines, &buf)
			return nil, ctx.Err()
		}
	}
}

// nodeReady finishes a launch whose URL line already arrived. pop is about
// to detach and exit, so the remaining output is drained briefly to pick
// up the pid hint, then the outcome is assembled.
func (l *Launcher) nodeReady(h *Handle, lines <-chan line, url string, buf *strings.Builder) (*Outcome, error) {
	grace := time.NewTimer(readyGrace)
	defer grace.Stop()
drain:
	for {
		select {
		case ln, ok := <-lines:
			if !ok {
				_ = h.Wait()
				break drain
			}
			buf.WriteString(ln.text)
			buf.WriteByte('\n')
		case <-grace.C:
			// Still streaming past the grace: stop collecting and let
			// the remainder run out in the background.
			discard(h, lines)
			break drain
		}
	}

	output := buf.String()
	ep, err := ParseEndpoint(RoleChain, url)
	if err != nil {
		return &Outcome{State: StateFailed, Output: output, Err: err}, nil
	}
	pids := ParsePIDs(output)
	l.log.Info("node ready", "url", url, "pids", pids)
	return &Outcome{
		State:     StateReady,
		Endpoints: []Endpoint{ep},
		PIDs:      pids,
		Output:    output,
	}, nil
}

// nodeExited handles both pipes closing before any readiness decision:
// the launcher exited early. A clean exit without a URL means the output
// never carried one.
func (l *Launcher) nodeExited(h *Handle, output string) (*Outcome, error) {
	waitErr := h.Wait()
	out := &Outcome{State: StateFailed, Output: output}
	if waitErr != nil {
		out.Err = &FatalOutputError{Marker: waitErr.Error(), Output: output}
	} else {
		out.Err = ErrNoEndpoint
	}
	l.log.Warn("node launch failed", "err", out.Err)
	return out, nil
}

// abort kills the child and drains whatever output is left, bounded by
// abortGrace, then reaps it. Reaping moves to the background when the
// pipes are stuck open.
func abort(h *Handle, lines <-chan line, buf *strings.Builder) {
	h.Kill()
	grace := time.NewTimer(abortGrace)
	defer grace.Stop()
	for {
		select {
		case ln, ok := <-lines:
			if !ok {
				_ = h.Wait()
				return
			}
			buf.WriteString(ln.text)
			buf.WriteByte('\n')
		case <-grace.C:
			discard(h, lines)
			return
		}
	}
}

// discard consumes the rest of the stream in the background and reaps the
// child once it ends, keeping the funnel goroutines from blocking.
func discard(h *Handle, lines <-chan line) {
	go func() {
		for range lines {
		}
		_ = h.Wait()
	}()
}
