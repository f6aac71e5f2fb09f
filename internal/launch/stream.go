package launch

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// FatalNetworkMarker in launch output means zombienet gave up; waiting any
// longer cannot succeed.
const FatalNetworkMarker = "Could not launch local network"

// line is one line of child output tagged with its source stream.
type line struct {
	stream string
	text   string
}

// funnelLines drains both pipes line-by-line into a single channel. Each
// stream keeps its own order; interleaving across the two is scheduler
// dependent. The channel closes once both pipes hit EOF.
func funnelLines(stdout, stderr io.Reader) <-chan line {
	ch := make(chan line, 64)
	var g errgroup.Group
	scan := func(name string, r io.Reader) func() error {
		return func() error {
			sc := bufio.NewScanner(r)
			sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for sc.Scan() {
				ch <- line{stream: name, text: sc.Text()}
			}
			return sc.Err()
		}
	}
	g.Go(scan("stdout", stdout))
	g.Go(scan("stderr", stderr))
	go func() {
		_ = g.Wait()
		close(ch)
	}()
	return ch
}

// stripBox removes the box-drawing prefix pop wraps its status lines in.
func stripBox(raw string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "│"))
}

// nodeURLFromLine matches the line advertising the node's RPC URL, e.g.
//
//	│  url: ws://localhost:9944/
//
// Only the line carrying the expected RPC port counts; pop prints a second
// url line for the Ethereum RPC endpoint which must not win. The trailing
// slash is trimmed so the URL can go straight into an RPC client.
func nodeURLFromLine(raw string, rpcPort int) (string, bool) {
	trimmed := stripBox(raw)
	want := fmt.Sprintf(":%d", rpcPort)
	if !strings.HasPrefix(trimmed, "url:") || !strings.Contains(trimmed, "ws://") || !strings.Contains(trimmed, want) {
		return "", false
	}
	if i := strings.Index(trimmed, "ws://"); i >= 0 {
		return strings.TrimRight(trimmed[i:], "/"), true
	}
	return "", false
}

// ParseNodeURL extracts the node's WebSocket URL from complete launch
// output.
func ParseNodeURL(output string, rpcPort int) (string, bool) {
	for _, raw := range strings.Split(output, "\n") {
		if url, ok := nodeURLFromLine(raw, rpcPort); ok {
			return url, true
		}
	}
	return "", false
}

// ParsePIDs extracts process ids from launch output. pop advertises them
// either on a "pids:" line or inside the kill hint it prints on success
// ("Run `kill -9 11040 11253` to terminate it"). Returns nil when the
// output carries neither.
func ParsePIDs(output string) []int {
	for _, raw := range strings.Split(output, "\n") {
		trimmed := stripBox(raw)
		if rest, ok := strings.CutPrefix(trimmed, "pids:"); ok {
			if pids := pidList(rest); len(pids) > 0 {
				return pids
			}
		}
		if i := strings.Index(trimmed, "kill -9"); i >= 0 {
			if pids := pidList(trimmed[i+len("kill -9"):]); len(pids) > 0 {
				return pids
			}
		}
	}
	return nil
}

func pidList(s string) []int {
	var pids []int
	for _, tok := range strings.Fields(s) {
		tok = strings.TrimFunc(tok, func(r rune) bool { return r < '0' || r > '9' })
		if tok == "" {
			continue
		}
		if pid, err := strconv.Atoi(tok); err == nil {
			pids = append(pids, pid)
		}
	}
	return pids
}
