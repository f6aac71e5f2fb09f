package launch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultNetworkTimeout bounds how long a multi-node topology may
	// take to drop its descriptor. Provisioning downloads runtimes on
	// first use, so this is generous.
	DefaultNetworkTimeout = 5 * time.Minute

	// DefaultEndpointTimeout bounds the wait for the descriptor to fill
	// in the RPC endpoints after it first appears.
	DefaultEndpointTimeout = 60 * time.Second

	// pollInterval paces every filesystem and port poll in the package.
	pollInterval = 200 * time.Millisecond
)

// NetworkRequest configures a multi-node topology launch.
type NetworkRequest struct {
	ConfigPath      string        // network config file for the supervisor
	Verbose         bool          // pass --verbose through
	Timeout         time.Duration // descriptor budget; 0 means DefaultNetworkTimeout
	EndpointTimeout time.Duration // endpoint budget; 0 means DefaultEndpointTimeout
	ScanDir         string        // where base dirs appear; "" means os.TempDir
}

func networkArgs(req NetworkRequest) []string {
	args := []string{"up", "network", req.ConfigPath, "-y"}
	if req.Verbose {
		args = append(args, "--verbose")
	}
	return args
}

// Network launches a topology and polls until its descriptor appears, the
// fatal marker shows up in the captured log, or the budget runs out. Both
// output streams go to a scratch log file that is re-read on every tick,
// because the supervisor keeps writing long after this call returns.
//
// On Ready the supervisor is left running on purpose: killing it would
// take the network down. Its pid rides along in the outcome so teardown
// can find it later.
func (l *Launcher) Network(ctx context.Context, req NetworkRequest) (*Outcome, error) {
	if strings.TrimSpace(req.ConfigPath) == "" {
		return nil, fmt.Errorf("network config path is empty")
	}
	scanDir := req.ScanDir
	if scanDir == "" {
		scanDir = os.TempDir()
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultNetworkTimeout
	}

	logPath := filepath.Join(os.TempDir(), fmt.Sprintf("popmcp-up-network-%d.log", time.Now().UnixNano()))
	h, err := l.StartToFile(logPath, networkArgs(req)...)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		raw, _ := os.ReadFile(logPath)
		output := string(raw)

		if strings.Contains(output, FatalNetworkMarker) {
			h.Kill()
			_ = h.Wait()
			l.log.Warn("network launch failed", "marker", FatalNetworkMarker, "log", logPath)
			return &Outcome{
				State:  StateFailed,
				Output: output,
				Err:    &FatalOutputError{Marker: FatalNetworkMarker, Output: output},
			}, nil
		}

		if path, ok := FindDescriptor(scanDir); ok {
			h.Release()
			out := &Outcome{
				PIDs:           []int{h.PID},
				Output:         output,
				BaseDir:        filepath.Dir(path),
				DescriptorPath: path,
			}
			eps, err := WaitNetworkEndpoints(ctx, path, req.EndpointTimeout)
			if err != nil {
				// The supervisor stays up: the caller still holds its
				// pid and base dir for cleanup.
				out.State = StateFailed
				out.Err = err
				l.log.Warn("network endpoints unavailable", "descriptor", path, "err", err)
				return out, nil
			}
			out.State = StateReady
			out.Endpoints = eps
			l.log.Info("network ready", "descriptor", path, "pid", h.PID, "endpoints", len(eps))
			return out, nil
		}

		if !time.Now().Before(deadline) {
			h.Kill()
			_ = h.Wait()
			l.log.Warn("network launch timed out", "budget", timeout, "log", logPath)
			return &Outcome{
				State:  StateTimedOut,
				Output: output,
				Err:    &TimeoutError{Stage: "network output", Budget: timeout},
			}, nil
		}

		select {
		case <-ctx.Done():
			h.Kill()
			_ = h.Wait()
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
