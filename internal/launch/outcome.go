// Package launch starts pop-managed node and network processes and drives
// each launch to a terminal state: Ready with endpoints, Failed with the
// captured output, or TimedOut after a forced kill.
package launch

import (
	"fmt"
	"strconv"
	"strings"
)

// State is the terminal state of a launch.
type State string

const (
	StateReady    State = "ready"
	StateFailed   State = "failed"
	StateTimedOut State = "timed_out"
)

// Role identifies which part of the topology an endpoint serves.
type Role string

const (
	RoleRelay Role = "relay"
	RoleChain Role = "chain"
)

// Endpoint is a WebSocket RPC endpoint published by a launched node.
type Endpoint struct {
	Role Role   `json:"role"`
	Host string `json:"host"`
	Port int    `json:"port"`
}

// URI renders the endpoint as a ws:// URL.
func (e Endpoint) URI() string {
	return fmt.Sprintf("ws://%s:%d", e.Host, e.Port)
}

// ParseEndpoint splits a ws:// URL into host and port. Anything after the
// first path separator is ignored, which also covers the bare trailing
// slash pop appends to the URLs it prints.
func ParseEndpoint(role Role, uri string) (Endpoint, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "ws://")
	if !ok {
		return Endpoint{}, fmt.Errorf("expected ws:// URL, got %q", uri)
	}
	hostPort := rest
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		hostPort = rest[:i]
	}
	i := strings.LastIndexByte(hostPort, ':')
	if i < 0 {
		return Endpoint{}, fmt.Errorf("missing port in URL %q", uri)
	}
	port, err := strconv.Atoi(hostPort[i+1:])
	if err != nil || port <= 0 || port > 65535 {
		return Endpoint{}, fmt.Errorf("invalid port in URL %q", uri)
	}
	return Endpoint{Role: role, Host: hostPort[:i], Port: port}, nil
}

// Outcome is the terminal result of a launch. Output carries everything the
// child wrote regardless of state; Err explains Failed and TimedOut.
// A node launch that goes Ready lists the pids pop advertised for later
// teardown. A network launch that goes Ready lists the supervisor pid and
// records where the topology descriptor landed.
type Outcome struct {
	State     State      `json:"state"`
	Endpoints []Endpoint `json:"endpoints,omitempty"`
	PIDs      []int      `json:"pids,omitempty"`
	Output    string     `json:"output"`

	// Network launches only.
	BaseDir        string `json:"base_dir,omitempty"`
	DescriptorPath string `json:"descriptor_path,omitempty"`

	Err error `json:"-"`
}

// Ready reports whether the launch reached a usable state.
func (o *Outcome) Ready() bool { return o.State == StateReady }

// Endpoint returns the first endpoint with the given role.
func (o *Outcome) Endpoint(role Role) (Endpoint, bool) {
	for _, ep := range o.Endpoints {
		if ep.Role == role {
			return ep, true
		}
	}
	return Endpoint{}, false
}

// Reason renders why the launch did not go Ready.
func (o *Outcome) Reason() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	if o.Output != "" {
		return o.Output
	}
	return string(o.State)
}
