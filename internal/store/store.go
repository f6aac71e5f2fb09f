// Package store persists launches and session state across server runs, so
// a restarted server can still find and tear down what an earlier one
// started.
package store

import "popmcp/internal/launch"

// SessionNodeWS is the session key holding the RPC URL of the last node
// launched through the server.
const SessionNodeWS = "node_ws"

// Launch is one recorded launch and everything teardown needs to find it
// again: pids, endpoints, and the network base directory. Timestamps are
// RFC 3339 UTC strings, matching the columns they live in.
type Launch struct {
	ID             string
	Kind           launch.Kind
	PIDs           []int
	Endpoints      []launch.Endpoint
	BaseDir        string
	DescriptorPath string
	StartedAt      string
	TornDownAt     string // empty while the launch is still up
}

// Active reports whether the launch has not been torn down yet.
func (l *Launch) Active() bool { return l.TornDownAt == "" }

// Store is the persistence facade. Tools and CLI use only this interface;
// the implementation is SQLite or in-memory.
type Store interface {
	SaveLaunch(l *Launch) error
	GetLaunch(id string) (*Launch, error)
	ListLaunches() ([]*Launch, error)
	MarkTornDown(id string) error

	PutSession(key, value string) error
	GetSession(key string) (string, error)
	DeleteSession(key string) error

	Close() error
}
