package launch

import (
	"context"
	"sync"
)

// StartFunc launches the shared node and reports its outcome.
type StartFunc func(ctx context.Context) (*Outcome, error)

// StopFunc tears the shared node down given the pids its launch reported.
type StopFunc func(ctx context.Context, pids []int) error

// SharedNode hands one dev node out to many concurrent users. The first
// Acquire launches it, later ones reuse it, and the last Release stops
// it. Everything is guarded by a single mutex, so a failed launch is
// retried by whoever calls Acquire next rather than poisoning the handle.
type SharedNode struct {
	mu    sync.Mutex
	refs  int
	url   string
	pids  []int
	start StartFunc
	stop  StopFunc
}

func NewSharedNode(start StartFunc, stop StopFunc) *SharedNode {
	return &SharedNode{start: start, stop: stop}
}

// Acquire returns the shared node's RPC URL, launching the node when no
// reference is outstanding.
func (s *SharedNode) Acquire(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refs > 0 {
		s.refs++
		return s.url, nil
	}
	out, err := s.start(ctx)
	if err != nil {
		return "", err
	}
	if !out.Ready() {
		if out.Err != nil {
			return "", out.Err
		}
		return "", ErrNoEndpoint
	}
	ep, ok := out.Endpoint(RoleChain)
	if !ok {
		return "", ErrNoEndpoint
	}
	s.url = ep.URI()
	s.pids = out.PIDs
	s.refs = 1
	return s.url, nil
}

// Release drops one reference and stops the node when it was the last.
// Releasing without a matching Acquire is fine.
func (s *SharedNode) Release(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refs == 0 {
		return nil
	}
	s.refs--
	if s.refs > 0 {
		return nil
	}
	pids := s.pids
	s.url, s.pids = "", nil
	if s.stop == nil {
		return nil
	}
	return s.stop(ctx, pids)
}

// InUse reports whether any reference is outstanding.
func (s *SharedNode) InUse() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs > 0
}
