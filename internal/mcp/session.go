package mcp

import (
	"log/slog"
	"sync"

	"popmcp/internal/store"
)

// session is the node endpoint remembered between tool calls: up_ink_node
// writes it, deploy_contract and call_contract fall back to it when no URL
// is given, and clean_nodes clears it. The value round-trips through the
// store so a restarted server keeps pointing at a node that is still up.
type session struct {
	store store.Store
	log   *slog.Logger

	mu  sync.Mutex
	url string
}

func newSession(st store.Store, log *slog.Logger) *session {
	s := &session{store: st, log: log}
	if st != nil {
		url, err := st.GetSession(store.SessionNodeWS)
		if err != nil {
			log.Warn("could not load node endpoint", "err", err)
		} else if url != "" {
			s.url = url
			log.Info("restored node endpoint", "url", url)
		}
	}
	return s
}

// NodeURL returns the remembered endpoint, or "".
func (s *session) NodeURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// SetNodeURL remembers the endpoint. Persistence is best-effort: a store
// failure costs the fallback across restarts, not the launch.
func (s *session) SetNodeURL(url string) {
	s.mu.Lock()
	s.url = url
	s.mu.Unlock()
	if s.store == nil {
		return
	}
	if err := s.store.PutSession(store.SessionNodeWS, url); err != nil {
		s.log.Warn("could not persist node endpoint", "err", err)
	}
}

// ClearNodeURL forgets the endpoint in memory and in the store.
func (s *session) ClearNodeURL() {
	s.mu.Lock()
	s.url = ""
	s.mu.Unlock()
	if s.store == nil {
		return
	}
	if err := s.store.DeleteSession(store.SessionNodeWS); err != nil {
		s.log.Warn("could not clear node endpoint", "err", err)
	}
}
