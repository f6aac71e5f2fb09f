package store

import (
	"fmt"
	"sort"
	"sync"

	"popmcp/internal/launch"
)

// MemStore is the in-memory Store. Tests use it, and so does a server
// running with persistence disabled.
type MemStore struct {
	mu       sync.Mutex
	launches map[string]*Launch
	session  map[string]string
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		launches: make(map[string]*Launch),
		session:  make(map[string]string),
	}
}

func (m *MemStore) SaveLaunch(l *Launch) error {
	if l.ID == "" {
		return fmt.Errorf("save launch: empty id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := copyLaunch(l)
	if cp.StartedAt == "" {
		cp.StartedAt = nowUTC()
	}
	m.launches[l.ID] = cp
	return nil
}

func (m *MemStore) GetLaunch(id string) (*Launch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.launches[id]
	if !ok {
		return nil, nil
	}
	return copyLaunch(l), nil
}

func (m *MemStore) ListLaunches() ([]*Launch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Launch, 0, len(m.launches))
	for _, l := range m.launches {
		out = append(out, copyLaunch(l))
	}
	sortLaunches(out)
	return out, nil
}

func (m *MemStore) MarkTornDown(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.launches[id]; ok && l.TornDownAt == "" {
		l.TornDownAt = nowUTC()
	}
	return nil
}

func (m *MemStore) PutSession(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session[key] = value
	return nil
}

func (m *MemStore) GetSession(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session[key], nil
}

func (m *MemStore) DeleteSession(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.session, key)
	return nil
}

func (m *MemStore) Close() error { return nil }

func copyLaunch(l *Launch) *Launch {
	cp := *l
	cp.PIDs = append([]int(nil), l.PIDs...)
	cp.Endpoints = append([]launch.Endpoint(nil), l.Endpoints...)
	return &cp
}

func sortLaunches(list []*Launch) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].StartedAt != list[j].StartedAt {
			return list[i].StartedAt < list[j].StartedAt
		}
		return list[i].ID < list[j].ID
	})
}
