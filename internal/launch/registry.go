package launch

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind says what a registry record tracks.
type Kind string

const (
	KindNode    Kind = "node"
	KindNetwork Kind = "network"
)

// Record is one launch the registry knows how to tear down.
type Record struct {
	ID        string     `json:"id"`
	Kind      Kind       `json:"kind"`
	PIDs      []int      `json:"pids,omitempty"`
	Endpoints []Endpoint `json:"endpoints,omitempty"`
	BaseDir   string     `json:"base_dir,omitempty"`
	Started   time.Time  `json:"started"`
}

// Registry remembers what was launched in this process so teardown can
// find the pids and ports later. It deliberately tracks only its own
// launches; pop's cached state covers everything else.
type Registry struct {
	mu      sync.Mutex
	records map[string]*Record
}

func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*Record)}
}

// Add stores a record, assigning an id and start time when absent, and
// returns the id.
func (r *Registry) Add(rec *Record) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Started.IsZero() {
		rec.Started = time.Now().UTC()
	}
	r.records[rec.ID] = rec
	return rec.ID
}

// Get looks a record up by id.
func (r *Registry) Get(id string) (*Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	return rec, ok
}

// Remove deletes and returns a record. Removing an unknown id is fine;
// teardown paths are idempotent all the way down.
func (r *Registry) Remove(id string) (*Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if ok {
		delete(r.records, id)
	}
	return rec, ok
}

// List returns all records ordered by start time.
func (r *Registry) List() []*Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Started.Before(out[j].Started) })
	return out
}

// PIDs returns every tracked pid across all records.
func (r *Registry) PIDs() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pids []int
	for _, rec := range r.records {
		pids = append(pids, rec.PIDs...)
	}
	sort.Ints(pids)
	return pids
}
