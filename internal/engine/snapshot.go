package engine

import (
	"sync"
	"time"

	"github.com/mbellec/bocage/internal/model"
)

// Truncation records which sub-fetches hit their row cap. It is a warning,
// never an error.
type Truncation struct {
	Prospects    bool
	Interactions bool
}

// Any reports whether any row cap was reached.
func (t Truncation) Any() bool {
	return t.Prospects || t.Interactions
}

// Snapshot is the client-held copy of the campaign data: all prospects
// enriched with their derived status, plus the flat interaction list in
// recency order. Snapshots are immutable once published; every mutation
// produces a new one.
type Snapshot struct {
	LoadedAt     time.Time
	Prospects    []model.ProspectWithStatus
	Interactions []model.Interaction
	Truncated    Truncation
}

// ProspectByID returns the enriched prospect with the given id, or nil.
func (s *Snapshot) ProspectByID(id int64) *model.ProspectWithStatus {
	for i := range s.Prospects {
		if s.Prospects[i].ID == id {
			return &s.Prospects[i]
		}
	}
	return nil
}

// ProspectByRef returns the enriched prospect with the given external
// reference, or nil.
func (s *Snapshot) ProspectByRef(ref string) *model.ProspectWithStatus {
	for i := range s.Prospects {
		if s.Prospects[i].ExternalRef == ref {
			return &s.Prospects[i]
		}
	}
	return nil
}

// clone copies the snapshot deeply enough that mutating the copy's slices
// never affects the original. Prospect and interaction values are copied by
// value; their pointer fields reference shared, read-only data.
func (s *Snapshot) clone() *Snapshot {
	c := &Snapshot{
		LoadedAt:     s.LoadedAt,
		Truncated:    s.Truncated,
		Prospects:    make([]model.ProspectWithStatus, len(s.Prospects)),
		Interactions: make([]model.Interaction, 0, len(s.Interactions)+1),
	}
	copy(c.Prospects, s.Prospects)
	c.Interactions = append(c.Interactions, s.Interactions...)
	return c
}

// ReactiveStore holds the current snapshot for the lifetime of a session.
// It is written only by the coordinator (loads and mutations); readers get
// the published snapshot and must treat it as immutable.
//
// The generation counter doubles as the cancellation token: every load takes
// a token when it starts, and every write-site re-checks that it still owns
// the current token immediately before publishing. A load that lost its
// token publishes nothing, which makes "last started wins" hold even when an
// older load finishes later.
type ReactiveStore struct {
	snap       *Snapshot
	mu         sync.RWMutex
	generation uint64
	loading    bool
}

// NewReactiveStore returns an empty store. Current returns nil until the
// first successful load publishes.
func NewReactiveStore() *ReactiveStore {
	return &ReactiveStore{}
}

// Current returns the published snapshot, or nil before the first load.
func (r *ReactiveStore) Current() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// Loading reports whether a non-silent load is in flight.
func (r *ReactiveStore) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loading
}

// begin registers a new authoritative load and returns its token. Any load
// holding an older token is invalidated from this point on.
func (r *ReactiveStore) begin(silent bool) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	if !silent {
		r.loading = true
	}
	return r.generation
}

// publish installs a snapshot if the caller still owns the current token.
// Returns false when the load was superseded; the store is untouched.
func (r *ReactiveStore) publish(token uint64, snap *Snapshot) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token != r.generation {
		return false
	}
	r.snap = snap
	r.loading = false
	return true
}

// fail clears the loading flag for a failed load that still owns the token.
// The snapshot is left untouched either way.
func (r *ReactiveStore) fail(token uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token != r.generation {
		return false
	}
	r.loading = false
	return true
}

// mutate atomically replaces the snapshot with the result of fn applied to
// the current one, and invalidates any in-flight load so stale fetch results
// started before the mutation cannot overwrite it. fn receives nil when
// nothing has been published yet and may return nil to leave the store
// unchanged.
func (r *ReactiveStore) mutate(fn func(*Snapshot) *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := fn(r.snap)
	if next == nil {
		return
	}
	r.generation++
	r.snap = next
	// Any in-flight load was just invalidated and can no longer clear the
	// indicator itself.
	r.loading = false
}
