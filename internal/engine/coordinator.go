// Package engine coordinates fetching and mutating the campaign snapshot.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/mbellec/bocage/internal/model"
	"github.com/mbellec/bocage/internal/service"
)

// Coordinator owns the ReactiveStore and is the only writer to it. It fetches
// prospects and interactions from the backend store, derives per-prospect
// statuses, and applies interaction appends through a reconciliation
// strategy.
type Coordinator struct {
	store      service.Store
	identity   service.Identity
	state      *ReactiveStore
	reconciler Reconciler
	clock      func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithReconciler selects the mutation reconciliation strategy. The default
// is the optimistic patch.
func WithReconciler(r Reconciler) Option {
	return func(c *Coordinator) { c.reconciler = r }
}

// WithClock overrides the time source. Used in tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Coordinator) { c.clock = clock }
}

// New creates a coordinator around a backend store and identity provider.
func New(store service.Store, identity service.Identity, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:    store,
		identity: identity,
		state:    NewReactiveStore(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.reconciler == nil {
		c.reconciler = PatchReconciler{}
	}
	return c
}

// State exposes the reactive store for readers (reports, TUI). Only the
// coordinator writes to it.
func (c *Coordinator) State() *ReactiveStore {
	return c.state
}

type fetchResult[T any] struct {
	rows      []T
	err       error
	truncated bool
}

// Load fetches all prospects and the most recent interactions concurrently,
// builds the enriched snapshot, and publishes it. At most one load is
// authoritative at a time: starting a new load invalidates any earlier one,
// and a superseded load returns ErrSuperseded without touching the store.
//
// silent=true skips the loading indicator (used for revalidation after a
// mutation) but follows identical supersession rules. On partial failure the
// whole load fails, the store is untouched, and the returned *FetchError
// names the failing sub-fetch.
func (c *Coordinator) Load(ctx context.Context, silent bool) (*Snapshot, error) {
	token := c.state.begin(silent)

	slog.Debug("Starting snapshot load", "silent", silent, "token", token)

	prospectsCh := make(chan fetchResult[model.Prospect], 1)
	interactionsCh := make(chan fetchResult[model.Interaction], 1)

	go func() {
		rows, truncated, err := c.store.FetchProspects(ctx)
		prospectsCh <- fetchResult[model.Prospect]{rows: rows, truncated: truncated, err: err}
	}()
	go func() {
		rows, truncated, err := c.store.FetchInteractions(ctx)
		interactionsCh <- fetchResult[model.Interaction]{rows: rows, truncated: truncated, err: err}
	}()

	prospects := <-prospectsCh
	interactions := <-interactionsCh

	if prospects.err != nil {
		c.state.fail(token)
		return nil, &FetchError{Scope: ScopeProspects, Err: prospects.err}
	}
	if interactions.err != nil {
		c.state.fail(token)
		return nil, &FetchError{Scope: ScopeInteractions, Err: interactions.err}
	}

	snap := buildSnapshot(prospects.rows, interactions.rows, c.clock())
	snap.Truncated = Truncation{
		Prospects:    prospects.truncated,
		Interactions: interactions.truncated,
	}
	if snap.Truncated.Prospects {
		slog.Warn("Prospect row cap reached, result may be truncated", "rows", len(prospects.rows))
	}
	if snap.Truncated.Interactions {
		slog.Warn("Interaction row cap reached, result may be truncated", "rows", len(interactions.rows))
	}

	if !c.state.publish(token, snap) {
		slog.Debug("Load superseded before publish", "token", token)
		return nil, ErrSuperseded
	}

	slog.Debug("Snapshot published",
		"prospects", len(snap.Prospects),
		"interactions", len(snap.Interactions))

	return snap, nil
}

// buildSnapshot groups interactions by prospect and derives each prospect's
// status from its group. Input order is not trusted: statuses come from the
// recency-key maximum, and the flat list is re-sorted most-recent-first.
func buildSnapshot(prospects []model.Prospect, interactions []model.Interaction, now time.Time) *Snapshot {
	byProspect := make(map[int64][]model.Interaction, len(prospects))
	for _, it := range interactions {
		byProspect[it.ProspectID] = append(byProspect[it.ProspectID], it)
	}

	enriched := make([]model.ProspectWithStatus, 0, len(prospects))
	for _, p := range prospects {
		group := byProspect[p.ID]
		enriched = append(enriched, model.ProspectWithStatus{
			Prospect:        p,
			Status:          model.DeriveStatus(group),
			LastInteraction: model.LatestInteraction(group),
		})
	}

	flat := make([]model.Interaction, len(interactions))
	copy(flat, interactions)
	model.SortByRecency(flat)

	return &Snapshot{
		LoadedAt:     now,
		Prospects:    enriched,
		Interactions: flat,
	}
}
