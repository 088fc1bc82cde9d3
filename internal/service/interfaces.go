// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/mbellec/bocage/internal/model"
)

// Store defines the contract consumed by the fetch and mutation
// coordinators. Implementations must return prospects ordered by relevance
// score descending and interactions ordered by the recency key
// (created_at desc, id desc), each subject to a row cap. The boolean result
// reports whether the row cap was reached, which callers surface as a
// non-fatal truncation warning.
type Store interface {
	// FetchProspects returns all prospects up to the configured cap.
	FetchProspects(ctx context.Context) ([]model.Prospect, bool, error)

	// FetchInteractions returns the most recent interactions across all
	// prospects, up to the configured cap.
	FetchInteractions(ctx context.Context) ([]model.Interaction, bool, error)

	// InsertInteraction appends one interaction and returns the stored row
	// with its backend-assigned ID and timestamp. Interactions are
	// insert-only; nothing in this system edits or deletes them.
	InsertInteraction(ctx context.Context, in model.NewInteraction) (*model.Interaction, error)

	// Close releases any resources held by the store.
	Close() error
}

// Identity exposes the current actor and session lifecycle. Implementations
// return common.ErrUnauthenticated from CurrentActor when no live session
// exists.
type Identity interface {
	CurrentActor(ctx context.Context) (string, error)
	SignIn(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// StoreLimits carries the row caps applied to backend reads.
type StoreLimits struct {
	Prospects    int
	Interactions int
}

// DefaultLimits mirrors the caps used by the production backend.
func DefaultLimits() StoreLimits {
	return StoreLimits{Prospects: 500, Interactions: 1000}
}
