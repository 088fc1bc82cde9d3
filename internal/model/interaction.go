package model

import (
	"fmt"
	"sort"
	"time"
)

// InteractionKind identifies the type of an outreach contact.
type InteractionKind string

// Interaction kind constants. These match the values stored in the backend.
const (
	KindCalled     InteractionKind = "called"
	KindInterested InteractionKind = "interested"
	KindRefused    InteractionKind = "refused"
	KindCallback   InteractionKind = "callback"
	KindRecruited  InteractionKind = "recruited"
)

// ParseInteractionKind validates a raw kind string.
func ParseInteractionKind(raw string) (InteractionKind, error) {
	switch k := InteractionKind(raw); k {
	case KindCalled, KindInterested, KindRefused, KindCallback, KindRecruited:
		return k, nil
	}
	return "", fmt.Errorf("unknown interaction kind: %q", raw)
}

// Interaction is one append-only record of outreach contact with a prospect.
// Interactions are never edited or deleted by this system.
type Interaction struct {
	CreatedAt  time.Time
	Kind       InteractionKind
	Notes      *string
	CreatedBy  *string
	ID         int64
	ProspectID int64
}

// NewInteraction carries the client-supplied fields for an insert. The
// backend assigns ID and CreatedAt.
type NewInteraction struct {
	Notes      *string
	CreatedBy  string
	Kind       InteractionKind
	ProspectID int64
}

// MoreRecent reports whether a is more recent than b under the recency key
// (created_at desc, id desc). The ID tie-break keeps ordering deterministic
// when timestamps collide.
func MoreRecent(a, b Interaction) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// SortByRecency orders interactions most-recent-first under the recency key.
// The sort is stable so equal elements keep their relative order.
func SortByRecency(interactions []Interaction) {
	sort.SliceStable(interactions, func(i, j int) bool {
		return MoreRecent(interactions[i], interactions[j])
	})
}
