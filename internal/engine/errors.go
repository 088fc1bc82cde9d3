package engine

import (
	"errors"
	"fmt"
)

// FetchScope identifies which sub-fetch of a load failed.
type FetchScope string

// Fetch scopes.
const (
	ScopeProspects    FetchScope = "prospects"
	ScopeInteractions FetchScope = "interactions"
)

// ErrSuperseded is returned by a load whose results were discarded because a
// newer load started before it could publish. It is informational; the
// snapshot already reflects (or will reflect) the newer load.
var ErrSuperseded = errors.New("load superseded by a newer load")

// FetchError reports a failed sub-fetch. The scope lets callers render a
// targeted retry for prospects vs interactions.
type FetchError struct {
	Err   error
	Scope FetchScope
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Scope, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MutationError reports a failed interaction append. The snapshot is
// guaranteed untouched when this is returned.
type MutationError struct {
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("failed to record interaction: %v", e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}
