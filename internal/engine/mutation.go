package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mbellec/bocage/internal/common"
	"github.com/mbellec/bocage/internal/model"
)

// AppendInteraction records one outreach contact against a prospect and
// reconciles the snapshot so the new interaction is visible both in the flat
// list and in the prospect's derived status.
//
// The actor identity is resolved before the write; an absent or expired
// session fails with common.ErrUnauthenticated and nothing is sent to the
// backend. On any failure the snapshot is left exactly as it was.
func (c *Coordinator) AppendInteraction(ctx context.Context, prospectID int64, kind model.InteractionKind, notes *string) error {
	actor, err := c.identity.CurrentActor(ctx)
	if err != nil {
		return fmt.Errorf("resolving actor: %w", common.ErrUnauthenticated)
	}

	inserted, err := c.store.InsertInteraction(ctx, model.NewInteraction{
		ProspectID: prospectID,
		Kind:       kind,
		Notes:      notes,
		CreatedBy:  actor,
	})
	if err != nil {
		return &MutationError{Err: err}
	}

	slog.Info("Interaction recorded",
		"prospect_id", prospectID,
		"kind", kind,
		"interaction_id", inserted.ID)

	return c.reconciler.Reconcile(ctx, c, inserted)
}

// Reconciler makes a freshly inserted interaction visible in the snapshot.
// Two strategies exist; both satisfy the same observable contract, so the
// choice is configuration, not semantics.
type Reconciler interface {
	Reconcile(ctx context.Context, c *Coordinator, inserted *model.Interaction) error
}

// PatchReconciler applies the inserted row to the current snapshot in place:
// the interaction is prepended to the flat list (already the recency head,
// so no re-sort) and the owning prospect's status is recomputed. O(1)
// amortized against the list; the prospect scan is linear.
type PatchReconciler struct{}

// Reconcile implements Reconciler.
func (PatchReconciler) Reconcile(_ context.Context, c *Coordinator, inserted *model.Interaction) error {
	c.state.mutate(func(cur *Snapshot) *Snapshot {
		if cur == nil {
			// Nothing published yet; the next load will pick the row up.
			return nil
		}
		next := cur.clone()

		// The backend assigned the newest id and timestamp, so prepending
		// preserves recency order without re-sorting.
		next.Interactions = append([]model.Interaction{*inserted}, next.Interactions...)

		for i := range next.Prospects {
			if next.Prospects[i].ID == inserted.ProspectID {
				next.Prospects[i].Status = model.Status(inserted.Kind)
				next.Prospects[i].LastInteraction = inserted
				break
			}
		}
		return next
	})
	return nil
}

// RevalidateReconciler re-fetches the whole snapshot silently instead of
// patching. A failed revalidation does not undo the mutation itself, which
// is already durable in the backend; the fetch error is surfaced so the
// caller knows the local view is stale.
type RevalidateReconciler struct{}

// Reconcile implements Reconciler.
func (RevalidateReconciler) Reconcile(ctx context.Context, c *Coordinator, _ *model.Interaction) error {
	if _, err := c.Load(ctx, true); err != nil {
		if errors.Is(err, ErrSuperseded) {
			// A newer load owns the store; it will include the insert.
			return nil
		}
		slog.Warn("Revalidation after mutation failed, snapshot is stale", "error", err)
		return err
	}
	return nil
}
