package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/mbellec/bocage/internal/model"
)

// batchSize matches the chunk size the legacy loader used.
const batchSize = 50

// BulkStore is the subset of the local store the loader needs.
type BulkStore interface {
	SaveProspects(ctx context.Context, prospects []model.Prospect) error
	SaveInteractions(ctx context.Context, interactions []model.Interaction) error
}

// Loader writes parsed seed data into a local store with progress feedback.
type Loader struct {
	store BulkStore
	out   io.Writer
}

// NewLoader creates a loader that reports progress to out.
func NewLoader(store BulkStore, out io.Writer) *Loader {
	return &Loader{store: store, out: out}
}

// Load inserts prospects in batches, then the demo interactions. Prospects
// that already exist (same external reference) are skipped by the store.
func (l *Loader) Load(ctx context.Context, data *Data) error {
	bar := l.newBar(len(data.Prospects))

	for start := 0; start < len(data.Prospects); start += batchSize {
		end := min(start+batchSize, len(data.Prospects))

		if err := l.store.SaveProspects(ctx, data.Prospects[start:end]); err != nil {
			return fmt.Errorf("failed to save prospects %d-%d: %w", start+1, end, err)
		}
		_ = bar.Add(end - start)
	}
	_ = bar.Finish()

	interactions := make([]model.Interaction, 0, len(data.Interactions))
	for i := range data.Interactions {
		in := &data.Interactions[i]
		createdBy := in.CreatedBy
		interactions = append(interactions, model.Interaction{
			ProspectID: in.ProspectID,
			Kind:       in.Kind,
			Notes:      in.Notes,
			CreatedBy:  &createdBy,
		})
	}
	if err := l.store.SaveInteractions(ctx, interactions); err != nil {
		return fmt.Errorf("failed to save interactions: %w", err)
	}

	slog.Info("Seed data loaded",
		"prospects", len(data.Prospects),
		"interactions", len(interactions))
	return nil
}

func (l *Loader) newBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(l.out),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Loading prospects..."),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(l.out)
		}),
	)
}
