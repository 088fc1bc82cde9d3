package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mbellec/bocage/internal/model"
)

const interactionColumns = `id, prospect_id, kind, notes, created_at, created_by`

// FetchInteractions returns the most recent interactions across all
// prospects under the recency key (created_at desc, id desc), up to the
// configured cap. The boolean reports whether the cap was reached.
func (s *SQLiteStorage) FetchInteractions(ctx context.Context) ([]model.Interaction, bool, error) {
	if err := validateContext(ctx); err != nil {
		return nil, false, err
	}

	query := fmt.Sprintf(`SELECT %s FROM interactions
		ORDER BY created_at DESC, id DESC LIMIT ?`, interactionColumns)
	rows, err := s.db.QueryContext(ctx, query, s.limits.Interactions)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var interactions []model.Interaction
	for rows.Next() {
		it, scanErr := scanInteraction(rows)
		if scanErr != nil {
			return nil, false, scanErr
		}
		interactions = append(interactions, it)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("failed to iterate interactions: %w", err)
	}

	return interactions, len(interactions) >= s.limits.Interactions, nil
}

// InsertInteraction appends one interaction and returns the stored row with
// its assigned id and timestamp. The interactions table is insert-only.
func (s *SQLiteStorage) InsertInteraction(ctx context.Context, in model.NewInteraction) (*model.Interaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateNewInteraction(&in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO interactions (prospect_id, kind, notes, created_at, created_by)
		VALUES (?, ?, ?, ?, ?)`,
		in.ProspectID, string(in.Kind), in.Notes, now, in.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to insert interaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}

	createdBy := in.CreatedBy
	return &model.Interaction{
		ID:         id,
		ProspectID: in.ProspectID,
		Kind:       in.Kind,
		Notes:      in.Notes,
		CreatedAt:  now,
		CreatedBy:  &createdBy,
	}, nil
}

// SaveInteractions bulk-inserts interactions. Used by the seed loader only.
func (s *SQLiteStorage) SaveInteractions(ctx context.Context, interactions []model.Interaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(interactions) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO interactions (prospect_id, kind, notes, created_at, created_by)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range interactions {
		it := &interactions[i]
		createdAt := it.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx,
			it.ProspectID, string(it.Kind), it.Notes, createdAt, it.CreatedBy,
		); err != nil {
			return fmt.Errorf("failed to insert interaction for prospect %d: %w", it.ProspectID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit interactions: %w", err)
	}
	return nil
}

func scanInteraction(row rowScanner) (model.Interaction, error) {
	var it model.Interaction
	var notes, createdBy sql.NullString

	if err := row.Scan(&it.ID, &it.ProspectID, (*string)(&it.Kind), &notes, &it.CreatedAt, &createdBy); err != nil {
		return model.Interaction{}, fmt.Errorf("failed to scan interaction: %w", err)
	}

	it.Notes = nullString(notes)
	it.CreatedBy = nullString(createdBy)
	return it, nil
}
