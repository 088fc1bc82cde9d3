package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS prospects (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					external_ref TEXT UNIQUE NOT NULL,
					honorific TEXT,
					name TEXT NOT NULL,
					street TEXT,
					postal_code TEXT,
					city TEXT,
					department TEXT,
					zone TEXT,
					phone_home TEXT,
					phone_farm TEXT,
					email TEXT,
					estimated_area_ha REAL,
					area_source TEXT,
					contract_area_ha REAL,
					tonnage_area_ha REAL,
					tonnage_total REAL,
					certifications TEXT,
					latitude REAL,
					longitude REAL,
					loyalty_years INTEGER,
					relevance_score INTEGER NOT NULL DEFAULT 0,
					account_manager TEXT
				)`,
				`CREATE INDEX idx_prospects_score ON prospects(relevance_score)`,
				`CREATE INDEX idx_prospects_department ON prospects(department)`,

				`CREATE TABLE IF NOT EXISTS interactions (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					prospect_id INTEGER NOT NULL,
					kind TEXT NOT NULL,
					notes TEXT,
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					created_by TEXT,
					FOREIGN KEY (prospect_id) REFERENCES prospects(id)
				)`,
				`CREATE INDEX idx_interactions_prospect ON interactions(prospect_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Recency lookups by (created_at, id)",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`CREATE INDEX idx_interactions_recency ON interactions(created_at DESC, id DESC)`); err != nil {
				return fmt.Errorf("failed to create recency index: %w", err)
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
