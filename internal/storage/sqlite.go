// Package storage provides the SQLite-backed store used for local and demo
// deployments. It implements the same contract as the HTTP backend client.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mbellec/bocage/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements service.Store using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
	limits service.StoreLimits
}

// NewSQLiteStorage creates a new SQLite storage instance. Row caps of zero
// fall back to the defaults.
func NewSQLiteStorage(dbPath string, limits service.StoreLimits) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}
	if limits.Prospects <= 0 {
		limits.Prospects = service.DefaultLimits().Prospects
	}
	if limits.Interactions <= 0 {
		limits.Interactions = service.DefaultLimits().Interactions
	}

	// Ensure directory exists, except for in-memory databases.
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
		limits: limits,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
