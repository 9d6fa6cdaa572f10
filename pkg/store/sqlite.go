//go:build sqlite

// Package store provides optional sqlite persistence of raw Monte-Carlo
// times to failure and run metadata, alongside the CSV dump the core
// produces. Built only when compiled with the "sqlite" tag, grounded on
// wizardbeard-protogonos/internal/storage/sqlite.go.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/google/uuid"
)

// SQLiteStore persists run metadata and per-component TTF samples.
type SQLiteStore struct {
	mu   sync.RWMutex
	path string
	db   *sql.DB
}

// NewSQLiteStore returns a store for the sqlite database at path. It does
// not open the database; Init does that (creating it if absent).
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the underlying connection and creates the schema if it
// doesn't already exist.
func (s *SQLiteStore) Init(ctx context.Context) error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("store: open %s: %w", s.path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("store: ping %s: %w", s.path, err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	iterations INTEGER NOT NULL,
	config_path TEXT NOT NULL,
	seed INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS ttfs (
	run_id TEXT NOT NULL,
	component_name TEXT NOT NULL,
	ttf_seconds REAL NOT NULL,
	FOREIGN KEY(run_id) REFERENCES runs(id)
);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}

	s.mu.Lock()
	s.db = db
	s.mu.Unlock()
	return nil
}

// Close releases the underlying connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun inserts a run's metadata row.
func (s *SQLiteStore) RecordRun(ctx context.Context, runID uuid.UUID, iterations int, configPath string, seed uint64) error {
	s.mu.RLock()
	db := s.db
	s.mu.RUnlock()

	_, err := db.ExecContext(ctx,
		`INSERT INTO runs (id, iterations, config_path, seed) VALUES (?, ?, ?, ?)`,
		runID.String(), iterations, configPath, seed)
	return err
}

// RecordTTFs bulk-inserts one component's raw TTF samples for a run.
func (s *SQLiteStore) RecordTTFs(ctx context.Context, runID uuid.UUID, componentName string, ttfs []float64) error {
	s.mu.RLock()
	db := s.db
	s.mu.RUnlock()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO ttfs (run_id, component_name, ttf_seconds) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range ttfs {
		if _, err := stmt.ExecContext(ctx, runID.String(), componentName, t); err != nil {
			return err
		}
	}

	return tx.Commit()
}
