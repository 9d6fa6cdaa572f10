package main

import (
	"context"

	"github.com/google/uuid"
)

// ttfStore is the persistence surface cmd/oldspot drives; it is satisfied
// by pkg/store.SQLiteStore when built with the "sqlite" tag, and by a
// no-op stub otherwise.
type ttfStore interface {
	RecordRun(ctx context.Context, runID uuid.UUID, iterations int, configPath string, seed uint64) error
	RecordTTFs(ctx context.Context, runID uuid.UUID, componentName string, ttfs []float64) error
	Close() error
}
