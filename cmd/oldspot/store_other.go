//go:build !sqlite

package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// noopStore discards everything; used when oldspot is built without the
// "sqlite" tag.
type noopStore struct{}

func (noopStore) RecordRun(ctx context.Context, runID uuid.UUID, iterations int, configPath string, seed uint64) error {
	return nil
}

func (noopStore) RecordTTFs(ctx context.Context, runID uuid.UUID, componentName string, ttfs []float64) error {
	return nil
}

func (noopStore) Close() error { return nil }

// openStore errors if the caller asked for persistence we weren't built
// to provide; otherwise it's a silent no-op.
func openStore(ctx context.Context, path string) (ttfStore, error) {
	if path != "" {
		return nil, fmt.Errorf("oldspot: built without sqlite support, rebuild with -tags sqlite to use --db")
	}
	return noopStore{}, nil
}
