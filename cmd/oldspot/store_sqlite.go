//go:build sqlite

package main

import (
	"context"
	"fmt"

	"github.com/oldspot/oldspot/pkg/store"
)

// openStore opens the sqlite-backed store at path, or returns (nil, nil)
// if path is empty (persistence is opt-in via --db).
func openStore(ctx context.Context, path string) (ttfStore, error) {
	if path == "" {
		return nil, nil
	}
	s := store.NewSQLiteStore(path)
	if err := s.Init(ctx); err != nil {
		return nil, fmt.Errorf("open --db store: %w", err)
	}
	return s, nil
}
