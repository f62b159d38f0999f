// Package backend opens the storage backend selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/sabbaghsami/gramps/core/config"
	"github.com/sabbaghsami/gramps/core/db"
	"github.com/sabbaghsami/gramps/internal/store"
	"github.com/sabbaghsami/gramps/internal/store/kv"
)

// Backend is an open storage backend.
type Backend struct {
	Stores store.Provider

	database *db.DB
	badger   *badger.DB
}

// Open connects to Postgres (applying the schema) or opens the Badger directory.
func Open(ctx context.Context, cfg config.Config) (*Backend, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendPostgres:
		database, err := db.New(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, err
		}
		slog.InfoContext(ctx, "database connected")
		return &Backend{Stores: store.NewStores(database.Queries()), database: database}, nil

	case config.StorageBackendBadger:
		bdb, err := kv.Open(cfg.Storage.BadgerDir)
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "badger opened", "dir", cfg.Storage.BadgerDir)
		return &Backend{Stores: kv.NewStores(bdb), badger: bdb}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// SweepsInProcess reports whether the expiry sweep must run inside the
// process holding the backend. Badger allows a single process per directory.
func (b *Backend) SweepsInProcess() bool {
	return b.badger != nil
}

// CollectGarbage reclaims disk space after a sweep. No-op for Postgres,
// where autovacuum does this.
func (b *Backend) CollectGarbage() {
	if b.badger != nil {
		kv.CollectGarbage(b.badger)
	}
}

func (b *Backend) Close() {
	if b.database != nil {
		b.database.Close()
	}
	if b.badger != nil {
		if err := b.badger.Close(); err != nil {
			slog.Warn("failed to close badger", "error", err)
		}
	}
}
