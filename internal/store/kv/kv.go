// Package kv implements the store interfaces on an embedded Badger database,
// for single-node deployments that persist to a local directory.
package kv

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/sabbaghsami/gramps/internal/store"
)

// maxConflictRetries bounds how often an optimistic transaction is replayed
// after badger.ErrConflict.
const maxConflictRetries = 5

// Stores is the Badger-backed store.Provider.
type Stores struct {
	db *badger.DB
}

// Open opens (or creates) a Badger database in dir.
func Open(dir string) (*badger.DB, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return nil, fmt.Errorf("opening badger at %s: %w", dir, err)
	}
	return db, nil
}

// OpenInMemory opens a Badger database that lives only in memory.
func OpenInMemory() (*badger.DB, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("opening in-memory badger: %w", err)
	}
	return db, nil
}

func NewStores(db *badger.DB) *Stores {
	return &Stores{db: db}
}

func (s *Stores) Users() store.UserStore {
	return &userStore{db: s.db}
}

func (s *Stores) Sessions() store.SessionStore {
	return &sessionStore{db: s.db}
}

func (s *Stores) Workspaces() store.WorkspaceStore {
	return &workspaceStore{db: s.db}
}

func (s *Stores) Messages() store.MessageStore {
	return &messageStore{db: s.db}
}

// CollectGarbage reclaims value log space after sweeps have deleted entries.
func CollectGarbage(db *badger.DB) {
	for {
		if err := db.RunValueLogGC(0.5); err != nil {
			if !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrRejected) {
				slog.Warn("badger value log gc failed", "error", err)
			}
			return
		}
	}
}

// update runs fn in a read-write transaction, replaying it when a concurrent
// transaction touched the same keys.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for range maxConflictRetries {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return store.ErrNotFound
		}
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	val, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, val)
}
