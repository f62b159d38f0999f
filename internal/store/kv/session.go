package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/sabbaghsami/gramps/internal/model"
	"github.com/sabbaghsami/gramps/internal/store"
)

func sessionKey(id string) []byte {
	return []byte("session:" + id)
}

type sessionStore struct {
	db *badger.DB
}

func (s *sessionStore) GetValid(_ context.Context, id string, now time.Time) (*model.Session, error) {
	var sess model.Session
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, sessionKey(id), &sess)
	})
	if err != nil {
		return nil, err
	}
	if !sess.IsValid(now) {
		return nil, store.ErrNotFound
	}
	return &sess, nil
}

// Create stores the session with a Badger TTL of ExpiresAt-CreatedAt so it
// disappears on its own.
func (s *sessionStore) Create(_ context.Context, session *model.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	ttl := session.ExpiresAt.Sub(session.CreatedAt)
	if ttl <= 0 {
		return fmt.Errorf("session expiring at %s: %w", session.ExpiresAt, store.ErrExpired)
	}
	return update(s.db, func(txn *badger.Txn) error {
		val, err := json.Marshal(session)
		if err != nil {
			return err
		}
		// Badger rounds expiry down to whole seconds; pad so the entry never
		// vanishes before ExpiresAt.
		return txn.SetEntry(badger.NewEntry(sessionKey(session.ID), val).WithTTL(ttl + time.Second))
	})
}

func (s *sessionStore) Delete(_ context.Context, id string) error {
	return update(s.db, func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(id))
	})
}

// DeleteExpired is a no-op count: Badger drops sessions via TTL.
func (s *sessionStore) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
