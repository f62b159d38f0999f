package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/sabbaghsami/gramps/internal/model"
	"github.com/sabbaghsami/gramps/internal/store"
)

// Message keys are "msg:{board}:{unix_nano_padded}:{id}". The 19-digit zero
// padding keeps lexicographic order chronological, so a reverse prefix scan
// yields newest first. "msg_id:{board}:{id}" points at the primary key and
// scopes lookups by board.

func messagePrefix(board string) []byte {
	return []byte("msg:" + board + ":")
}

func messageKey(m *model.Message) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", m.Board, m.Timestamp.UnixNano(), m.ID))
}

func messageIDKey(board, id string) []byte {
	return []byte("msg_id:" + board + ":" + id)
}

type messageStore struct {
	db *badger.DB
}

func (s *messageStore) ListActive(_ context.Context, board string, now time.Time) ([]model.Message, error) {
	messages := []model.Message{}
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(board)
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(append(prefix, 0xff)); it.ValidForPrefix(prefix); it.Next() {
			var m model.Message
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &m)
			}); err != nil {
				return err
			}
			if m.IsExpired(now) {
				continue
			}
			messages = append(messages, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *messageStore) Create(_ context.Context, msg *model.Message) error {
	val, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	primary := messageKey(msg)

	return update(s.db, func(txn *badger.Txn) error {
		if _, err := txn.Get(messageIDKey(msg.Board, msg.ID)); err == nil {
			return fmt.Errorf("message %s already exists", msg.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(primary, val); err != nil {
			return err
		}
		return txn.Set(messageIDKey(msg.Board, msg.ID), primary)
	})
}

func (s *messageStore) Delete(_ context.Context, board, id string) error {
	return update(s.db, func(txn *badger.Txn) error {
		item, err := txn.Get(messageIDKey(board, id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return store.ErrNotFound
			}
			return err
		}
		primary, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := txn.Delete(primary); err != nil {
			return err
		}
		return txn.Delete(messageIDKey(board, id))
	})
}

func (s *messageStore) PurgeExpired(_ context.Context, board string, now time.Time) (int64, error) {
	return s.deleteExpired(messagePrefix(board), now, 0)
}

func (s *messageStore) DeleteExpired(_ context.Context, now time.Time, limit int) (int64, error) {
	return s.deleteExpired([]byte("msg:"), now, limit)
}

// deleteExpired scans prefix in a read-only transaction, then deletes the
// expired entries found in one short write transaction. limit <= 0 means no limit.
func (s *messageStore) deleteExpired(prefix []byte, now time.Time, limit int) (int64, error) {
	var expired []model.Message
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(expired) >= limit {
				break
			}
			var m model.Message
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &m)
			}); err != nil {
				return err
			}
			if m.IsExpired(now) {
				expired = append(expired, m)
			}
		}
		return nil
	})
	if err != nil || len(expired) == 0 {
		return 0, err
	}

	var deleted int64
	err = update(s.db, func(txn *badger.Txn) error {
		deleted = 0
		for i := range expired {
			m := &expired[i]
			if _, err := txn.Get(messageIDKey(m.Board, m.ID)); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue // deleted concurrently
				}
				return err
			}
			if err := txn.Delete(messageKey(m)); err != nil {
				return err
			}
			if err := txn.Delete(messageIDKey(m.Board, m.ID)); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
