package kv

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"

	"github.com/sabbaghsami/gramps/internal/model"
	"github.com/sabbaghsami/gramps/internal/store"
)

func workspaceKey(id int64) []byte {
	return []byte("ws:" + strconv.FormatInt(id, 10))
}

func memberPrefix(userID int64) []byte {
	return []byte("ws_member:" + strconv.FormatInt(userID, 10) + ":")
}

func memberKey(userID, workspaceID int64) []byte {
	return append(memberPrefix(userID), strconv.FormatInt(workspaceID, 10)...)
}

type workspaceStore struct {
	db *badger.DB
}

func (s *workspaceStore) GetByID(_ context.Context, id int64) (*model.Workspace, error) {
	var ws model.Workspace
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, workspaceKey(id), &ws)
	})
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (s *workspaceStore) Create(_ context.Context, ws *model.Workspace) error {
	now := time.Now().UTC()
	ws.CreatedAt = now
	ws.UpdatedAt = now
	ws.Members = []int64{ws.OwnerUserID}

	return update(s.db, func(txn *badger.Txn) error {
		if _, err := txn.Get(workspaceKey(ws.ID)); err == nil {
			return fmt.Errorf("workspace %d already exists", ws.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := setJSON(txn, workspaceKey(ws.ID), ws); err != nil {
			return err
		}
		return txn.Set(memberKey(ws.OwnerUserID, ws.ID), nil)
	})
}

func (s *workspaceStore) ListByMember(_ context.Context, userID int64) ([]model.Workspace, error) {
	var workspaces []model.Workspace
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := memberPrefix(userID)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		var ids []int64
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			raw := strings.TrimPrefix(string(it.Item().Key()), string(prefix))
			wsID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("corrupt membership key %q: %w", it.Item().Key(), err)
			}
			ids = append(ids, wsID)
		}

		for _, wsID := range ids {
			var ws model.Workspace
			if err := getJSON(txn, workspaceKey(wsID), &ws); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					continue
				}
				return err
			}
			workspaces = append(workspaces, ws)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(workspaces, func(a, b model.Workspace) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return workspaces, nil
}

func (s *workspaceStore) AddMember(_ context.Context, workspaceID, userID int64) (bool, error) {
	var added bool
	err := update(s.db, func(txn *badger.Txn) error {
		added = false

		var ws model.Workspace
		if err := getJSON(txn, workspaceKey(workspaceID), &ws); err != nil {
			return err
		}
		if lo.Contains(ws.Members, userID) {
			return nil
		}

		ws.Members = append(ws.Members, userID)
		ws.UpdatedAt = time.Now().UTC()
		if err := setJSON(txn, workspaceKey(workspaceID), ws); err != nil {
			return err
		}
		if err := txn.Set(memberKey(userID, workspaceID), nil); err != nil {
			return err
		}
		added = true
		return nil
	})
	return added, err
}
