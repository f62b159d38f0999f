package kv

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/sabbaghsami/gramps/internal/model"
	"github.com/sabbaghsami/gramps/internal/store"
)

// userRecord is the persisted form; model.User hides WorkOSID from JSON.
type userRecord struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	WorkOSID  *string   `json:"workos_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r userRecord) toModel() *model.User {
	return &model.User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		AvatarURL: r.AvatarURL,
		WorkOSID:  r.WorkOSID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func userKey(id int64) []byte {
	return []byte("user:" + strconv.FormatInt(id, 10))
}

func userEmailKey(email string) []byte {
	return []byte("user_email:" + email)
}

func userWorkOSKey(workosID string) []byte {
	return []byte("user_workos:" + workosID)
}

type userStore struct {
	db *badger.DB
}

func (s *userStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	var rec userRecord
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userKey(id), &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var rec userRecord
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := getIndex(txn, userEmailKey(email))
		if err != nil {
			return err
		}
		return getJSON(txn, userKey(id), &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

func (s *userStore) UpsertByWorkOSID(_ context.Context, user *model.User) error {
	if user.WorkOSID == nil || *user.WorkOSID == "" {
		return fmt.Errorf("upsert requires a workos id")
	}
	email := strings.ToLower(strings.TrimSpace(user.Email))

	var saved userRecord
	err := update(s.db, func(txn *badger.Txn) error {
		now := time.Now().UTC()
		rec := userRecord{
			ID:        user.ID,
			CreatedAt: now,
		}

		existingID, err := getIndex(txn, userWorkOSKey(*user.WorkOSID))
		switch {
		case err == nil:
			if err := getJSON(txn, userKey(existingID), &rec); err != nil {
				return err
			}
			if rec.Email != email {
				if err := txn.Delete(userEmailKey(rec.Email)); err != nil {
					return err
				}
			}
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		if ownerID, err := getIndex(txn, userEmailKey(email)); err == nil && ownerID != rec.ID {
			return fmt.Errorf("email %s already belongs to user %d", email, ownerID)
		}

		rec.Name = user.Name
		rec.Email = email
		rec.AvatarURL = user.AvatarURL
		rec.WorkOSID = user.WorkOSID
		rec.UpdatedAt = now

		if err := setJSON(txn, userKey(rec.ID), rec); err != nil {
			return err
		}
		if err := setIndex(txn, userEmailKey(email), rec.ID); err != nil {
			return err
		}
		if err := setIndex(txn, userWorkOSKey(*rec.WorkOSID), rec.ID); err != nil {
			return err
		}
		saved = rec
		return nil
	})
	if err != nil {
		return err
	}
	*user = *saved.toModel()
	return nil
}

func getIndex(txn *badger.Txn, key []byte) (int64, error) {
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, store.ErrNotFound
		}
		return 0, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(string(val), 10, 64)
}

func setIndex(txn *badger.Txn, key []byte, id int64) error {
	return txn.Set(key, []byte(strconv.FormatInt(id, 10)))
}
