package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sabbaghsami/gramps/core/db"
	"github.com/sabbaghsami/gramps/internal/model"
)

type sessionStore struct {
	queries db.Querier
}

func newSessionStore(queries db.Querier) SessionStore {
	return &sessionStore{queries: queries}
}

func (s *sessionStore) GetValid(ctx context.Context, id string, now time.Time) (*model.Session, error) {
	var sess model.Session
	err := s.queries.QueryRow(ctx, `
		SELECT id, user_id, workos_session_id, expires_at, created_at
		FROM sessions
		WHERE id = $1 AND expires_at > $2`,
		id, now,
	).Scan(&sess.ID, &sess.UserID, &sess.WorkOSSessionID, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sess, nil
}

func (s *sessionStore) Create(ctx context.Context, session *model.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	if !session.ExpiresAt.After(session.CreatedAt) {
		return fmt.Errorf("session expiring at %s: %w", session.ExpiresAt, ErrExpired)
	}
	_, err := s.queries.Exec(ctx, `
		INSERT INTO sessions (id, user_id, workos_session_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		session.ID, session.UserID, session.WorkOSSessionID, session.ExpiresAt, session.CreatedAt,
	)
	return err
}

func (s *sessionStore) Delete(ctx context.Context, id string) error {
	_, err := s.queries.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

func (s *sessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.queries.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
