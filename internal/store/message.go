package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sabbaghsami/gramps/core/db"
	"github.com/sabbaghsami/gramps/internal/model"
)

const messageColumns = `id, board, text, timestamp, expiry_time, created_by`

type messageStore struct {
	queries db.Querier
}

func newMessageStore(queries db.Querier) MessageStore {
	return &messageStore{queries: queries}
}

func (s *messageStore) ListActive(ctx context.Context, board string, now time.Time) ([]model.Message, error) {
	rows, err := s.queries.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE board = $1 AND (expiry_time IS NULL OR expiry_time > $2)
		ORDER BY timestamp DESC, id DESC`,
		board, now,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanMessage)
}

func (s *messageStore) Create(ctx context.Context, msg *model.Message) error {
	_, err := s.queries.Exec(ctx, `
		INSERT INTO messages (`+messageColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID, msg.Board, msg.Text, msg.Timestamp, msg.ExpiryTime, msg.CreatedBy,
	)
	return err
}

func (s *messageStore) Delete(ctx context.Context, board, id string) error {
	tag, err := s.queries.Exec(ctx, `DELETE FROM messages WHERE id = $1 AND board = $2`, id, board)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *messageStore) PurgeExpired(ctx context.Context, board string, now time.Time) (int64, error) {
	tag, err := s.queries.Exec(ctx,
		`DELETE FROM messages WHERE board = $1 AND expiry_time <= $2`,
		board, now,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *messageStore) DeleteExpired(ctx context.Context, now time.Time, limit int) (int64, error) {
	// Rows locked by a concurrent sweeper are skipped, not waited on.
	tag, err := s.queries.Exec(ctx, `
		DELETE FROM messages
		WHERE id IN (
			SELECT id FROM messages
			WHERE expiry_time <= $1
			ORDER BY expiry_time
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)`,
		now, limit,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanMessage(row pgx.CollectableRow) (model.Message, error) {
	var m model.Message
	err := row.Scan(&m.ID, &m.Board, &m.Text, &m.Timestamp, &m.ExpiryTime, &m.CreatedBy)
	return m, err
}
