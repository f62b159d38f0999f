package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sabbaghsami/gramps/internal/store"
)

const DefaultSweepBatchSize = 500

// ExpiryService physically removes lapsed messages. Reads already hide them.
type ExpiryService interface {
	// Sweep deletes expired messages batch by batch and returns the total.
	// Expired sessions are dropped in the same pass.
	Sweep(ctx context.Context) (int64, error)
}

type expiryService struct {
	messageStore store.MessageStore
	sessionStore store.SessionStore
	now          Clock
	batchSize    int
}

func NewExpiryService(messageStore store.MessageStore, sessionStore store.SessionStore, now Clock, batchSize int) ExpiryService {
	if now == nil {
		now = time.Now
	}
	if batchSize <= 0 {
		batchSize = DefaultSweepBatchSize
	}
	return &expiryService{
		messageStore: messageStore,
		sessionStore: sessionStore,
		now:          now,
		batchSize:    batchSize,
	}
}

func (s *expiryService) Sweep(ctx context.Context) (int64, error) {
	now := s.now()

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		n, err := s.messageStore.DeleteExpired(ctx, now, s.batchSize)
		if err != nil {
			return total, fmt.Errorf("deleting expired messages: %w", err)
		}
		total += n
		if n < int64(s.batchSize) {
			break
		}
	}

	if total > 0 {
		slog.InfoContext(ctx, "expired messages swept", "count", total)
	}

	sessions, err := s.sessionStore.DeleteExpired(ctx, now)
	if err != nil {
		slog.WarnContext(ctx, "failed to delete expired sessions", "error", err)
	} else if sessions > 0 {
		slog.InfoContext(ctx, "expired sessions deleted", "count", sessions)
	}

	return total, nil
}
