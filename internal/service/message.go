package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/sabbaghsami/gramps/common/logger"
	"github.com/sabbaghsami/gramps/internal/model"
	"github.com/sabbaghsami/gramps/internal/store"
)

const MaxMessageLength = 2000

// Clock returns the current time. Tests inject a fixed one.
type Clock func() time.Time

type CreateMessageParams struct {
	Text string
	// ExpiryMinutes of nil or 0 means the message never expires.
	ExpiryMinutes *int
	CreatedBy     int64
}

type MessageService interface {
	List(ctx context.Context, board model.Board) ([]model.Message, error)
	Create(ctx context.Context, board model.Board, params CreateMessageParams) (*model.Message, error)
	Delete(ctx context.Context, board model.Board, messageID string) error
}

type messageService struct {
	messageStore     store.MessageStore
	now              Clock
	maxExpiryMinutes int
}

func NewMessageService(messageStore store.MessageStore, now Clock, maxExpiryMinutes int) MessageService {
	if now == nil {
		now = time.Now
	}
	return &messageService{
		messageStore:     messageStore,
		now:              now,
		maxExpiryMinutes: maxExpiryMinutes,
	}
}

func (s *messageService) List(ctx context.Context, board model.Board) ([]model.Message, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Board: logger.Ptr(board.Key())})
	now := s.now()

	messages, err := s.messageStore.ListActive(ctx, board.Key(), now)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	purged, err := s.messageStore.PurgeExpired(ctx, board.Key(), now)
	if err != nil {
		slog.WarnContext(ctx, "failed to purge expired messages", "error", err)
	} else if purged > 0 {
		slog.DebugContext(ctx, "purged expired messages", "count", purged)
	}

	return messages, nil
}

func (s *messageService) Create(ctx context.Context, board model.Board, params CreateMessageParams) (*model.Message, error) {
	text := strings.TrimSpace(params.Text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return nil, ErrTextTooLong
	}

	now := s.now().UTC()
	msg := &model.Message{
		ID:        uuid.NewString(),
		Board:     board.Key(),
		Text:      text,
		Timestamp: now,
		CreatedBy: params.CreatedBy,
	}

	if params.ExpiryMinutes != nil {
		minutes := *params.ExpiryMinutes
		if minutes < 0 || minutes > s.maxExpiryMinutes {
			return nil, ErrInvalidExpiry
		}
		if minutes > 0 {
			expiry := now.Add(time.Duration(minutes) * time.Minute)
			msg.ExpiryTime = &expiry
		}
	}

	if err := s.messageStore.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{MessageID: &msg.ID, Board: &msg.Board})
	slog.InfoContext(ctx, "message created",
		"text", logger.Truncate(msg.Text, 40),
		"expires", msg.ExpiryTime != nil)

	return msg, nil
}

func (s *messageService) Delete(ctx context.Context, board model.Board, messageID string) error {
	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return ErrMessageNotFound
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{MessageID: &messageID, Board: logger.Ptr(board.Key())})

	if err := s.messageStore.Delete(ctx, board.Key(), messageID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("deleting message: %w", err)
	}

	slog.InfoContext(ctx, "message deleted")
	return nil
}
