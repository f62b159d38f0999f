package store

import (
	"context"
	"errors"
	"time"

	"github.com/sabbaghsami/gramps/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrExpired is returned when writing a record whose expiry has already passed
var ErrExpired = errors.New("already expired")

// Provider hands out the stores of one storage backend.
type Provider interface {
	Users() UserStore
	Sessions() SessionStore
	Workspaces() WorkspaceStore
	Messages() MessageStore
}

// UserStore is the user directory. Users are written when they sign in through
// the identity provider; invites can only resolve users present here.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpsertByWorkOSID(ctx context.Context, user *model.User) error
}

// SessionStore defines the contract for session data access. Session ids are
// opaque bearer tokens.
type SessionStore interface {
	GetValid(ctx context.Context, id string, now time.Time) (*model.Session, error) // checks expiry
	// Create returns ErrExpired when ExpiresAt is not after CreatedAt.
	Create(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// WorkspaceStore defines the contract for workspace data access
type WorkspaceStore interface {
	GetByID(ctx context.Context, id int64) (*model.Workspace, error)
	// Create persists the workspace and the owner's membership atomically.
	Create(ctx context.Context, ws *model.Workspace) error
	ListByMember(ctx context.Context, userID int64) ([]model.Workspace, error)
	// AddMember reports false when the user already was a member.
	// Returns ErrNotFound when the workspace does not exist.
	AddMember(ctx context.Context, workspaceID, userID int64) (bool, error)
}

// MessageStore scopes every operation by board key.
type MessageStore interface {
	// ListActive returns messages of board not expired at now, newest first.
	ListActive(ctx context.Context, board string, now time.Time) ([]model.Message, error)
	Create(ctx context.Context, msg *model.Message) error
	// Delete removes id from board only. Returns ErrNotFound otherwise.
	Delete(ctx context.Context, board, id string) error
	// PurgeExpired removes the expired messages of one board.
	PurgeExpired(ctx context.Context, board string, now time.Time) (int64, error)
	// DeleteExpired removes at most limit expired messages across all boards.
	DeleteExpired(ctx context.Context, now time.Time, limit int) (int64, error)
}
