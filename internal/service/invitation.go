package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sabbaghsami/gramps/common/logger"
	"github.com/sabbaghsami/gramps/internal/store"
)

// InvitationService adds registered users to a workspace. There is no pending
// invitation state: the invitee is resolved and added in one step.
type InvitationService interface {
	// Invite reports whether the user was newly added. Inviting someone who
	// already belongs to the workspace succeeds without changes.
	Invite(ctx context.Context, workspaceID, callerID int64, email string) (bool, error)
}

type invitationService struct {
	workspaceStore store.WorkspaceStore
	userStore      store.UserStore
	validate       *validator.Validate
}

func NewInvitationService(workspaceStore store.WorkspaceStore, userStore store.UserStore) InvitationService {
	return &invitationService{
		workspaceStore: workspaceStore,
		userStore:      userStore,
		validate:       validator.New(),
	}
}

func (s *invitationService) Invite(ctx context.Context, workspaceID, callerID int64, email string) (bool, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{WorkspaceID: &workspaceID})

	ws, err := s.workspaceStore.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrWorkspaceNotFound
		}
		return false, fmt.Errorf("getting workspace: %w", err)
	}
	if !ws.IsOwner(callerID) {
		return false, ErrNotWorkspaceOwner
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return false, ErrInvalidEmail
	}

	invitee, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrUserNotRegistered
		}
		return false, fmt.Errorf("looking up user: %w", err)
	}

	if ws.HasMember(invitee.ID) {
		slog.InfoContext(ctx, "invitee already a member", "invitee_id", invitee.ID)
		return false, nil
	}

	added, err := s.workspaceStore.AddMember(ctx, ws.ID, invitee.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrWorkspaceNotFound
		}
		return false, fmt.Errorf("adding member: %w", err)
	}

	slog.InfoContext(ctx, "workspace member invited",
		"invitee_id", invitee.ID,
		"invited_by", callerID,
		"added", added)

	return added, nil
}
