package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/sabbaghsami/gramps/common/id"
	"github.com/sabbaghsami/gramps/common/logger"
	"github.com/sabbaghsami/gramps/internal/model"
	"github.com/sabbaghsami/gramps/internal/store"
)

const MaxWorkspaceNameLength = 100

type WorkspaceService interface {
	Create(ctx context.Context, ownerID int64, name string) (*model.Workspace, error)
	// List returns the workspaces the user owns or belongs to, ordered by name.
	List(ctx context.Context, userID int64) ([]model.Workspace, error)
	Get(ctx context.Context, workspaceID int64) (*model.Workspace, error)
}

type workspaceService struct {
	workspaceStore store.WorkspaceStore
}

func NewWorkspaceService(workspaceStore store.WorkspaceStore) WorkspaceService {
	return &workspaceService{workspaceStore: workspaceStore}
}

func (s *workspaceService) Create(ctx context.Context, ownerID int64, name string) (*model.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxWorkspaceNameLength {
		return nil, ErrNameTooLong
	}

	ws := &model.Workspace{
		ID:          id.New(),
		Name:        name,
		OwnerUserID: ownerID,
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{WorkspaceID: &ws.ID})

	if err := s.workspaceStore.Create(ctx, ws); err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}

	slog.InfoContext(ctx, "workspace created", "name", ws.Name, "owner_id", ownerID)
	return ws, nil
}

func (s *workspaceService) List(ctx context.Context, userID int64) ([]model.Workspace, error) {
	workspaces, err := s.workspaceStore.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	return workspaces, nil
}

func (s *workspaceService) Get(ctx context.Context, workspaceID int64) (*model.Workspace, error) {
	ws, err := s.workspaceStore.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("getting workspace: %w", err)
	}
	return ws, nil
}
