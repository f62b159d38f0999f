package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sabbaghsami/gramps/common/id"
	"github.com/sabbaghsami/gramps/internal/model"
	"github.com/sabbaghsami/gramps/internal/store"
)

const (
	contextPersonal        = "personal"
	contextWorkspacePrefix = "workspace:"
)

// BoardResolver turns the raw context a client sends into an authorized board.
type BoardResolver interface {
	Resolve(ctx context.Context, callerID int64, raw string) (model.Board, error)
}

type boardResolver struct {
	workspaceStore store.WorkspaceStore
}

func NewBoardResolver(workspaceStore store.WorkspaceStore) BoardResolver {
	return &boardResolver{workspaceStore: workspaceStore}
}

// Resolve accepts "personal" (the default when raw is empty) or
// "workspace:<id>". Workspace boards require the caller to be a member.
func (r *boardResolver) Resolve(ctx context.Context, callerID int64, raw string) (model.Board, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == contextPersonal {
		return model.PersonalBoard(callerID), nil
	}

	rawID, ok := strings.CutPrefix(raw, contextWorkspacePrefix)
	if !ok {
		return model.Board{}, ErrInvalidContext
	}
	wsID, ok := id.Parse(rawID)
	if !ok {
		return model.Board{}, ErrInvalidContext
	}

	ws, err := r.workspaceStore.GetByID(ctx, wsID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Board{}, ErrWorkspaceNotFound
		}
		return model.Board{}, fmt.Errorf("getting workspace: %w", err)
	}
	if !ws.HasMember(callerID) {
		return model.Board{}, ErrNotWorkspaceMember
	}

	return model.WorkspaceBoard(ws.ID), nil
}
