package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/sabbaghsami/gramps/core/db"
	"github.com/sabbaghsami/gramps/internal/model"
)

// members are aggregated in join order so the owner comes first.
const workspaceSelect = `
	SELECT w.id, w.name, w.owner_user_id, w.created_at, w.updated_at,
		ARRAY(
			SELECT m.user_id FROM workspace_members m
			WHERE m.workspace_id = w.id
			ORDER BY m.joined_at, m.user_id
		) AS members
	FROM workspaces w`

type workspaceStore struct {
	queries db.Querier
}

func newWorkspaceStore(queries db.Querier) WorkspaceStore {
	return &workspaceStore{queries: queries}
}

func (s *workspaceStore) GetByID(ctx context.Context, id int64) (*model.Workspace, error) {
	rows, err := s.queries.Query(ctx, workspaceSelect+` WHERE w.id = $1`, id)
	if err != nil {
		return nil, err
	}
	ws, err := pgx.CollectExactlyOneRow(rows, scanWorkspace)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ws, nil
}

func (s *workspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	// Single statement: the workspace row and the owner's membership commit together.
	err := s.queries.QueryRow(ctx, `
		WITH ws AS (
			INSERT INTO workspaces (id, name, owner_user_id)
			VALUES ($1, $2, $3)
			RETURNING id, owner_user_id, created_at, updated_at
		), owner AS (
			INSERT INTO workspace_members (workspace_id, user_id)
			SELECT id, owner_user_id FROM ws
		)
		SELECT created_at, updated_at FROM ws`,
		ws.ID, ws.Name, ws.OwnerUserID,
	).Scan(&ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		return err
	}
	ws.Members = []int64{ws.OwnerUserID}
	return nil
}

func (s *workspaceStore) ListByMember(ctx context.Context, userID int64) ([]model.Workspace, error) {
	rows, err := s.queries.Query(ctx, workspaceSelect+`
		WHERE EXISTS (
			SELECT 1 FROM workspace_members wm
			WHERE wm.workspace_id = w.id AND wm.user_id = $1
		)
		ORDER BY w.name, w.id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanWorkspace)
}

func (s *workspaceStore) AddMember(ctx context.Context, workspaceID, userID int64) (bool, error) {
	tag, err := s.queries.Exec(ctx, `
		INSERT INTO workspace_members (workspace_id, user_id)
		SELECT id, $2 FROM workspaces WHERE id = $1
		ON CONFLICT (workspace_id, user_id) DO NOTHING`,
		workspaceID, userID,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	// Nothing inserted: either already a member or no such workspace.
	var exists bool
	if err := s.queries.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM workspaces WHERE id = $1)`, workspaceID,
	).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, ErrNotFound
	}
	return false, nil
}

func scanWorkspace(row pgx.CollectableRow) (model.Workspace, error) {
	var ws model.Workspace
	err := row.Scan(&ws.ID, &ws.Name, &ws.OwnerUserID, &ws.CreatedAt, &ws.UpdatedAt, &ws.Members)
	return ws, err
}
