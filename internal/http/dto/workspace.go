package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/sabbaghsami/gramps/internal/model"
)

type CreateWorkspaceRequest struct {
	Name string `json:"name" binding:"required,notblank"`
}

type WorkspaceResponse struct {
	ID        int64     `json:"id,string"`
	Name      string    `json:"name"`
	OwnerID   int64     `json:"owner_id,string"`
	IsOwner   bool      `json:"is_owner"`
	CreatedAt time.Time `json:"created_at"`
}

// ToWorkspaceResponse renders ws as seen by the user viewerID.
func ToWorkspaceResponse(ws *model.Workspace, viewerID int64) *WorkspaceResponse {
	return &WorkspaceResponse{
		ID:        ws.ID,
		Name:      ws.Name,
		OwnerID:   ws.OwnerUserID,
		IsOwner:   ws.IsOwner(viewerID),
		CreatedAt: ws.CreatedAt,
	}
}

func ToWorkspaceResponses(workspaces []model.Workspace, viewerID int64) []WorkspaceResponse {
	return lo.Map(workspaces, func(ws model.Workspace, _ int) WorkspaceResponse {
		return *ToWorkspaceResponse(&ws, viewerID)
	})
}

// InviteRequest.Email is trimmed and lower-cased before its format is checked.
type InviteRequest struct {
	Email string `json:"email" binding:"required,notblank"`
}

type InviteResponse struct {
	Success bool `json:"success"`
	Added   bool `json:"added"`
}
