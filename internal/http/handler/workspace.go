package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sabbaghsami/gramps/common/id"
	"github.com/sabbaghsami/gramps/internal/http/dto"
	"github.com/sabbaghsami/gramps/internal/http/middleware"
	"github.com/sabbaghsami/gramps/internal/service"
)

type WorkspaceHandler struct {
	workspaces  service.WorkspaceService
	invitations service.InvitationService
}

func NewWorkspaceHandler(workspaces service.WorkspaceService, invitations service.InvitationService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces, invitations: invitations}
}

func (h *WorkspaceHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	workspaces, err := h.workspaces.List(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err, "failed to load workspaces")
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceResponses(workspaces, user.ID))
}

func (h *WorkspaceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req dto.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ws, err := h.workspaces.Create(ctx, user.ID, req.Name)
	if err != nil {
		respondError(c, err, "failed to create workspace")
		return
	}

	c.JSON(http.StatusCreated, dto.ToWorkspaceResponse(ws, user.ID))
}

func (h *WorkspaceHandler) Invite(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	workspaceID, ok := id.Parse(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
		return
	}

	var req dto.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	added, err := h.invitations.Invite(ctx, workspaceID, user.ID, req.Email)
	if err != nil {
		respondError(c, err, "failed to invite user")
		return
	}

	c.JSON(http.StatusOK, dto.InviteResponse{Success: true, Added: added})
}
