package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sabbaghsami/gramps/internal/http/dto"
	"github.com/sabbaghsami/gramps/internal/http/middleware"
	"github.com/sabbaghsami/gramps/internal/model"
	"github.com/sabbaghsami/gramps/internal/service"
)

type MessageHandler struct {
	boards   service.BoardResolver
	messages service.MessageService
}

func NewMessageHandler(boards service.BoardResolver, messages service.MessageService) *MessageHandler {
	return &MessageHandler{boards: boards, messages: messages}
}

// resolveBoard authorizes the ?context= query for the signed-in user. It
// writes the error response itself and reports false on failure.
func (h *MessageHandler) resolveBoard(c *gin.Context) (*model.User, model.Board, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return nil, model.Board{}, false
	}

	board, err := h.boards.Resolve(c.Request.Context(), user.ID, c.Query("context"))
	if err != nil {
		respondError(c, err, "failed to resolve board")
		return nil, model.Board{}, false
	}
	return user, board, true
}

func (h *MessageHandler) List(c *gin.Context) {
	_, board, ok := h.resolveBoard(c)
	if !ok {
		return
	}

	messages, err := h.messages.List(c.Request.Context(), board)
	if err != nil {
		respondError(c, err, "failed to load messages")
		return
	}

	c.JSON(http.StatusOK, dto.ToMessageResponses(messages))
}

func (h *MessageHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	user, board, ok := h.resolveBoard(c)
	if !ok {
		return
	}

	var req dto.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messages.Create(ctx, board, service.CreateMessageParams{
		Text:          req.Text,
		ExpiryMinutes: req.ExpiryDurationMinutes,
		CreatedBy:     user.ID,
	})
	if err != nil {
		respondError(c, err, "failed to save message")
		return
	}

	c.JSON(http.StatusCreated, dto.ToMessageResponse(msg))
}

func (h *MessageHandler) Delete(c *gin.Context) {
	_, board, ok := h.resolveBoard(c)
	if !ok {
		return
	}

	if err := h.messages.Delete(c.Request.Context(), board, c.Param("id")); err != nil {
		respondError(c, err, "failed to delete message")
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
