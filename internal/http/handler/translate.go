package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sabbaghsami/gramps/internal/http/dto"
	"github.com/sabbaghsami/gramps/internal/service"
)

type TranslateHandler struct {
	translation service.TranslationService
}

func NewTranslateHandler(translation service.TranslationService) *TranslateHandler {
	return &TranslateHandler{translation: translation}
}

func (h *TranslateHandler) Translate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	translated, err := h.translation.Translate(ctx, req.Text, req.TargetLanguage)
	if err != nil {
		respondError(c, err, "failed to translate text")
		return
	}

	c.JSON(http.StatusOK, dto.TranslateResponse{TranslatedText: translated})
}
