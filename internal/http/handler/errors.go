package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sabbaghsami/gramps/internal/service"
)

// respondError maps service errors to a status code and writes {error}.
// Unclassified errors are logged and reported as fallback with a 500.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), fallback, "error", err)
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	if status >= 500 {
		slog.WarnContext(c.Request.Context(), fallback, "error", err)
	}
	c.JSON(status, gin.H{"error": publicMessage(err)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrTranslationDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage strips the error class prefix ("not found: ") and any
// upstream detail after it.
func publicMessage(err error) string {
	for _, class := range []error{
		service.ErrBadRequest,
		service.ErrNotFound,
		service.ErrForbidden,
		service.ErrConflict,
		service.ErrUpstream,
	} {
		if msg, ok := strings.CutPrefix(err.Error(), class.Error()+": "); ok {
			if i := strings.Index(msg, ": "); i >= 0 {
				msg = msg[:i]
			}
			return msg
		}
	}
	return err.Error()
}
