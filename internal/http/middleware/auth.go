package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sabbaghsami/gramps/common/logger"
	"github.com/sabbaghsami/gramps/internal/model"
	"github.com/sabbaghsami/gramps/internal/service"
)

const (
	SessionCookieName = "gramps_session"
	SessionIDHeader   = "X-Session-ID"

	userContextKey = "gramps.user"
)

var ErrNoSession = errors.New("no session")

// SessionID reads the session token from the cookie, falling back to the header.
func SessionID(c *gin.Context) (string, error) {
	raw, err := c.Cookie(SessionCookieName)
	if err != nil || raw == "" {
		raw = c.GetHeader(SessionIDHeader)
	}
	if !service.ValidSessionToken(raw) {
		return "", ErrNoSession
	}
	return raw, nil
}

// RequireAuth rejects requests without a valid session with 401 and stores the
// signed-in user for CurrentUser.
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		sessionID, err := SessionID(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		user, err := authService.ValidateSession(ctx, sessionID)
		if err != nil {
			if errors.Is(err, service.ErrSessionExpired) || errors.Is(err, service.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
				return
			}
			slog.ErrorContext(ctx, "failed to validate session", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to validate session"})
			return
		}

		c.Set(userContextKey, user)
		c.Request = c.Request.WithContext(logger.WithLogFields(ctx, logger.LogFields{UserID: &user.ID}))
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}

// SetCurrentUser is used by tests to bypass RequireAuth.
func SetCurrentUser(c *gin.Context, user *model.User) {
	c.Set(userContextKey, user)
}
