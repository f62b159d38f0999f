package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/workos/workos-go/v6/pkg/usermanagement"

	"github.com/sabbaghsami/gramps/common/id"
	"github.com/sabbaghsami/gramps/core/config"
	"github.com/sabbaghsami/gramps/internal/model"
	"github.com/sabbaghsami/gramps/internal/store"
)

const SessionDuration = 7 * 24 * time.Hour

var (
	ErrInvalidCode    = errors.New("invalid authorization code")
	ErrUserNotFound   = errors.New("user not found")
	ErrSessionExpired = errors.New("session expired")
)

// IdentityProvider exchanges an AuthKit authorization code for a profile.
type IdentityProvider interface {
	AuthorizationURL(state string) (string, error)
	Authenticate(ctx context.Context, code string) (*Identity, error)
	LogoutURL(workosSessionID, returnTo string) (string, error)
}

type Identity struct {
	WorkOSID  string
	SessionID string
	Email     string
	FirstName string
	LastName  string
	AvatarURL string
}

type AuthService interface {
	GetAuthorizationURL(state string) (string, error)
	HandleCallback(ctx context.Context, code string) (*model.User, *model.Session, error)
	ValidateSession(ctx context.Context, sessionID string) (*model.User, error)
	// Logout deletes the session and returns the identity provider's logout
	// URL, or "" when the provider session is unknown.
	Logout(ctx context.Context, sessionID string, returnTo string) (string, error)
}

type authService struct {
	userStore    store.UserStore
	sessionStore store.SessionStore
	idp          IdentityProvider
	now          Clock
}

func NewAuthService(userStore store.UserStore, sessionStore store.SessionStore, idp IdentityProvider, now Clock) AuthService {
	if now == nil {
		now = time.Now
	}
	return &authService{
		userStore:    userStore,
		sessionStore: sessionStore,
		idp:          idp,
		now:          now,
	}
}

func (s *authService) GetAuthorizationURL(state string) (string, error) {
	url, err := s.idp.AuthorizationURL(state)
	if err != nil {
		return "", fmt.Errorf("generating authorization URL: %w", err)
	}
	return url, nil
}

func (s *authService) HandleCallback(ctx context.Context, code string) (*model.User, *model.Session, error) {
	identity, err := s.idp.Authenticate(ctx, code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to authenticate with code", "error", err)
		return nil, nil, ErrInvalidCode
	}

	var avatarURL *string
	if identity.AvatarURL != "" {
		avatarURL = &identity.AvatarURL
	}

	user := &model.User{
		ID:        id.New(),
		Name:      buildUserName(identity),
		Email:     identity.Email,
		AvatarURL: avatarURL,
		WorkOSID:  &identity.WorkOSID,
	}

	if err := s.userStore.UpsertByWorkOSID(ctx, user); err != nil {
		slog.ErrorContext(ctx, "failed to upsert user",
			"error", err,
			"email", user.Email,
			"workos_id", identity.WorkOSID,
		)
		return nil, nil, fmt.Errorf("upserting user: %w", err)
	}

	now := s.now()
	session := &model.Session{
		ID:        NewSessionToken(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionDuration),
	}
	if identity.SessionID != "" {
		session.WorkOSSessionID = &identity.SessionID
	}

	if err := s.sessionStore.Create(ctx, session); err != nil {
		slog.ErrorContext(ctx, "failed to create session",
			"error", err,
			"user_id", user.ID,
		)
		return nil, nil, fmt.Errorf("creating session: %w", err)
	}

	slog.InfoContext(ctx, "user authenticated",
		"user_id", user.ID,
		"email", user.Email,
	)

	return user, session, nil
}

func (s *authService) ValidateSession(ctx context.Context, sessionID string) (*model.User, error) {
	session, err := s.sessionStore.GetValid(ctx, sessionID, s.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}

	user, err := s.userStore.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	return user, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string, returnTo string) (string, error) {
	var logoutURL string
	session, err := s.sessionStore.GetValid(ctx, sessionID, s.now())
	if err == nil && session.WorkOSSessionID != nil {
		logoutURL, err = s.idp.LogoutURL(*session.WorkOSSessionID, returnTo)
		if err != nil {
			slog.WarnContext(ctx, "failed to build logout URL", "error", err)
			logoutURL = ""
		}
	}

	if err := s.sessionStore.Delete(ctx, sessionID); err != nil {
		return "", fmt.Errorf("deleting session: %w", err)
	}
	return logoutURL, nil
}

// NewSessionToken returns a random (version 4) UUID. Session ids are bearer
// credentials and must not be derivable from the sign-in time.
func NewSessionToken() string {
	return uuid.NewString()
}

// ValidSessionToken reports whether s has the shape of a session token.
func ValidSessionToken(s string) bool {
	u, err := uuid.Parse(s)
	return err == nil && u.Version() == 4
}

func buildUserName(identity *Identity) string {
	if identity.FirstName != "" && identity.LastName != "" {
		return identity.FirstName + " " + identity.LastName
	}
	if identity.FirstName != "" {
		return identity.FirstName
	}
	if identity.LastName != "" {
		return identity.LastName
	}
	return identity.Email
}

// workOSProvider is the AuthKit-backed IdentityProvider.
type workOSProvider struct {
	cfg config.WorkOSConfig
}

func NewWorkOSProvider(cfg config.WorkOSConfig) IdentityProvider {
	usermanagement.SetAPIKey(cfg.APIKey)
	return &workOSProvider{cfg: cfg}
}

func (p *workOSProvider) AuthorizationURL(state string) (string, error) {
	url, err := usermanagement.GetAuthorizationURL(usermanagement.GetAuthorizationURLOpts{
		ClientID:    p.cfg.ClientID,
		RedirectURI: p.cfg.RedirectURI,
		State:       state,
		Provider:    "authkit",
	})
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (p *workOSProvider) Authenticate(ctx context.Context, code string) (*Identity, error) {
	resp, err := usermanagement.AuthenticateWithCode(ctx, usermanagement.AuthenticateWithCodeOpts{
		ClientID: p.cfg.ClientID,
		Code:     code,
	})
	if err != nil {
		return nil, err
	}

	return &Identity{
		WorkOSID:  resp.User.ID,
		SessionID: sessionIDFromAccessToken(resp.AccessToken),
		Email:     resp.User.Email,
		FirstName: resp.User.FirstName,
		LastName:  resp.User.LastName,
		AvatarURL: resp.User.ProfilePictureURL,
	}, nil
}

func (p *workOSProvider) LogoutURL(workosSessionID, returnTo string) (string, error) {
	url, err := usermanagement.GetLogoutURL(usermanagement.GetLogoutURLOpts{
		SessionID: workosSessionID,
		ReturnTo:  returnTo,
	})
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

// sessionIDFromAccessToken reads the "sid" claim without verifying the
// signature.
func sessionIDFromAccessToken(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	sid, _ := claims["sid"].(string)
	return sid
}
