package service

import (
	"errors"
	"fmt"
)

// Error classes. Handlers map these to status codes; specific errors below
// wrap one of them so callers can match either with errors.Is.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrUpstream   = errors.New("upstream failure")
)

var (
	ErrInvalidContext     = fmt.Errorf("%w: invalid context", ErrBadRequest)
	ErrEmptyText          = fmt.Errorf("%w: text must not be empty", ErrBadRequest)
	ErrTextTooLong        = fmt.Errorf("%w: text is too long", ErrBadRequest)
	ErrInvalidExpiry      = fmt.Errorf("%w: invalid expiry duration", ErrBadRequest)
	ErrEmptyName          = fmt.Errorf("%w: name must not be empty", ErrBadRequest)
	ErrNameTooLong        = fmt.Errorf("%w: name is too long", ErrBadRequest)
	ErrInvalidEmail       = fmt.Errorf("%w: invalid email", ErrBadRequest)
	ErrUnknownLanguage    = fmt.Errorf("%w: unknown target language", ErrBadRequest)
	ErrMessageNotFound    = fmt.Errorf("%w: message not found", ErrNotFound)
	ErrWorkspaceNotFound  = fmt.Errorf("%w: workspace not found", ErrNotFound)
	ErrUserNotRegistered  = fmt.Errorf("%w: no such registered user", ErrNotFound)
	ErrNotWorkspaceMember = fmt.Errorf("%w: not a member of this workspace", ErrForbidden)
	ErrNotWorkspaceOwner  = fmt.Errorf("%w: only the workspace owner can invite", ErrForbidden)
	ErrTranslationFailed  = fmt.Errorf("%w: translation failed", ErrUpstream)

	// ErrTranslationDisabled means no translation provider is configured.
	ErrTranslationDisabled = errors.New("translation not configured")
)
