package service

import (
	"github.com/sabbaghsami/gramps/common/llm"
	"github.com/sabbaghsami/gramps/core/config"
	"github.com/sabbaghsami/gramps/internal/store"
)

type Services struct {
	stores    store.Provider
	idp       IdentityProvider
	llmClient llm.Client
	now       Clock
	boardCfg  config.BoardConfig
	sweepCfg  config.SweepConfig
}

// NewServices wires services over one storage backend. idp and llmClient may
// be nil: the worker needs neither, and translation is optional.
func NewServices(stores store.Provider, idp IdentityProvider, llmClient llm.Client, cfg config.Config) *Services {
	return &Services{
		stores:    stores,
		idp:       idp,
		llmClient: llmClient,
		boardCfg:  cfg.Board,
		sweepCfg:  cfg.Sweep,
	}
}

// WithClock replaces the wall clock used for expiry and sessions.
func (s *Services) WithClock(now Clock) *Services {
	s.now = now
	return s
}

func (s *Services) Boards() BoardResolver {
	return NewBoardResolver(s.stores.Workspaces())
}

func (s *Services) Messages() MessageService {
	return NewMessageService(s.stores.Messages(), s.now, s.boardCfg.MaxExpiryMinutes)
}

func (s *Services) Expiry() ExpiryService {
	return NewExpiryService(s.stores.Messages(), s.stores.Sessions(), s.now, s.sweepCfg.BatchSize)
}

func (s *Services) Workspaces() WorkspaceService {
	return NewWorkspaceService(s.stores.Workspaces())
}

func (s *Services) Invitations() InvitationService {
	return NewInvitationService(s.stores.Workspaces(), s.stores.Users())
}

func (s *Services) Translation() TranslationService {
	return NewTranslationService(s.llmClient)
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.stores.Users(), s.stores.Sessions(), s.idp, s.now)
}
