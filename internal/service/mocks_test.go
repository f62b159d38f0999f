package service_test

import (
	"context"
	"time"

	"github.com/sabbaghsami/gramps/common/llm"
	"github.com/sabbaghsami/gramps/internal/model"
	"github.com/sabbaghsami/gramps/internal/service"
	"github.com/sabbaghsami/gramps/internal/store"
)

type mockUserStore struct {
	getByIDFn    func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn func(ctx context.Context, email string) (*model.User, error)
	upsertFn     func(ctx context.Context, user *model.User) error
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) UpsertByWorkOSID(ctx context.Context, user *model.User) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, user)
	}
	return nil
}

type mockSessionStore struct {
	getValidFn      func(ctx context.Context, id string, now time.Time) (*model.Session, error)
	createFn        func(ctx context.Context, session *model.Session) error
	deleteFn        func(ctx context.Context, id string) error
	deleteExpiredFn func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockSessionStore) GetValid(ctx context.Context, id string, now time.Time) (*model.Session, error) {
	if m.getValidFn != nil {
		return m.getValidFn(ctx, id, now)
	}
	return nil, store.ErrNotFound
}

func (m *mockSessionStore) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockSessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx, now)
	}
	return 0, nil
}

type mockWorkspaceStore struct {
	getByIDFn      func(ctx context.Context, id int64) (*model.Workspace, error)
	createFn       func(ctx context.Context, ws *model.Workspace) error
	listByMemberFn func(ctx context.Context, userID int64) ([]model.Workspace, error)
	addMemberFn    func(ctx context.Context, workspaceID, userID int64) (bool, error)
	addMemberCalls int
}

func (m *mockWorkspaceStore) GetByID(ctx context.Context, id int64) (*model.Workspace, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockWorkspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	if m.createFn != nil {
		return m.createFn(ctx, ws)
	}
	return nil
}

func (m *mockWorkspaceStore) ListByMember(ctx context.Context, userID int64) ([]model.Workspace, error) {
	if m.listByMemberFn != nil {
		return m.listByMemberFn(ctx, userID)
	}
	return []model.Workspace{}, nil
}

func (m *mockWorkspaceStore) AddMember(ctx context.Context, workspaceID, userID int64) (bool, error) {
	m.addMemberCalls++
	if m.addMemberFn != nil {
		return m.addMemberFn(ctx, workspaceID, userID)
	}
	return true, nil
}

type mockMessageStore struct {
	listActiveFn    func(ctx context.Context, board string, now time.Time) ([]model.Message, error)
	createFn        func(ctx context.Context, msg *model.Message) error
	deleteFn        func(ctx context.Context, board, id string) error
	purgeExpiredFn  func(ctx context.Context, board string, now time.Time) (int64, error)
	deleteExpiredFn func(ctx context.Context, now time.Time, limit int) (int64, error)
	createCalls     int
}

func (m *mockMessageStore) ListActive(ctx context.Context, board string, now time.Time) ([]model.Message, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx, board, now)
	}
	return []model.Message{}, nil
}

func (m *mockMessageStore) Create(ctx context.Context, msg *model.Message) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, msg)
	}
	return nil
}

func (m *mockMessageStore) Delete(ctx context.Context, board, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, board, id)
	}
	return nil
}

func (m *mockMessageStore) PurgeExpired(ctx context.Context, board string, now time.Time) (int64, error) {
	if m.purgeExpiredFn != nil {
		return m.purgeExpiredFn(ctx, board, now)
	}
	return 0, nil
}

func (m *mockMessageStore) DeleteExpired(ctx context.Context, now time.Time, limit int) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx, now, limit)
	}
	return 0, nil
}

type mockLLMClient struct {
	chatFn    func(ctx context.Context, req llm.Request, result any) (*llm.Response, error)
	chatCalls int
}

func (m *mockLLMClient) Chat(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
	m.chatCalls++
	if m.chatFn != nil {
		return m.chatFn(ctx, req, result)
	}
	return &llm.Response{}, nil
}

func (m *mockLLMClient) Model() string {
	return "test-model"
}

type mockIdentityProvider struct {
	authorizationURLFn func(state string) (string, error)
	authenticateFn     func(ctx context.Context, code string) (*service.Identity, error)
	logoutURLFn        func(workosSessionID, returnTo string) (string, error)
}

func (m *mockIdentityProvider) AuthorizationURL(state string) (string, error) {
	if m.authorizationURLFn != nil {
		return m.authorizationURLFn(state)
	}
	return "https://auth.example.com/authorize?state=" + state, nil
}

func (m *mockIdentityProvider) Authenticate(ctx context.Context, code string) (*service.Identity, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, code)
	}
	return nil, nil
}

func (m *mockIdentityProvider) LogoutURL(workosSessionID, returnTo string) (string, error) {
	if m.logoutURLFn != nil {
		return m.logoutURLFn(workosSessionID, returnTo)
	}
	return "", nil
}
