package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/samber/lo"

	"github.com/sabbaghsami/gramps/common/id"
	"github.com/sabbaghsami/gramps/internal/model"
	"github.com/sabbaghsami/gramps/internal/service"
	"github.com/sabbaghsami/gramps/internal/store"
)

var _ = Describe("AuthService", func() {
	var (
		ctx          context.Context
		userStore    *mockUserStore
		sessionStore *mockSessionStore
		idp          *mockIdentityProvider
		svc          service.AuthService
		now          time.Time
		token        string
	)

	BeforeEach(func() {
		ctx = context.Background()
		Expect(id.Init(1)).To(Succeed())
		now = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
		token = service.NewSessionToken()
		userStore = &mockUserStore{}
		sessionStore = &mockSessionStore{}
		idp = &mockIdentityProvider{}
		svc = service.NewAuthService(userStore, sessionStore, idp, func() time.Time { return now })
	})

	Describe("HandleCallback", func() {
		It("upserts the user and opens a session", func() {
			idp.authenticateFn = func(_ context.Context, code string) (*service.Identity, error) {
				Expect(code).To(Equal("code-1"))
				return &service.Identity{
					WorkOSID:  "user_01",
					SessionID: "session_01",
					Email:     "alice@example.com",
					FirstName: "Alice",
					LastName:  "Smith",
				}, nil
			}
			var upserted *model.User
			userStore.upsertFn = func(_ context.Context, u *model.User) error {
				upserted = u
				return nil
			}
			var created *model.Session
			sessionStore.createFn = func(_ context.Context, s *model.Session) error {
				created = s
				return nil
			}

			user, session, err := svc.HandleCallback(ctx, "code-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Name).To(Equal("Alice Smith"))
			Expect(*upserted.WorkOSID).To(Equal("user_01"))
			Expect(upserted.AvatarURL).To(BeNil())
			Expect(session.UserID).To(Equal(user.ID))
			Expect(session.CreatedAt).To(Equal(now))
			Expect(session.ExpiresAt).To(Equal(now.Add(service.SessionDuration)))
			Expect(service.ValidSessionToken(session.ID)).To(BeTrue())
			Expect(*session.WorkOSSessionID).To(Equal("session_01"))
			Expect(created).To(Equal(session))
		})

		It("issues unrelated session tokens for back to back sign-ins", func() {
			idp.authenticateFn = func(_ context.Context, _ string) (*service.Identity, error) {
				return &service.Identity{WorkOSID: "user_01", Email: "alice@example.com"}, nil
			}

			seen := map[string]bool{}
			var prefixes []string
			for i := 0; i < 50; i++ {
				_, session, err := svc.HandleCallback(ctx, "code")
				Expect(err).NotTo(HaveOccurred())
				Expect(seen).NotTo(HaveKey(session.ID))
				seen[session.ID] = true
				prefixes = append(prefixes, session.ID[:8])
			}
			// Tokens carry no clock or counter: consecutive ones share no prefix.
			Expect(lo.Uniq(prefixes)).To(HaveLen(len(prefixes)))
		})

		It("falls back to the email as the name", func() {
			idp.authenticateFn = func(_ context.Context, _ string) (*service.Identity, error) {
				return &service.Identity{WorkOSID: "user_02", Email: "bob@example.com"}, nil
			}
			user, _, err := svc.HandleCallback(ctx, "code")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Name).To(Equal("bob@example.com"))
		})

		It("returns ErrInvalidCode when the provider rejects the code", func() {
			idp.authenticateFn = func(_ context.Context, _ string) (*service.Identity, error) {
				return nil, errors.New("invalid_grant")
			}
			_, _, err := svc.HandleCallback(ctx, "bad")
			Expect(err).To(MatchError(service.ErrInvalidCode))
		})
	})

	Describe("ValidSessionToken", func() {
		It("accepts only random tokens", func() {
			Expect(service.ValidSessionToken(token)).To(BeTrue())
			Expect(service.ValidSessionToken("")).To(BeFalse())
			Expect(service.ValidSessionToken("2110684471089958912")).To(BeFalse())
			Expect(service.ValidSessionToken("6ba7b810-9dad-11d1-80b4-00c04fd430c8")).To(BeFalse())
		})
	})

	Describe("ValidateSession", func() {
		It("returns the session's user", func() {
			sessionStore.getValidFn = func(_ context.Context, sid string, at time.Time) (*model.Session, error) {
				Expect(at).To(Equal(now))
				return &model.Session{ID: sid, UserID: 1, ExpiresAt: now.Add(time.Hour)}, nil
			}
			userStore.getByIDFn = func(_ context.Context, uid int64) (*model.User, error) {
				return &model.User{ID: uid, Name: "Alice"}, nil
			}

			user, err := svc.ValidateSession(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Name).To(Equal("Alice"))
		})

		It("returns ErrSessionExpired for unknown sessions", func() {
			_, err := svc.ValidateSession(ctx, token)
			Expect(err).To(MatchError(service.ErrSessionExpired))
		})

		It("returns ErrUserNotFound when the user is gone", func() {
			sessionStore.getValidFn = func(_ context.Context, sid string, _ time.Time) (*model.Session, error) {
				return &model.Session{ID: sid, UserID: 1}, nil
			}
			userStore.getByIDFn = func(_ context.Context, _ int64) (*model.User, error) {
				return nil, store.ErrNotFound
			}
			_, err := svc.ValidateSession(ctx, token)
			Expect(err).To(MatchError(service.ErrUserNotFound))
		})
	})

	Describe("Logout", func() {
		It("deletes the session and returns the provider logout URL", func() {
			sid := "session_01"
			sessionStore.getValidFn = func(_ context.Context, id string, _ time.Time) (*model.Session, error) {
				return &model.Session{ID: id, WorkOSSessionID: &sid}, nil
			}
			var deleted string
			sessionStore.deleteFn = func(_ context.Context, id string) error {
				deleted = id
				return nil
			}
			idp.logoutURLFn = func(workosSessionID, returnTo string) (string, error) {
				return "https://auth.example.com/logout?sid=" + workosSessionID + "&to=" + returnTo, nil
			}

			url, err := svc.Logout(ctx, token, "https://gramps.example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(Equal(token))
			Expect(url).To(ContainSubstring("sid=session_01"))
		})

		It("returns an empty URL for sessions without a provider session", func() {
			url, err := svc.Logout(ctx, token, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(url).To(BeEmpty())
		})
	})
})
