package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabbaghsami/gramps/internal/http/handler"
	"github.com/sabbaghsami/gramps/internal/http/middleware"
	"github.com/sabbaghsami/gramps/internal/model"
	"github.com/sabbaghsami/gramps/internal/service"
)

func withUser(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetCurrentUser(c, user)
		c.Next()
	}
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var _ = Describe("MessageHandler", func() {
	var (
		router   *gin.Engine
		boards   *mockBoardResolver
		messages *mockMessageService
		alice    *model.User
	)

	BeforeEach(func() {
		alice = &model.User{ID: 1, Name: "Alice", Email: "alice@example.com"}
		boards = &mockBoardResolver{}
		messages = &mockMessageService{}
		h := handler.NewMessageHandler(boards, messages)

		router = gin.New()
		router.Use(withUser(alice))
		router.GET("/api/messages", h.List)
		router.POST("/api/messages", h.Create)
		router.DELETE("/api/messages/:id", h.Delete)
	})

	Describe("List", func() {
		It("returns messages with null expiry times", func() {
			ts := time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC)
			messages.listFn = func(_ context.Context, board model.Board) ([]model.Message, error) {
				Expect(board.Key()).To(Equal("workspace:9"))
				return []model.Message{{ID: "m1", Text: "Dinner at 6", Timestamp: ts, Board: board.Key()}}, nil
			}
			boards.resolveFn = func(_ context.Context, callerID int64, raw string) (model.Board, error) {
				Expect(callerID).To(Equal(int64(1)))
				Expect(raw).To(Equal("workspace:9"))
				return model.WorkspaceBoard(9), nil
			}

			w := doJSON(router, http.MethodGet, "/api/messages?context=workspace:9", nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp []map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp).To(HaveLen(1))
			Expect(resp[0]["id"]).To(Equal("m1"))
			Expect(resp[0]).To(HaveKeyWithValue("expiry_time", BeNil()))
			Expect(resp[0]).NotTo(HaveKey("board"))
		})

		It("returns an empty array, not null", func() {
			w := doJSON(router, http.MethodGet, "/api/messages", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(Equal("[]"))
		})

		DescribeTable("maps resolver failures",
			func(err error, status int) {
				boards.resolveFn = func(_ context.Context, _ int64, _ string) (model.Board, error) {
					return model.Board{}, err
				}
				w := doJSON(router, http.MethodGet, "/api/messages?context=workspace:9", nil)
				Expect(w.Code).To(Equal(status))

				var resp map[string]any
				Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
				Expect(resp).To(HaveKey("error"))
			},
			Entry("invalid context", service.ErrInvalidContext, http.StatusBadRequest),
			Entry("missing workspace", service.ErrWorkspaceNotFound, http.StatusNotFound),
			Entry("not a member", service.ErrNotWorkspaceMember, http.StatusForbidden),
			Entry("store failure", errors.New("connection refused"), http.StatusInternalServerError),
		)
	})

	Describe("Create", func() {
		It("creates a message and returns 201", func() {
			var got service.CreateMessageParams
			messages.createFn = func(_ context.Context, board model.Board, params service.CreateMessageParams) (*model.Message, error) {
				got = params
				expiry := time.Date(2026, 10, 15, 18, 30, 0, 0, time.UTC)
				return &model.Message{ID: "m1", Text: params.Text, Board: board.Key(), ExpiryTime: &expiry}, nil
			}

			w := doJSON(router, http.MethodPost, "/api/messages", map[string]any{
				"text":                    "Take pills",
				"expiry_duration_minutes": 30,
			})
			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(got.Text).To(Equal("Take pills"))
			Expect(*got.ExpiryMinutes).To(Equal(30))
			Expect(got.CreatedBy).To(Equal(int64(1)))

			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["expiry_time"]).To(Equal("2026-10-15T18:30:00Z"))
		})

		DescribeTable("rejects invalid bodies with 400",
			func(body any) {
				w := doJSON(router, http.MethodPost, "/api/messages", body)
				Expect(w.Code).To(Equal(http.StatusBadRequest))
			},
			Entry("missing text", map[string]any{}),
			Entry("blank text", map[string]any{"text": "   "}),
			Entry("negative duration", map[string]any{"text": "x", "expiry_duration_minutes": -5}),
			Entry("wrong type", map[string]any{"text": 12}),
		)

		It("maps service validation errors to 400", func() {
			messages.createFn = func(_ context.Context, _ model.Board, _ service.CreateMessageParams) (*model.Message, error) {
				return nil, service.ErrInvalidExpiry
			}
			w := doJSON(router, http.MethodPost, "/api/messages", map[string]any{"text": "x", "expiry_duration_minutes": 9999999})
			Expect(w.Code).To(Equal(http.StatusBadRequest))

			var resp map[string]string
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["error"]).To(Equal("invalid expiry duration"))
		})
	})

	Describe("Delete", func() {
		It("returns success", func() {
			var gotID string
			messages.deleteFn = func(_ context.Context, _ model.Board, id string) error {
				gotID = id
				return nil
			}
			w := doJSON(router, http.MethodDelete, "/api/messages/m1", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"success":true}`))
			Expect(gotID).To(Equal("m1"))
		})

		It("returns 404 for unknown messages", func() {
			messages.deleteFn = func(_ context.Context, _ model.Board, _ string) error {
				return service.ErrMessageNotFound
			}
			w := doJSON(router, http.MethodDelete, "/api/messages/m1", nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(MatchJSON(`{"error":"message not found"}`))
		})
	})
})
