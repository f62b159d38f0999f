package handler_test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabbaghsami/gramps/internal/http/handler"
	"github.com/sabbaghsami/gramps/internal/service"
)

var _ = Describe("TranslateHandler", func() {
	var (
		router *gin.Engine
		svc    *mockTranslationService
	)

	BeforeEach(func() {
		svc = &mockTranslationService{}
		router = gin.New()
		router.POST("/api/translate", handler.NewTranslateHandler(svc).Translate)
	})

	It("returns the translation", func() {
		svc.translateFn = func(_ context.Context, text, lang string) (string, error) {
			Expect(text).To(Equal("Buy milk"))
			Expect(lang).To(Equal("es"))
			return "Compra leche", nil
		}

		w := doJSON(router, http.MethodPost, "/api/translate", map[string]string{"text": "Buy milk", "target_language": "es"})
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"translated_text":"Compra leche"}`))
	})

	DescribeTable("maps failures",
		func(err error, status int, message string) {
			svc.translateFn = func(_ context.Context, _, _ string) (string, error) {
				return "", err
			}
			w := doJSON(router, http.MethodPost, "/api/translate", map[string]string{"text": "Buy milk", "target_language": "xx"})
			Expect(w.Code).To(Equal(status))
			Expect(w.Body.String()).To(MatchJSON(fmt.Sprintf(`{"error":%q}`, message)))
		},
		Entry("unknown language", service.ErrUnknownLanguage, http.StatusBadRequest, "unknown target language"),
		Entry("upstream failure", fmt.Errorf("%w: %w", service.ErrTranslationFailed, fmt.Errorf("openai chat: 500")), http.StatusBadGateway, "translation failed"),
		Entry("not configured", service.ErrTranslationDisabled, http.StatusServiceUnavailable, "translation not configured"),
	)

	It("rejects a missing target language", func() {
		w := doJSON(router, http.MethodPost, "/api/translate", map[string]string{"text": "Buy milk"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
