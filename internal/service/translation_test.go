package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/text/language"

	"github.com/sabbaghsami/gramps/common/llm"
	"github.com/sabbaghsami/gramps/internal/service"
)

var _ = Describe("TranslationService", func() {
	var (
		ctx    context.Context
		client *mockLLMClient
		svc    service.TranslationService
	)

	noBackoff := func(int) time.Duration { return 0 }

	BeforeEach(func() {
		ctx = context.Background()
		client = &mockLLMClient{}
		svc = service.NewTranslationServiceWithBackoff(client, noBackoff)
	})

	It("returns the translated text", func() {
		var gotPrompt string
		client.chatFn = func(_ context.Context, req llm.Request, result any) (*llm.Response, error) {
			gotPrompt = req.UserPrompt
			result.(*service.TranslationResult).TranslatedText = " Compra leche "
			return &llm.Response{}, nil
		}

		out, err := svc.Translate(ctx, "Buy milk", "es")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("Compra leche"))
		Expect(gotPrompt).To(ContainSubstring("Spanish"))
		Expect(gotPrompt).To(ContainSubstring("Buy milk"))
	})

	It("accepts English language names", func() {
		client.chatFn = func(_ context.Context, _ llm.Request, result any) (*llm.Response, error) {
			result.(*service.TranslationResult).TranslatedText = "Milch kaufen"
			return &llm.Response{}, nil
		}
		out, err := svc.Translate(ctx, "Buy milk", "german")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("Milch kaufen"))
	})

	It("rejects unknown languages before calling the provider", func() {
		_, err := svc.Translate(ctx, "Buy milk", "Klingonese")
		Expect(err).To(MatchError(service.ErrUnknownLanguage))
		Expect(errors.Is(err, service.ErrBadRequest)).To(BeTrue())
		Expect(client.chatCalls).To(BeZero())
	})

	It("rejects empty text", func() {
		_, err := svc.Translate(ctx, "  ", "es")
		Expect(err).To(MatchError(service.ErrEmptyText))
	})

	It("reports disabled translation when no client is configured", func() {
		svc = service.NewTranslationService(nil)
		_, err := svc.Translate(ctx, "Buy milk", "es")
		Expect(err).To(MatchError(service.ErrTranslationDisabled))
	})

	It("retries transient failures", func() {
		client.chatFn = func(_ context.Context, _ llm.Request, result any) (*llm.Response, error) {
			if client.chatCalls < 2 {
				return nil, errors.New("connection reset by peer")
			}
			result.(*service.TranslationResult).TranslatedText = "Compra leche"
			return &llm.Response{}, nil
		}

		out, err := svc.Translate(ctx, "Buy milk", "es")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("Compra leche"))
		Expect(client.chatCalls).To(Equal(2))
	})

	It("gives up after three attempts with an upstream error", func() {
		client.chatFn = func(_ context.Context, _ llm.Request, _ any) (*llm.Response, error) {
			return nil, errors.New("connection reset by peer")
		}

		_, err := svc.Translate(ctx, "Buy milk", "es")
		Expect(err).To(MatchError(service.ErrTranslationFailed))
		Expect(errors.Is(err, service.ErrUpstream)).To(BeTrue())
		Expect(client.chatCalls).To(Equal(3))
	})

	It("does not retry cancellations", func() {
		client.chatFn = func(_ context.Context, _ llm.Request, _ any) (*llm.Response, error) {
			return nil, context.Canceled
		}

		_, err := svc.Translate(ctx, "Buy milk", "es")
		Expect(errors.Is(err, service.ErrUpstream)).To(BeTrue())
		Expect(client.chatCalls).To(Equal(1))
	})

	It("treats an empty translation as an upstream failure", func() {
		_, err := svc.Translate(ctx, "Buy milk", "es")
		Expect(errors.Is(err, service.ErrUpstream)).To(BeTrue())
	})
})

var _ = DescribeTable("ParseLanguage",
	func(raw string, want language.Tag) {
		tag, err := service.ParseLanguage(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(tag).To(Equal(want))
	},
	Entry("base tag", "fr", language.French),
	Entry("region tag", "pt-BR", language.BrazilianPortuguese),
	Entry("english name", "Japanese", language.Japanese),
	Entry("mixed case name", "sPaNiSh", language.Spanish),
)
