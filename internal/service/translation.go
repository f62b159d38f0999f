package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/sabbaghsami/gramps/common/llm"
)

const (
	translateMaxAttempts  = 3
	translateSystemPrompt = `You translate short family reminder notes.
Translate the user's text into the requested language. Keep names, times and
numbers unchanged. Return only the translation in translated_text.`
)

// namedLanguages are matched by English name when the target is not a BCP 47 tag.
var namedLanguages = []language.Tag{
	language.Arabic, language.Bengali, language.Chinese, language.Czech,
	language.Danish, language.Dutch, language.English, language.Finnish,
	language.French, language.German, language.Greek, language.Hebrew,
	language.Hindi, language.Hungarian, language.Indonesian, language.Italian,
	language.Japanese, language.Korean, language.Malay, language.Norwegian,
	language.Persian, language.Polish, language.Portuguese, language.Romanian,
	language.Russian, language.Spanish, language.Swahili, language.Swedish,
	language.Filipino, language.Thai, language.Turkish, language.Ukrainian,
	language.Urdu, language.Vietnamese,
}

type TranslationResult struct {
	TranslatedText string `json:"translated_text" jsonschema:"description=The translated text"`
}

var translationSchema = llm.GenerateSchema[TranslationResult]()

type TranslationService interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

type translationService struct {
	client  llm.Client
	backoff func(attempt int) time.Duration
}

// NewTranslationService returns a service that fails with
// ErrTranslationDisabled when client is nil.
func NewTranslationService(client llm.Client) TranslationService {
	return &translationService{
		client: client,
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<attempt) * time.Second
		},
	}
}

func (s *translationService) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return "", ErrTextTooLong
	}

	tag, err := ParseLanguage(targetLanguage)
	if err != nil {
		return "", err
	}

	if s.client == nil {
		return "", ErrTranslationDisabled
	}

	langName := display.English.Tags().Name(tag)
	prompt := fmt.Sprintf("Target language: %s (%s)\n\nText:\n%s", langName, tag, text)

	var result TranslationResult
	for attempt := 0; attempt < translateMaxAttempts; attempt++ {
		_, err = s.client.Chat(ctx, llm.Request{
			SystemPrompt: translateSystemPrompt,
			UserPrompt:   prompt,
			SchemaName:   "translation_result",
			Schema:       translationSchema,
			Temperature:  llm.Temp(0),
		}, &result)
		if err == nil {
			break
		}
		if !llm.IsRetryable(ctx, err) || attempt == translateMaxAttempts-1 {
			break
		}
		slog.WarnContext(ctx, "translation retry", "attempt", attempt+1, "error", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.backoff(attempt)):
		}
	}
	if err != nil {
		slog.ErrorContext(ctx, "translation failed", "error", err, "target_language", tag.String())
		return "", fmt.Errorf("%w: %w", ErrTranslationFailed, err)
	}

	translated := strings.TrimSpace(result.TranslatedText)
	if translated == "" {
		return "", fmt.Errorf("%w: empty translation", ErrTranslationFailed)
	}

	slog.InfoContext(ctx, "text translated", "target_language", tag.String(), "model", s.client.Model())
	return translated, nil
}

// ParseLanguage accepts a BCP 47 tag ("es", "pt-BR") or an English language
// name ("Spanish").
func ParseLanguage(raw string) (language.Tag, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return language.Und, ErrUnknownLanguage
	}

	if tag, err := language.Parse(raw); err == nil && tag != language.Und {
		if display.English.Tags().Name(tag) != "" {
			return tag, nil
		}
	}

	namer := display.English.Languages()
	for _, tag := range namedLanguages {
		if strings.EqualFold(namer.Name(tag), raw) {
			return tag, nil
		}
	}

	return language.Und, ErrUnknownLanguage
}
