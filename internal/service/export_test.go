package service

import (
	"time"

	"github.com/sabbaghsami/gramps/common/llm"
)

func NewTranslationServiceWithBackoff(client llm.Client, backoff func(attempt int) time.Duration) TranslationService {
	return &translationService{client: client, backoff: backoff}
}
