package dto

import (
	"time"

	"github.com/samber/lo"

	"github.com/sabbaghsami/gramps/internal/model"
)

// Length limits apply to the trimmed text and are checked by the service.
type CreateMessageRequest struct {
	Text                  string `json:"text" binding:"required,notblank"`
	ExpiryDurationMinutes *int   `json:"expiry_duration_minutes,omitempty" binding:"omitempty,min=0"`
}

type MessageResponse struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Timestamp  time.Time  `json:"timestamp"`
	ExpiryTime *time.Time `json:"expiry_time"`
}

func ToMessageResponse(m *model.Message) *MessageResponse {
	return &MessageResponse{
		ID:         m.ID,
		Text:       m.Text,
		Timestamp:  m.Timestamp,
		ExpiryTime: m.ExpiryTime,
	}
}

func ToMessageResponses(messages []model.Message) []MessageResponse {
	return lo.Map(messages, func(m model.Message, _ int) MessageResponse {
		return *ToMessageResponse(&m)
	})
}

type TranslateRequest struct {
	Text           string `json:"text" binding:"required,notblank"`
	TargetLanguage string `json:"target_language" binding:"required,notblank"`
}

type TranslateResponse struct {
	TranslatedText string `json:"translated_text"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
