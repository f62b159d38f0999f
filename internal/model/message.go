package model

import "time"

// Message is an immutable reminder on a board.
type Message struct {
	ID         string     `json:"id"`
	Board      string     `json:"board"`
	Text       string     `json:"text"`
	Timestamp  time.Time  `json:"timestamp"`
	ExpiryTime *time.Time `json:"expiry_time"`
	CreatedBy  int64      `json:"created_by"`
}

// IsExpired reports whether the message has lapsed at now.
// A message without an expiry time never expires.
func (m *Message) IsExpired(now time.Time) bool {
	return m.ExpiryTime != nil && !now.Before(*m.ExpiryTime)
}
