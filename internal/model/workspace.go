package model

import (
	"slices"
	"time"
)

// Workspace is a shared board. The owner is always part of Members.
type Workspace struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	OwnerUserID int64     `json:"owner_user_id"`
	Members     []int64   `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (w *Workspace) IsOwner(userID int64) bool {
	return w.OwnerUserID == userID
}

func (w *Workspace) HasMember(userID int64) bool {
	return w.IsOwner(userID) || slices.Contains(w.Members, userID)
}
