package store

import (
	"github.com/sabbaghsami/gramps/core/db"
)

// Stores is the Postgres-backed Provider.
type Stores struct {
	queries db.Querier
}

func NewStores(queries db.Querier) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.queries)
}

func (s *Stores) Sessions() SessionStore {
	return newSessionStore(s.queries)
}

func (s *Stores) Workspaces() WorkspaceStore {
	return newWorkspaceStore(s.queries)
}

func (s *Stores) Messages() MessageStore {
	return newMessageStore(s.queries)
}
