package model

import (
	"fmt"
	"strconv"
)

type BoardKind string

const (
	BoardKindPersonal  BoardKind = "personal"
	BoardKindWorkspace BoardKind = "workspace"
)

// Board is a resolved, authorized message scope: either the personal board of
// one user or the shared board of one workspace.
type Board struct {
	Kind        BoardKind
	OwnerUserID int64 // set for personal boards
	WorkspaceID int64 // set for workspace boards
}

func PersonalBoard(userID int64) Board {
	return Board{Kind: BoardKindPersonal, OwnerUserID: userID}
}

func WorkspaceBoard(workspaceID int64) Board {
	return Board{Kind: BoardKindWorkspace, WorkspaceID: workspaceID}
}

// Key is the storage key messages are scoped by.
func (b Board) Key() string {
	switch b.Kind {
	case BoardKindPersonal:
		return "personal:" + strconv.FormatInt(b.OwnerUserID, 10)
	case BoardKindWorkspace:
		return "workspace:" + strconv.FormatInt(b.WorkspaceID, 10)
	default:
		panic(fmt.Sprintf("unknown board kind %q", b.Kind))
	}
}

func (b Board) String() string {
	return b.Key()
}
