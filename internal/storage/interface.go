package storage

import (
	"context"

	"github.com/mcoot/taflgame/internal/model"
)

// Storage defines the interface for the game audit trail. The engine keeps
// the live position; storage records what the server executed.
type Storage interface {
	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error

	// History operations. Entries are returned in the order they were appended.
	AppendHistory(ctx context.Context, id model.GameID, entry *model.HistoryEntry) error
	GetHistory(ctx context.Context, id model.GameID) ([]*model.HistoryEntry, error)
}
