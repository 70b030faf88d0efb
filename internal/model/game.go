package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus represents the current phase of a game
type GameStatus string

const (
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusFinished   GameStatus = "finished" // Winner is set
)

// Game is the record of the single game currently hosted by the server
type Game struct {
	ID        GameID
	Variant   string
	BoardSize int
	Status    GameStatus
	Winner    Side // Empty until finished

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFinished returns true once the engine has reported a winner
func (g *Game) IsFinished() bool {
	return g.Status == GameStatusFinished
}

// HistoryEntry is one position the server executed, in order
type HistoryEntry struct {
	Ply        int
	Snapshot   Snapshot
	Move       *Move // nil for the opening position and raw state updates
	RecordedAt time.Time
}
