// Package engine defines the capability surface the game coordinator needs
// from a tafl rules engine. Legal-move generation, captures, win detection
// and move search all live behind this interface.
package engine

import (
	"context"
	"errors"

	"github.com/mcoot/taflgame/internal/model"
)

// ErrIllegalMove is returned by ApplyMove when the rules reject a move.
// Implementations must leave their position untouched in that case.
var ErrIllegalMove = errors.New("move rejected by rules")

// Outcome describes the effect of an applied move
type Outcome struct {
	Captured []model.Coordinate
	Winner   model.Side // Empty while the game continues
}

// Engine is a mutable rules engine holding one position.
// Implementations are not safe for concurrent use.
type Engine interface {
	// Size returns the board dimension
	Size() int

	// NewGame resets the engine to the variant's opening position
	NewGame()

	// SetPosition overwrites the position and side to move verbatim
	SetPosition(snapshot model.Snapshot) error

	// Snapshot serializes the current position
	Snapshot() model.Snapshot

	// ReachableFrom lists the squares the piece on from can move to.
	// Returns an empty slice when the square is empty or the piece is blocked.
	ReachableFrom(from model.Coordinate) []model.Coordinate

	// ApplyMove plays a move for the side to move
	ApplyMove(move model.Move) (Outcome, error)

	// SuggestMove proposes a move for the side to move
	SuggestMove(ctx context.Context) (model.Move, error)

	// Evaluate scores the position; positive favours the attackers
	Evaluate() int
}
