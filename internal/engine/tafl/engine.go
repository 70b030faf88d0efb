// Package tafl is a reference Fetlar-style rules engine: orthogonal sliding
// moves, custodial capture, an armed king captured on four sides, and a
// defender win when the king reaches a corner.
package tafl

import (
	"context"
	"fmt"

	"github.com/mcoot/taflgame/internal/engine"
	"github.com/mcoot/taflgame/internal/model"
)

// Engine implements engine.Engine for a single variant
type Engine struct {
	variant Variant
	board   *board
	depth   int
}

// Ensure Engine implements the interface
var _ engine.Engine = (*Engine)(nil)

// Option configures an Engine
type Option func(*Engine)

// WithSearchDepth sets how many plies SuggestMove looks ahead (1 or 2)
func WithSearchDepth(depth int) Option {
	return func(e *Engine) {
		if depth < 1 {
			depth = 1
		}
		if depth > 2 {
			depth = 2
		}
		e.depth = depth
	}
}

// New creates an engine set up at the variant's opening position
func New(variant Variant, opts ...Option) *Engine {
	e := &Engine{variant: variant, depth: 1}
	for _, opt := range opts {
		opt(e)
	}
	e.NewGame()
	return e
}

// Variant returns the variant the engine plays
func (e *Engine) Variant() Variant {
	return e.variant
}

func (e *Engine) Size() int {
	return e.variant.Size
}

func (e *Engine) NewGame() {
	e.board = newBoard(e.variant.Opening())
}

func (e *Engine) SetPosition(s model.Snapshot) error {
	if len(s.Board) != e.variant.Size {
		return fmt.Errorf("position has %d rows, want %d", len(s.Board), e.variant.Size)
	}
	for i, row := range s.Board {
		if len(row) != e.variant.Size {
			return fmt.Errorf("row %d has %d squares, want %d", i, len(row), e.variant.Size)
		}
		for j := 0; j < len(row); j++ {
			if !model.Piece(row[j]).IsValid() {
				return fmt.Errorf("invalid symbol %q at %d,%d", row[j], i, j)
			}
		}
	}
	if !s.SideToMove.IsValid() {
		return fmt.Errorf("invalid side to move %q", s.SideToMove)
	}
	e.board = newBoard(s)
	return nil
}

func (e *Engine) Snapshot() model.Snapshot {
	return e.board.snapshot()
}

func (e *Engine) ReachableFrom(from model.Coordinate) []model.Coordinate {
	return e.board.reachable(from)
}

func (e *Engine) ApplyMove(m model.Move) (engine.Outcome, error) {
	if err := e.board.validate(m); err != nil {
		return engine.Outcome{}, err
	}
	return e.board.apply(m), nil
}

func (e *Engine) Evaluate() int {
	return evaluate(e.board)
}

func (e *Engine) SuggestMove(ctx context.Context) (model.Move, error) {
	return search(ctx, e.board, e.depth)
}
