package mocks

import (
	"context"
	"sync"

	"github.com/mcoot/taflgame/internal/engine"
	"github.com/mcoot/taflgame/internal/model"
)

// MockEngine is a programmable engine.Engine for coordinator tests.
// Position handling is real (SetPosition/Snapshot round-trip); everything
// else returns the configured values.
type MockEngine struct {
	mu sync.Mutex

	BoardSize int
	Opening   model.Snapshot
	Position  model.Snapshot

	Reachable   []model.Coordinate
	ApplyResult engine.Outcome
	ApplyErr    error
	// ApplyBoard, when set, becomes the position after a successful move
	ApplyBoard *model.Snapshot

	Suggestion  model.Move
	SuggestErr  error
	SuggestFunc func(ctx context.Context) (model.Move, error)

	Score          int
	SetPositionErr error

	// Call tracking
	NewGameCalls     int
	SetPositionCalls int
	AppliedMoves     []model.Move
}

// Ensure MockEngine implements Engine
var _ engine.Engine = (*MockEngine)(nil)

// NewMockEngine creates a MockEngine whose opening is the given snapshot
func NewMockEngine(opening model.Snapshot) *MockEngine {
	return &MockEngine{
		BoardSize: opening.Size(),
		Opening:   opening.Clone(),
		Position:  opening.Clone(),
	}
}

func (e *MockEngine) Size() int {
	return e.BoardSize
}

func (e *MockEngine) NewGame() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.NewGameCalls++
	e.Position = e.Opening.Clone()
}

func (e *MockEngine) SetPosition(s model.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.SetPositionCalls++
	if e.SetPositionErr != nil {
		return e.SetPositionErr
	}
	e.Position = s.Clone()
	return nil
}

func (e *MockEngine) Snapshot() model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Position.Clone()
}

func (e *MockEngine) ReachableFrom(from model.Coordinate) []model.Coordinate {
	if e.Reachable == nil {
		return []model.Coordinate{}
	}
	return e.Reachable
}

func (e *MockEngine) ApplyMove(m model.Move) (engine.Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ApplyErr != nil {
		return engine.Outcome{}, e.ApplyErr
	}
	e.AppliedMoves = append(e.AppliedMoves, m)
	if e.ApplyBoard != nil {
		e.Position = e.ApplyBoard.Clone()
	} else {
		e.Position.SideToMove = e.Position.SideToMove.Opponent()
	}
	return e.ApplyResult, nil
}

func (e *MockEngine) SuggestMove(ctx context.Context) (model.Move, error) {
	if e.SuggestFunc != nil {
		return e.SuggestFunc(ctx)
	}
	if e.SuggestErr != nil {
		return model.Move{}, e.SuggestErr
	}
	return e.Suggestion, nil
}

func (e *MockEngine) Evaluate() int {
	return e.Score
}
