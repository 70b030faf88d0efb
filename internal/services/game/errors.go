package game

import (
	"fmt"

	"github.com/mcoot/taflgame/internal/model"
)

// IllegalMoveError is returned when the engine rejects a move. State is the
// position the move was tried against, which is still the current one.
type IllegalMoveError struct {
	Move  model.Move
	State model.Snapshot
	Cause error
}

func (e *IllegalMoveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("illegal move %s: %v", e.Move, e.Cause)
	}
	return fmt.Sprintf("illegal move %s", e.Move)
}

// Unwrap exposes both model.ErrIllegalMove and the engine's reason
func (e *IllegalMoveError) Unwrap() []error {
	if e.Cause == nil {
		return []error{model.ErrIllegalMove}
	}
	return []error{model.ErrIllegalMove, e.Cause}
}
