package model

import "errors"

// Common errors used across the application
var (
	// Game errors
	ErrGameNotFound  = errors.New("game not found")
	ErrNoActiveGame  = errors.New("no game has been created")
	ErrIllegalMove   = errors.New("illegal move")
	ErrStateRequired = errors.New("state is required")

	// Engine errors
	ErrEngineFault   = errors.New("engine fault")
	ErrEngineTimeout = errors.New("engine did not answer in time")
	ErrNoLegalMoves  = errors.New("no legal moves for side to move")
)
