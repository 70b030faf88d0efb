// Package codec converts between the JSON wire shapes and engine values.
package codec

import (
	"fmt"
	"strings"

	"github.com/mcoot/taflgame/internal/api/request"
	"github.com/mcoot/taflgame/internal/engine"
	"github.com/mcoot/taflgame/internal/model"
)

// ParseError reports a request field that could not be turned into a
// board value
type ParseError struct {
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsStateField reports whether the error concerns the state snapshot rather
// than a square
func (e *ParseError) IsStateField() bool {
	return e.Field == "state" || strings.HasPrefix(e.Field, "state.")
}

// ParseCoordinate validates a location against a size x size board
func ParseCoordinate(field string, loc *request.Location, size int) (model.Coordinate, error) {
	if loc == nil {
		return model.Coordinate{}, &ParseError{Field: field, Reason: "missing"}
	}
	if loc.Row == nil {
		return model.Coordinate{}, &ParseError{Field: field + ".row", Reason: "missing"}
	}
	if loc.Column == nil {
		return model.Coordinate{}, &ParseError{Field: field + ".column", Reason: "missing"}
	}

	c := model.Coordinate{Row: *loc.Row, Column: *loc.Column}
	if !c.InBounds(size) {
		return model.Coordinate{}, &ParseError{
			Field:  field,
			Reason: fmt.Sprintf("%s is outside a %dx%d board", c, size, size),
		}
	}
	return c, nil
}

// ParseMove validates both ends of a move
func ParseMove(from, to *request.Location, size int) (model.Move, error) {
	f, err := ParseCoordinate("from", from, size)
	if err != nil {
		return model.Move{}, err
	}
	t, err := ParseCoordinate("to", to, size)
	if err != nil {
		return model.Move{}, err
	}
	return model.Move{From: f, To: t}, nil
}

// ParseSnapshot validates a client state. A nil state yields (nil, nil) so
// callers can treat it as "use the server position".
func ParseSnapshot(field string, state *request.State, size int) (*model.Snapshot, error) {
	if state == nil {
		return nil, nil
	}

	if len(state.Board) != size {
		return nil, &ParseError{
			Field:  field + ".board",
			Reason: fmt.Sprintf("expected %d rows, got %d", size, len(state.Board)),
		}
	}
	board := make([]string, size)
	for i, row := range state.Board {
		if len(row) != size {
			return nil, &ParseError{
				Field:  fmt.Sprintf("%s.board[%d]", field, i),
				Reason: fmt.Sprintf("expected %d squares, got %d", size, len(row)),
			}
		}
		for j := 0; j < len(row); j++ {
			if !model.Piece(row[j]).IsValid() {
				return nil, &ParseError{
					Field:  fmt.Sprintf("%s.board[%d]", field, i),
					Reason: fmt.Sprintf("unknown symbol %q at column %d", row[j], j),
				}
			}
		}
		board[i] = row
	}

	side, ok := state.Side()
	if !ok || side == "" {
		return nil, &ParseError{Field: field + ".sideToMove", Reason: "missing"}
	}
	if !side.IsValid() {
		return nil, &ParseError{
			Field:  field + ".sideToMove",
			Reason: fmt.Sprintf("unknown side %q", side),
		}
	}

	return &model.Snapshot{Board: board, SideToMove: side}, nil
}

// SerializeBoard reads the engine's current position
func SerializeBoard(e engine.Engine) model.Snapshot {
	return e.Snapshot()
}
