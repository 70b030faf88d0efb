package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Coordinate identifies a square on the board
type Coordinate struct {
	Row    int // 0-indexed from top
	Column int // 0-indexed from left
}

// InBounds returns true if the coordinate lies on a size x size board
func (c Coordinate) InBounds(size int) bool {
	return c.Row >= 0 && c.Row < size && c.Column >= 0 && c.Column < size
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%d,%d", c.Row, c.Column)
}

// Move is a single ply from one square to another
type Move struct {
	From Coordinate
	To   Coordinate
}

// String renders the move in engine notation, e.g. "5,7->2,7"
func (m Move) String() string {
	return m.From.String() + "->" + m.To.String()
}

// Piece is the single-character encoding of a square's content
type Piece byte

const (
	PieceEmpty    Piece = '.'
	PieceAttacker Piece = 'a'
	PieceDefender Piece = 'd'
	PieceKing     Piece = 'k'
)

// IsValid returns true for the four known square symbols
func (p Piece) IsValid() bool {
	switch p {
	case PieceEmpty, PieceAttacker, PieceDefender, PieceKing:
		return true
	}
	return false
}

// Side returns the side owning the piece. Empty squares belong to no side.
func (p Piece) Side() (Side, bool) {
	switch p {
	case PieceAttacker:
		return SideAttacker, true
	case PieceDefender, PieceKing:
		return SideDefender, true
	}
	return "", false
}

// Side identifies which player acts next
type Side string

const (
	SideAttacker Side = "attacker"
	SideDefender Side = "defender"
)

// IsValid returns true for attacker or defender
func (s Side) IsValid() bool {
	return s == SideAttacker || s == SideDefender
}

// Opponent returns the other side
func (s Side) Opponent() Side {
	if s == SideAttacker {
		return SideDefender
	}
	return SideAttacker
}

// UnmarshalJSON accepts "attacker"/"defender" as well as the legacy
// whoMoves integers 1 (attacker) and 2 (defender). null leaves s unset.
func (s *Side) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		switch n {
		case 1:
			*s = SideAttacker
		case 2:
			*s = SideDefender
		default:
			*s = Side(fmt.Sprintf("%d", n))
		}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = Side(strings.ToLower(strings.TrimSpace(str)))
	return nil
}

// Snapshot is a complete serialization of a position: one string per row,
// one character per square, plus the side to move.
type Snapshot struct {
	Board      []string
	SideToMove Side
}

// Size returns the board dimension the snapshot denotes
func (s Snapshot) Size() int {
	return len(s.Board)
}

// PieceAt returns the piece on the given square, or PieceEmpty when out of range
func (s Snapshot) PieceAt(c Coordinate) Piece {
	if c.Row < 0 || c.Row >= len(s.Board) || c.Column < 0 || c.Column >= len(s.Board[c.Row]) {
		return PieceEmpty
	}
	return Piece(s.Board[c.Row][c.Column])
}

// Clone returns a deep copy of the snapshot
func (s Snapshot) Clone() Snapshot {
	board := make([]string, len(s.Board))
	copy(board, s.Board)
	return Snapshot{Board: board, SideToMove: s.SideToMove}
}

// Equal compares board contents and side to move
func (s Snapshot) Equal(other Snapshot) bool {
	if s.SideToMove != other.SideToMove || len(s.Board) != len(other.Board) {
		return false
	}
	for i := range s.Board {
		if s.Board[i] != other.Board[i] {
			return false
		}
	}
	return true
}
