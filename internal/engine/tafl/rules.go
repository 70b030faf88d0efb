package tafl

import (
	"fmt"
	"sort"

	"github.com/mcoot/taflgame/internal/engine"
	"github.com/mcoot/taflgame/internal/model"
)

var directions = [4]model.Coordinate{
	{Row: -1, Column: 0},
	{Row: 1, Column: 0},
	{Row: 0, Column: -1},
	{Row: 0, Column: 1},
}

// board is a mutable grid with the side to move
type board struct {
	size  int
	cells [][]model.Piece
	side  model.Side
}

func newBoard(s model.Snapshot) *board {
	b := &board{size: len(s.Board), side: s.SideToMove}
	b.cells = make([][]model.Piece, b.size)
	for i, row := range s.Board {
		b.cells[i] = make([]model.Piece, b.size)
		for j := 0; j < b.size; j++ {
			b.cells[i][j] = model.Piece(row[j])
		}
	}
	return b
}

func (b *board) clone() *board {
	c := &board{size: b.size, side: b.side, cells: make([][]model.Piece, b.size)}
	for i := range b.cells {
		c.cells[i] = make([]model.Piece, b.size)
		copy(c.cells[i], b.cells[i])
	}
	return c
}

func (b *board) snapshot() model.Snapshot {
	rows := make([]string, b.size)
	for i, row := range b.cells {
		buf := make([]byte, b.size)
		for j, p := range row {
			buf[j] = byte(p)
		}
		rows[i] = string(buf)
	}
	return model.Snapshot{Board: rows, SideToMove: b.side}
}

func (b *board) inBounds(c model.Coordinate) bool {
	return c.InBounds(b.size)
}

func (b *board) at(c model.Coordinate) model.Piece {
	return b.cells[c.Row][c.Column]
}

func (b *board) set(c model.Coordinate, p model.Piece) {
	b.cells[c.Row][c.Column] = p
}

func (b *board) throne() model.Coordinate {
	mid := b.size / 2
	return model.Coordinate{Row: mid, Column: mid}
}

func (b *board) isCorner(c model.Coordinate) bool {
	last := b.size - 1
	return (c.Row == 0 || c.Row == last) && (c.Column == 0 || c.Column == last)
}

func (b *board) isRestricted(c model.Coordinate) bool {
	return c == b.throne() || b.isCorner(c)
}

func (b *board) findKing() (model.Coordinate, bool) {
	for r, row := range b.cells {
		for c, p := range row {
			if p == model.PieceKing {
				return model.Coordinate{Row: r, Column: c}, true
			}
		}
	}
	return model.Coordinate{}, false
}

func add(c, d model.Coordinate) model.Coordinate {
	return model.Coordinate{Row: c.Row + d.Row, Column: c.Column + d.Column}
}

// reachable lists every destination of the piece on from, sorted row-major.
// Pieces slide orthogonally and cannot jump. Only the king may stop on the
// throne or a corner; other pieces may pass over the empty throne.
func (b *board) reachable(from model.Coordinate) []model.Coordinate {
	out := []model.Coordinate{}
	if !b.inBounds(from) {
		return out
	}
	piece := b.at(from)
	if piece == model.PieceEmpty {
		return out
	}

	for _, d := range directions {
		for cur := add(from, d); b.inBounds(cur); cur = add(cur, d) {
			if b.at(cur) != model.PieceEmpty {
				break
			}
			if b.isRestricted(cur) && piece != model.PieceKing {
				if b.isCorner(cur) {
					break
				}
				continue
			}
			out = append(out, cur)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Column < out[j].Column
	})
	return out
}

// legalMoves enumerates moves for the side to move in row-major order
func (b *board) legalMoves() []model.Move {
	var moves []model.Move
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			from := model.Coordinate{Row: r, Column: c}
			if side, ok := b.at(from).Side(); !ok || side != b.side {
				continue
			}
			for _, to := range b.reachable(from) {
				moves = append(moves, model.Move{From: from, To: to})
			}
		}
	}
	return moves
}

func (b *board) validate(m model.Move) error {
	if !b.inBounds(m.From) || !b.inBounds(m.To) {
		return fmt.Errorf("%w: %s is off the board", engine.ErrIllegalMove, m)
	}
	if w, over := b.winner(); over {
		return fmt.Errorf("%w: game already won by %s", engine.ErrIllegalMove, w)
	}
	piece := b.at(m.From)
	side, ok := piece.Side()
	if !ok {
		return fmt.Errorf("%w: no piece on %s", engine.ErrIllegalMove, m.From)
	}
	if side != b.side {
		return fmt.Errorf("%w: piece on %s belongs to %s but %s is to move", engine.ErrIllegalMove, m.From, side, b.side)
	}
	for _, to := range b.reachable(m.From) {
		if to == m.To {
			return nil
		}
	}
	return fmt.Errorf("%w: %s cannot reach %s", engine.ErrIllegalMove, m.From, m.To)
}

// apply plays a validated move and resolves captures and the winner
func (b *board) apply(m model.Move) engine.Outcome {
	mover := b.side
	piece := b.at(m.From)
	b.set(m.From, model.PieceEmpty)
	b.set(m.To, piece)

	outcome := engine.Outcome{Captured: []model.Coordinate{}}
	for _, d := range directions {
		victim := add(m.To, d)
		anvil := add(victim, d)
		if !b.inBounds(victim) || !b.inBounds(anvil) {
			continue
		}
		vp := b.at(victim)
		if vp == model.PieceKing {
			continue
		}
		if vs, ok := vp.Side(); !ok || vs == mover {
			continue
		}
		if b.hostileTo(anvil, mover) {
			b.set(victim, model.PieceEmpty)
			outcome.Captured = append(outcome.Captured, victim)
		}
	}

	if mover == model.SideAttacker {
		if king, ok := b.findKing(); ok && b.kingSurrounded(king) {
			b.set(king, model.PieceEmpty)
			outcome.Captured = append(outcome.Captured, king)
		}
	}

	b.side = mover.Opponent()
	if w, over := b.winner(); over {
		outcome.Winner = w
	} else if len(b.legalMoves()) == 0 {
		outcome.Winner = mover
	}
	return outcome
}

// hostileTo reports whether the square acts as the far side of a sandwich
// for a piece of the given side
func (b *board) hostileTo(c model.Coordinate, mover model.Side) bool {
	p := b.at(c)
	if side, ok := p.Side(); ok {
		return side == mover
	}
	return b.isCorner(c) || c == b.throne()
}

// kingSurrounded is true when all four neighbours are attackers or the empty throne.
// A king on the edge cannot be captured.
func (b *board) kingSurrounded(king model.Coordinate) bool {
	for _, d := range directions {
		n := add(king, d)
		if !b.inBounds(n) {
			return false
		}
		p := b.at(n)
		if p == model.PieceAttacker {
			continue
		}
		if n == b.throne() && p == model.PieceEmpty {
			continue
		}
		return false
	}
	return true
}

// winner reports a decided position: king gone or king on a corner
func (b *board) winner() (model.Side, bool) {
	king, ok := b.findKing()
	if !ok {
		return model.SideAttacker, true
	}
	if b.isCorner(king) {
		return model.SideDefender, true
	}
	return "", false
}
