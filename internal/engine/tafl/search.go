package tafl

import (
	"context"
	"math"

	"github.com/mcoot/taflgame/internal/model"
)

const (
	attackerWeight = 10
	defenderWeight = 20
	kingPressure   = 15
	cornerDistance = 5
	decisiveScore  = 10000
)

// evaluate scores a position from the attackers' point of view
func evaluate(b *board) int {
	if w, over := b.winner(); over {
		if w == model.SideAttacker {
			return decisiveScore
		}
		return -decisiveScore
	}

	score := 0
	for _, row := range b.cells {
		for _, p := range row {
			switch p {
			case model.PieceAttacker:
				score += attackerWeight
			case model.PieceDefender:
				score -= defenderWeight
			}
		}
	}

	king, _ := b.findKing()
	last := b.size - 1
	nearest := math.MaxInt
	for _, corner := range []model.Coordinate{{Row: 0, Column: 0}, {Row: 0, Column: last}, {Row: last, Column: 0}, {Row: last, Column: last}} {
		d := abs(king.Row-corner.Row) + abs(king.Column-corner.Column)
		if d < nearest {
			nearest = d
		}
	}
	score += cornerDistance * nearest

	for _, d := range directions {
		n := add(king, d)
		if b.inBounds(n) && b.at(n) == model.PieceAttacker {
			score += kingPressure
		}
	}
	return score
}

// search picks the move with the best evaluation for the side to move.
// Ties keep the first move in row-major order so answers are reproducible.
func search(ctx context.Context, b *board, depth int) (model.Move, error) {
	moves := b.legalMoves()
	if len(moves) == 0 {
		return model.Move{}, model.ErrNoLegalMoves
	}

	sign := 1
	if b.side == model.SideDefender {
		sign = -1
	}

	best := moves[0]
	bestScore := math.MinInt
	for _, m := range moves {
		if err := ctx.Err(); err != nil {
			return model.Move{}, err
		}
		next := b.clone()
		outcome := next.apply(m)

		var score int
		switch {
		case outcome.Winner == b.side:
			score = decisiveScore
		case depth > 1 && outcome.Winner == "":
			score = -replyScore(next, -sign)
		default:
			score = sign * evaluate(next)
		}

		if score > bestScore {
			best, bestScore = m, score
		}
	}
	return best, nil
}

// replyScore is the best score the opponent can reach with one move
func replyScore(b *board, sign int) int {
	moves := b.legalMoves()
	if len(moves) == 0 {
		return sign * evaluate(b)
	}
	best := math.MinInt
	for _, m := range moves {
		next := b.clone()
		next.apply(m)
		if s := sign * evaluate(next); s > best {
			best = s
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
