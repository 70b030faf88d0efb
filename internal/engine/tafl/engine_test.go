package tafl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/taflgame/internal/engine"
	"github.com/mcoot/taflgame/internal/model"
)

type EngineSuite struct {
	suite.Suite
	fetlar   *Engine
	brandubh *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	fetlar, err := LookupVariant("fetlar")
	s.Require().NoError(err)
	brandubh, err := LookupVariant("brandubh")
	s.Require().NoError(err)

	s.fetlar = New(fetlar)
	s.brandubh = New(brandubh)
}

func c(row, col int) model.Coordinate {
	return model.Coordinate{Row: row, Column: col}
}

// Variant tests

func (s *EngineSuite) TestLoadVariants() {
	variants, err := LoadVariants()
	s.Require().NoError(err)

	s.Equal(11, variants["fetlar"].Size)
	s.Equal(7, variants["brandubh"].Size)
	s.Equal(model.SideAttacker, variants["fetlar"].First)
}

func (s *EngineSuite) TestLookupUnknownVariant() {
	_, err := LookupVariant("chess")
	s.ErrorIs(err, ErrUnknownVariant)
}

func (s *EngineSuite) TestNewGameStartsAtOpening() {
	snap := s.fetlar.Snapshot()
	s.Equal(model.SideAttacker, snap.SideToMove)
	s.Equal("aa.ddkdd.aa", snap.Board[5])
	s.Len(snap.Board, 11)
}

// Reachable tests

func (s *EngineSuite) TestReachableFromOpeningDefender() {
	got := s.fetlar.ReachableFrom(c(5, 7))
	s.Equal([]model.Coordinate{
		c(1, 7), c(2, 7), c(3, 7), c(4, 7),
		c(5, 8),
		c(6, 7), c(7, 7), c(8, 7), c(9, 7),
	}, got)
}

func (s *EngineSuite) TestReachableFromEmptySquareIsEmpty() {
	got := s.fetlar.ReachableFrom(c(2, 2))
	s.NotNil(got)
	s.Empty(got)
}

func (s *EngineSuite) TestReachableFromBlockedKingIsEmpty() {
	s.Empty(s.fetlar.ReachableFrom(c(5, 5)))
}

func (s *EngineSuite) TestReachablePassesOverEmptyThrone() {
	s.Require().NoError(s.brandubh.SetPosition(model.Snapshot{
		Board: []string{
			"...k...",
			".......",
			".......",
			"......a",
			".......",
			".......",
			".......",
		},
		SideToMove: model.SideAttacker,
	}))

	got := s.brandubh.ReachableFrom(c(3, 6))
	s.Contains(got, c(3, 2))
	s.NotContains(got, c(3, 3))
}

func (s *EngineSuite) TestOnlyKingMayStopOnCorner() {
	s.Require().NoError(s.brandubh.SetPosition(model.Snapshot{
		Board: []string{
			"..a....",
			".......",
			".......",
			".......",
			".......",
			".......",
			"..k....",
		},
		SideToMove: model.SideAttacker,
	}))

	s.NotContains(s.brandubh.ReachableFrom(c(0, 2)), c(0, 0))
	s.Contains(s.brandubh.ReachableFrom(c(6, 2)), c(6, 0))
}

// ApplyMove tests

func (s *EngineSuite) TestApplyMoveDefender() {
	opening := s.fetlar.Snapshot()
	opening.SideToMove = model.SideDefender
	s.Require().NoError(s.fetlar.SetPosition(opening))

	outcome, err := s.fetlar.ApplyMove(model.Move{From: c(5, 7), To: c(2, 7)})
	s.Require().NoError(err)
	s.Empty(outcome.Captured)
	s.Empty(outcome.Winner)

	snap := s.fetlar.Snapshot()
	s.Equal(".......d...", snap.Board[2])
	s.Equal("aa.ddkd..aa", snap.Board[5])
	s.Equal(model.SideAttacker, snap.SideToMove)
}

func (s *EngineSuite) TestApplyMoveRejectsOpponentPiece() {
	before := s.fetlar.Snapshot()

	_, err := s.fetlar.ApplyMove(model.Move{From: c(5, 7), To: c(2, 7)})
	s.ErrorIs(err, engine.ErrIllegalMove)
	s.Equal(before, s.fetlar.Snapshot())
}

func (s *EngineSuite) TestApplyMoveRejectsBlockedPath() {
	before := s.fetlar.Snapshot()

	_, err := s.fetlar.ApplyMove(model.Move{From: c(0, 3), To: c(0, 0)})
	s.ErrorIs(err, engine.ErrIllegalMove)
	_, err = s.fetlar.ApplyMove(model.Move{From: c(0, 5), To: c(2, 5)})
	s.ErrorIs(err, engine.ErrIllegalMove)
	s.Equal(before, s.fetlar.Snapshot())
}

func (s *EngineSuite) TestApplyMoveRejectsEmptySquare() {
	_, err := s.fetlar.ApplyMove(model.Move{From: c(2, 2), To: c(2, 3)})
	s.ErrorIs(err, engine.ErrIllegalMove)
}

func (s *EngineSuite) TestCustodialCapture() {
	s.Require().NoError(s.brandubh.SetPosition(model.Snapshot{
		Board: []string{
			".......",
			".a.....",
			".d.....",
			"a..k...",
			".......",
			".......",
			".......",
		},
		SideToMove: model.SideAttacker,
	}))

	outcome, err := s.brandubh.ApplyMove(model.Move{From: c(3, 0), To: c(3, 1)})
	s.Require().NoError(err)
	s.Equal([]model.Coordinate{c(2, 1)}, outcome.Captured)
	s.Empty(outcome.Winner)

	snap := s.brandubh.Snapshot()
	s.Equal(".......", snap.Board[2])
	s.Equal(".a.k...", snap.Board[3])
	s.Equal(model.SideDefender, snap.SideToMove)
}

func (s *EngineSuite) TestKingCapturedOnFourSides() {
	s.Require().NoError(s.brandubh.SetPosition(model.Snapshot{
		Board: []string{
			".......",
			"..a....",
			".aka...",
			"......a",
			".......",
			".......",
			".......",
		},
		SideToMove: model.SideAttacker,
	}))

	outcome, err := s.brandubh.ApplyMove(model.Move{From: c(3, 6), To: c(3, 2)})
	s.Require().NoError(err)
	s.Contains(outcome.Captured, c(2, 2))
	s.Equal(model.SideAttacker, outcome.Winner)
}

func (s *EngineSuite) TestKingEscapesToCorner() {
	s.Require().NoError(s.brandubh.SetPosition(model.Snapshot{
		Board: []string{
			"...a...",
			".......",
			".......",
			".......",
			".......",
			".......",
			"...k...",
		},
		SideToMove: model.SideDefender,
	}))

	outcome, err := s.brandubh.ApplyMove(model.Move{From: c(6, 3), To: c(6, 0)})
	s.Require().NoError(err)
	s.Equal(model.SideDefender, outcome.Winner)

	_, err = s.brandubh.ApplyMove(model.Move{From: c(0, 3), To: c(0, 4)})
	s.ErrorIs(err, engine.ErrIllegalMove)
}

// SetPosition tests

func (s *EngineSuite) TestSetPositionRejectsWrongSize() {
	err := s.fetlar.SetPosition(model.Snapshot{Board: []string{"..."}, SideToMove: model.SideAttacker})
	s.Error(err)
}

func (s *EngineSuite) TestSetPositionRejectsUnknownSymbol() {
	snap := s.brandubh.Snapshot()
	snap.Board[0] = "...x..."
	s.Error(s.brandubh.SetPosition(snap))
}

// Search tests

func (s *EngineSuite) TestSuggestMoveIsLegalForSideToMove() {
	move, err := s.fetlar.SuggestMove(context.Background())
	s.Require().NoError(err)

	snap := s.fetlar.Snapshot()
	side, ok := snap.PieceAt(move.From).Side()
	s.True(ok)
	s.Equal(model.SideAttacker, side)
	s.Contains(s.fetlar.ReachableFrom(move.From), move.To)
}

func (s *EngineSuite) TestSuggestMoveIsDeterministic() {
	first, err := s.fetlar.SuggestMove(context.Background())
	s.Require().NoError(err)
	second, err := s.fetlar.SuggestMove(context.Background())
	s.Require().NoError(err)
	s.Equal(first, second)
}

func (s *EngineSuite) TestSuggestMoveTakesWinningEscape() {
	s.Require().NoError(s.brandubh.SetPosition(model.Snapshot{
		Board: []string{
			"...a...",
			".......",
			".......",
			".......",
			".......",
			".......",
			"...k...",
		},
		SideToMove: model.SideDefender,
	}))

	move, err := s.brandubh.SuggestMove(context.Background())
	s.Require().NoError(err)
	s.Equal(c(6, 3), move.From)
	s.Contains([]model.Coordinate{c(6, 0), c(6, 6)}, move.To)
}

func (s *EngineSuite) TestSuggestMoveHonoursCancellation() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.fetlar.SuggestMove(ctx)
	s.ErrorIs(err, context.Canceled)
}

func (s *EngineSuite) TestSuggestMoveWithDepthTwo() {
	variant, err := LookupVariant("brandubh")
	s.Require().NoError(err)
	e := New(variant, WithSearchDepth(2))

	move, err := e.SuggestMove(context.Background())
	s.Require().NoError(err)
	s.Contains(e.ReachableFrom(move.From), move.To)
}

// Evaluate tests

func (s *EngineSuite) TestEvaluateOpening() {
	// Material is balanced; the king sits ten squares from the nearest corner
	s.Equal(50, s.fetlar.Evaluate())
}

func (s *EngineSuite) TestEvaluateDecidedPosition() {
	s.Require().NoError(s.brandubh.SetPosition(model.Snapshot{
		Board: []string{
			"k......",
			".......",
			".......",
			".......",
			".......",
			".......",
			"...a...",
		},
		SideToMove: model.SideAttacker,
	}))
	s.Equal(-decisiveScore, s.brandubh.Evaluate())
}
