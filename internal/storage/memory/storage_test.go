package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/taflgame/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) saveGame(id model.GameID) *model.Game {
	game := &model.Game{
		ID:        id,
		Variant:   "brandubh",
		BoardSize: 7,
		Status:    model.GameStatusInProgress,
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))
	return game
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGame() {
	game := s.saveGame("g1")

	got, err := s.storage.GetGame(s.ctx, "g1")
	s.Require().NoError(err)
	s.Equal(game, got)
}

func (s *StorageSuite) TestGetGameReturnsCopy() {
	s.saveGame("g1")

	got, err := s.storage.GetGame(s.ctx, "g1")
	s.Require().NoError(err)
	got.Status = model.GameStatusFinished

	again, err := s.storage.GetGame(s.ctx, "g1")
	s.Require().NoError(err)
	s.Equal(model.GameStatusInProgress, again.Status)
}

func (s *StorageSuite) TestGetMissingGame() {
	_, err := s.storage.GetGame(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGameRemovesHistory() {
	s.saveGame("g1")
	s.Require().NoError(s.storage.AppendHistory(s.ctx, "g1", &model.HistoryEntry{Ply: 0}))

	s.Require().NoError(s.storage.DeleteGame(s.ctx, "g1"))

	_, err := s.storage.GetHistory(s.ctx, "g1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// History tests

func (s *StorageSuite) TestHistoryKeepsOrder() {
	s.saveGame("g1")
	move := model.Move{From: model.Coordinate{Row: 0, Column: 3}, To: model.Coordinate{Row: 0, Column: 1}}
	s.Require().NoError(s.storage.AppendHistory(s.ctx, "g1", &model.HistoryEntry{
		Ply:      0,
		Snapshot: model.Snapshot{Board: []string{"..."}, SideToMove: model.SideAttacker},
	}))
	s.Require().NoError(s.storage.AppendHistory(s.ctx, "g1", &model.HistoryEntry{
		Ply:      1,
		Snapshot: model.Snapshot{Board: []string{"a.."}, SideToMove: model.SideDefender},
		Move:     &move,
	}))

	history, err := s.storage.GetHistory(s.ctx, "g1")
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal(0, history[0].Ply)
	s.Nil(history[0].Move)
	s.Equal(1, history[1].Ply)
	s.Equal(move, *history[1].Move)
}

func (s *StorageSuite) TestAppendHistoryForUnknownGame() {
	err := s.storage.AppendHistory(s.ctx, "missing", &model.HistoryEntry{})
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestHistoryOfNewGameIsEmpty() {
	s.saveGame("g1")

	history, err := s.storage.GetHistory(s.ctx, "g1")
	s.Require().NoError(err)
	s.Empty(history)
}
