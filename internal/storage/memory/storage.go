package memory

import (
	"context"
	"sync"

	"github.com/mcoot/taflgame/internal/model"
	"github.com/mcoot/taflgame/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	games   map[model.GameID]*model.Game
	history map[model.GameID][]*model.HistoryEntry
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games:   make(map[model.GameID]*model.Game),
		history: make(map[model.GameID][]*model.HistoryEntry),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *game
	s.games[game.ID] = &copied
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	copied := *game
	return &copied, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	delete(s.history, id)
	return nil
}

// History operations

func (s *Storage) AppendHistory(ctx context.Context, id model.GameID, entry *model.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return model.ErrGameNotFound
	}
	s.history[id] = append(s.history[id], cloneEntry(entry))
	return nil
}

func (s *Storage) GetHistory(ctx context.Context, id model.GameID) ([]*model.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.games[id]; !ok {
		return nil, model.ErrGameNotFound
	}
	entries := s.history[id]
	result := make([]*model.HistoryEntry, len(entries))
	for i, e := range entries {
		result[i] = cloneEntry(e)
	}
	return result, nil
}

func cloneEntry(e *model.HistoryEntry) *model.HistoryEntry {
	copied := *e
	copied.Snapshot = e.Snapshot.Clone()
	if e.Move != nil {
		m := *e.Move
		copied.Move = &m
	}
	return &copied
}
