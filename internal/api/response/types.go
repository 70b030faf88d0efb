package response

import (
	"time"

	"github.com/mcoot/taflgame/internal/model"
	"github.com/mcoot/taflgame/internal/services/game"
)

// State is a serialized position
type State struct {
	Board      []string   `json:"board"`
	SideToMove model.Side `json:"sideToMove"`
}

// StateFromSnapshot converts a model.Snapshot
func StateFromSnapshot(s model.Snapshot) State {
	board := s.Board
	if board == nil {
		board = []string{}
	}
	return State{Board: board, SideToMove: s.SideToMove}
}

// Location is a board square
type Location struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// LocationFromModel converts a model.Coordinate
func LocationFromModel(c model.Coordinate) Location {
	return Location{Row: c.Row, Column: c.Column}
}

// LocationsFromModel converts a list of coordinates, never returning nil
func LocationsFromModel(cs []model.Coordinate) []Location {
	out := make([]Location, len(cs))
	for i, c := range cs {
		out[i] = LocationFromModel(c)
	}
	return out
}

// Move is a from/to pair
type Move struct {
	From Location `json:"from"`
	To   Location `json:"to"`
}

// MoveFromModel converts a model.Move
func MoveFromModel(m model.Move) Move {
	return Move{From: LocationFromModel(m.From), To: LocationFromModel(m.To)}
}

// NewGameResponse is the response for creating a game
type NewGameResponse struct {
	Token     string     `json:"token"`
	GameID    string     `json:"gameId"`
	BoardSize int        `json:"boardSize"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	State
}

// NewGameResponseFromResult creates a NewGameResponse
func NewGameResponseFromResult(r *game.NewGameResult) NewGameResponse {
	resp := NewGameResponse{
		Token:     r.Session.Token,
		GameID:    string(r.Game.ID),
		BoardSize: r.Game.BoardSize,
		State:     StateFromSnapshot(r.Snapshot),
	}
	if !r.Session.ExpiresAt.IsZero() {
		expires := r.Session.ExpiresAt
		resp.ExpiresAt = &expires
	}
	return resp
}

// ReachableResponse lists the squares a piece can move to
type ReachableResponse struct {
	Positions []Location `json:"positions"`
}

// MoveResponse is the position after a move
type MoveResponse struct {
	State
	Captured []Location `json:"captured"`
	Winner   model.Side `json:"winner,omitempty"`
}

// MoveResponseFromResult creates a MoveResponse
func MoveResponseFromResult(r *game.MoveResult) MoveResponse {
	return MoveResponse{
		State:    StateFromSnapshot(r.Snapshot),
		Captured: LocationsFromModel(r.Captured),
		Winner:   r.Winner,
	}
}

// HintResponse carries a suggested move
type HintResponse struct {
	Hint Move `json:"hint"`
}

// ScoreResponse carries a position evaluation
type ScoreResponse struct {
	Score int `json:"score"`
}

// GameStateResponse is the server position with the game's progress
type GameStateResponse struct {
	State
	Status model.GameStatus `json:"status"`
	Winner model.Side       `json:"winner,omitempty"`
}

// GameStateResponseFromResult creates a GameStateResponse
func GameStateResponseFromResult(r *game.StateResult) GameStateResponse {
	return GameStateResponse{
		State:  StateFromSnapshot(r.Snapshot),
		Status: r.Status,
		Winner: r.Winner,
	}
}

// HistoryEntry is one executed position
type HistoryEntry struct {
	Ply        int        `json:"ply"`
	Board      []string   `json:"board"`
	SideToMove model.Side `json:"sideToMove"`
	Move       *Move      `json:"move,omitempty"`
	RecordedAt time.Time  `json:"recordedAt"`
}

// HistoryResponse lists executed positions, oldest first, with the recorded
// game's progress
type HistoryResponse struct {
	GameID  string           `json:"gameId"`
	Status  model.GameStatus `json:"status"`
	Winner  model.Side       `json:"winner,omitempty"`
	History []HistoryEntry   `json:"history"`
}

// HistoryResponseFromResult creates a HistoryResponse
func HistoryResponseFromResult(r *game.HistoryResult) HistoryResponse {
	entries := r.Entries
	out := make([]HistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = HistoryEntry{
			Ply:        e.Ply,
			Board:      e.Snapshot.Board,
			SideToMove: e.Snapshot.SideToMove,
			RecordedAt: e.RecordedAt,
		}
		if e.Move != nil {
			m := MoveFromModel(*e.Move)
			out[i].Move = &m
		}
	}
	return HistoryResponse{
		GameID:  string(r.Game.ID),
		Status:  r.Game.Status,
		Winner:  r.Game.Winner,
		History: out,
	}
}

// HealthResponse is the response for the health check
type HealthResponse struct {
	Status string `json:"status"`
}
