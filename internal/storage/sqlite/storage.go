// Package sqlite provides a SQLite-backed storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/taflgame/internal/model"
	"github.com/mcoot/taflgame/internal/storage"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

//go:embed schema.sql
var schema string

// Storage persists games and their history in SQLite
type Storage struct {
	db *sql.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// Open opens (creating if needed) the database at path and applies the schema
func Open(path string) (*Storage, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("storage path is required")
	}
	if path != MemoryPath {
		path = filepath.Clean(path)
	}
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the SQLite handle
func (s *Storage) Close() error {
	return s.db.Close()
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, variant, board_size, status, winner, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   variant = excluded.variant,
		   board_size = excluded.board_size,
		   status = excluded.status,
		   winner = excluded.winner,
		   updated_at = excluded.updated_at`,
		string(game.ID),
		game.Variant,
		game.BoardSize,
		string(game.Status),
		string(game.Winner),
		toMillis(game.CreatedAt),
		toMillis(game.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save game %s: %w", game.ID, err)
	}
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, variant, board_size, status, winner, created_at, updated_at
		 FROM games WHERE id = ?`,
		string(id),
	)

	var (
		game               model.Game
		gameID, status     string
		winner             string
		createdAt, updated int64
	)
	if err := row.Scan(&gameID, &game.Variant, &game.BoardSize, &status, &winner, &createdAt, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrGameNotFound
		}
		return nil, fmt.Errorf("get game %s: %w", id, err)
	}
	game.ID = model.GameID(gameID)
	game.Status = model.GameStatus(status)
	game.Winner = model.Side(winner)
	game.CreatedAt = fromMillis(createdAt)
	game.UpdatedAt = fromMillis(updated)
	return &game, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	// history rows go with the game via ON DELETE CASCADE
	if _, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	return nil
}

// History operations

func (s *Storage) AppendHistory(ctx context.Context, id model.GameID, entry *model.HistoryEntry) error {
	if err := s.requireGame(ctx, id); err != nil {
		return err
	}

	board, err := json.Marshal(entry.Snapshot.Board)
	if err != nil {
		return err
	}

	var fromRow, fromCol, toRow, toCol sql.NullInt64
	if entry.Move != nil {
		fromRow = sql.NullInt64{Int64: int64(entry.Move.From.Row), Valid: true}
		fromCol = sql.NullInt64{Int64: int64(entry.Move.From.Column), Valid: true}
		toRow = sql.NullInt64{Int64: int64(entry.Move.To.Row), Valid: true}
		toCol = sql.NullInt64{Int64: int64(entry.Move.To.Column), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO history (game_id, ply, board, side_to_move, from_row, from_col, to_row, to_col, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(id),
		entry.Ply,
		string(board),
		string(entry.Snapshot.SideToMove),
		fromRow, fromCol, toRow, toCol,
		toMillis(entry.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("append history for %s: %w", id, err)
	}
	return nil
}

func (s *Storage) GetHistory(ctx context.Context, id model.GameID) ([]*model.HistoryEntry, error) {
	if err := s.requireGame(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT ply, board, side_to_move, from_row, from_col, to_row, to_col, recorded_at
		 FROM history WHERE game_id = ? ORDER BY seq`,
		string(id),
	)
	if err != nil {
		return nil, fmt.Errorf("get history for %s: %w", id, err)
	}
	defer rows.Close()

	entries := []*model.HistoryEntry{}
	for rows.Next() {
		var (
			entry                          model.HistoryEntry
			board, side                    string
			fromRow, fromCol, toRow, toCol sql.NullInt64
			recordedAt                     int64
		)
		if err := rows.Scan(&entry.Ply, &board, &side, &fromRow, &fromCol, &toRow, &toCol, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if err := json.Unmarshal([]byte(board), &entry.Snapshot.Board); err != nil {
			return nil, fmt.Errorf("decode history board: %w", err)
		}
		entry.Snapshot.SideToMove = model.Side(side)
		if fromRow.Valid && fromCol.Valid && toRow.Valid && toCol.Valid {
			entry.Move = &model.Move{
				From: model.Coordinate{Row: int(fromRow.Int64), Column: int(fromCol.Int64)},
				To:   model.Coordinate{Row: int(toRow.Int64), Column: int(toCol.Int64)},
			}
		}
		entry.RecordedAt = fromMillis(recordedAt)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Storage) requireGame(ctx context.Context, id model.GameID) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM games WHERE id = ?`, string(id)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrGameNotFound
	}
	return err
}
