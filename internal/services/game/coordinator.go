package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/taflgame/internal/codec"
	"github.com/mcoot/taflgame/internal/dependencies/clock"
	"github.com/mcoot/taflgame/internal/engine"
	"github.com/mcoot/taflgame/internal/model"
	"github.com/mcoot/taflgame/internal/services/session"
	"github.com/mcoot/taflgame/internal/storage"
)

// Config holds configuration for the Coordinator
type Config struct {
	Variant     string
	HintTimeout time.Duration
}

// DefaultConfig returns default coordinator configuration
func DefaultConfig() Config {
	return Config{
		Variant:     "fetlar",
		HintTimeout: 2 * time.Second,
	}
}

// NewGameResult is returned by NewGame
type NewGameResult struct {
	Session  *session.Session
	Game     *model.Game
	Snapshot model.Snapshot
}

// MoveResult is returned by a successful MakeMove
type MoveResult struct {
	Snapshot model.Snapshot
	Captured []model.Coordinate
	Winner   model.Side
}

// StateResult is the position the server holds together with the game's
// progress
type StateResult struct {
	Snapshot model.Snapshot
	Status   model.GameStatus
	Winner   model.Side
}

// HistoryResult is the recorded game and its executed positions, oldest first
type HistoryResult struct {
	Game    *model.Game
	Entries []*model.HistoryEntry
}

// Coordinator owns the rules engine and serializes every reconcile+act pair
// against it. There is exactly one game per Coordinator. Every operation
// after NewGame takes the caller's token and checks it under the lock, so a
// token superseded while its request was in flight never reaches the engine.
type Coordinator struct {
	engine   engine.Engine
	sessions *session.Manager
	storage  storage.Storage
	clock    clock.Clock
	logger   *slog.Logger
	cfg      Config
	newID    func() string

	mu   sync.Mutex
	game *model.Game
	ply  int
}

// NewCoordinator creates a new Coordinator
func NewCoordinator(
	e engine.Engine,
	sessions *session.Manager,
	storage storage.Storage,
	clock clock.Clock,
	logger *slog.Logger,
	cfg Config,
) *Coordinator {
	if cfg.HintTimeout <= 0 {
		cfg.HintTimeout = DefaultConfig().HintTimeout
	}
	return &Coordinator{
		engine:   e,
		sessions: sessions,
		storage:  storage,
		clock:    clock,
		logger:   logger,
		cfg:      cfg,
		newID:    uuid.NewString,
	}
}

// BoardSize returns the dimension of the board the engine plays on
func (c *Coordinator) BoardSize() int {
	return c.engine.Size()
}

// NewGame checks the secret, issues a fresh token and resets the engine to
// the opening. A wrong secret leaves the engine and any existing session as
// they were.
func (c *Coordinator) NewGame(ctx context.Context, secret string) (*NewGameResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	gameID := model.GameID(c.newID())
	sess, err := c.sessions.Create(ctx, secret, gameID)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			c.logger.Warn("game creation refused", slog.String("reason", "invalid credentials"))
		}
		return nil, err
	}

	c.engine.NewGame()
	snap := codec.SerializeBoard(c.engine)
	now := c.clock.Now()

	if c.game != nil {
		c.logger.Info("game replaced", slog.String("game_id", string(c.game.ID)))
		if err := c.storage.DeleteGame(ctx, c.game.ID); err != nil {
			c.logger.Error("failed to delete replaced game",
				slog.String("game_id", string(c.game.ID)),
				slog.String("error", err.Error()),
			)
		}
	}
	c.game = &model.Game{
		ID:        gameID,
		Variant:   c.cfg.Variant,
		BoardSize: c.engine.Size(),
		Status:    model.GameStatusInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.ply = 0

	c.saveGame(ctx)
	c.record(ctx, snap, nil)

	c.logger.Info("game created",
		slog.String("game_id", string(gameID)),
		slog.String("variant", c.cfg.Variant),
		slog.Int("board_size", c.game.BoardSize),
	)

	game := *c.game
	return &NewGameResult{Session: sess, Game: &game, Snapshot: snap}, nil
}

// ReachablePositions lists where the piece on from may move, sorted
// row-major. An empty square or a blocked piece yields an empty list.
func (c *Coordinator) ReachablePositions(ctx context.Context, token string, state *model.Snapshot, from model.Coordinate) ([]model.Coordinate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.sync(ctx, token, state); err != nil {
		return nil, err
	}

	positions := c.engine.ReachableFrom(from)
	if positions == nil {
		positions = []model.Coordinate{}
	}
	return positions, nil
}

// MakeMove plays a move for the side to move. A move the rules reject
// returns an *IllegalMoveError and leaves the position unchanged.
func (c *Coordinator) MakeMove(ctx context.Context, token string, state *model.Snapshot, move model.Move) (*MoveResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.sync(ctx, token, state); err != nil {
		return nil, err
	}

	before := codec.SerializeBoard(c.engine)
	outcome, err := c.engine.ApplyMove(move)
	if err != nil {
		if !errors.Is(err, engine.ErrIllegalMove) {
			c.logger.Error("engine failed to apply move",
				slog.String("game_id", string(c.game.ID)),
				slog.String("move", move.String()),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("%w: apply move: %v", model.ErrEngineFault, err)
		}
		if after := codec.SerializeBoard(c.engine); !after.Equal(before) {
			if rerr := c.engine.SetPosition(before); rerr != nil {
				return nil, fmt.Errorf("%w: restore position: %v", model.ErrEngineFault, rerr)
			}
		}
		c.logger.Warn("illegal move",
			slog.String("game_id", string(c.game.ID)),
			slog.String("move", move.String()),
			slog.String("side", string(before.SideToMove)),
			slog.String("reason", err.Error()),
		)
		return nil, &IllegalMoveError{Move: move, State: before, Cause: err}
	}

	after := codec.SerializeBoard(c.engine)
	c.record(ctx, after, &move)

	if outcome.Winner != "" {
		c.game.Status = model.GameStatusFinished
		c.game.Winner = outcome.Winner
		c.logger.Info("game finished",
			slog.String("game_id", string(c.game.ID)),
			slog.String("winner", string(outcome.Winner)),
		)
	}
	c.game.UpdatedAt = c.clock.Now()
	c.saveGame(ctx)

	c.logger.Debug("move applied",
		slog.String("game_id", string(c.game.ID)),
		slog.String("move", move.String()),
		slog.Int("captured", len(outcome.Captured)),
	)

	captured := outcome.Captured
	if captured == nil {
		captured = []model.Coordinate{}
	}
	return &MoveResult{Snapshot: after, Captured: captured, Winner: outcome.Winner}, nil
}

// Hint asks the engine for a move for the side to move. The search is
// bounded by the configured hint timeout.
func (c *Coordinator) Hint(ctx context.Context, token string, state *model.Snapshot) (model.Move, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.sync(ctx, token, state); err != nil {
		return model.Move{}, err
	}

	searchCtx, cancel := context.WithTimeout(ctx, c.cfg.HintTimeout)
	defer cancel()

	start := c.clock.Now()
	move, err := c.engine.SuggestMove(searchCtx)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrNoLegalMoves):
		return model.Move{}, err
	case errors.Is(err, context.DeadlineExceeded):
		c.logger.Error("hint search timed out",
			slog.String("game_id", string(c.game.ID)),
			slog.Duration("timeout", c.cfg.HintTimeout),
		)
		return model.Move{}, fmt.Errorf("%w: %w", model.ErrEngineFault, model.ErrEngineTimeout)
	case errors.Is(err, context.Canceled):
		return model.Move{}, err
	default:
		c.logger.Error("hint search failed",
			slog.String("game_id", string(c.game.ID)),
			slog.String("error", err.Error()),
		)
		return model.Move{}, fmt.Errorf("%w: suggest move: %v", model.ErrEngineFault, err)
	}

	c.logger.Debug("hint computed",
		slog.String("game_id", string(c.game.ID)),
		slog.String("move", move.String()),
		slog.Duration("elapsed", c.clock.Now().Sub(start)),
	)
	return move, nil
}

// Score evaluates the position. Positive values favour the attackers.
func (c *Coordinator) Score(ctx context.Context, token string, state *model.Snapshot) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.sync(ctx, token, state); err != nil {
		return 0, err
	}
	return c.engine.Evaluate(), nil
}

// UpdateState replaces the server position with the client's
func (c *Coordinator) UpdateState(ctx context.Context, token string, state *model.Snapshot) (model.Snapshot, error) {
	if state == nil {
		return model.Snapshot{}, model.ErrStateRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.sync(ctx, token, state); err != nil {
		return model.Snapshot{}, err
	}
	return codec.SerializeBoard(c.engine), nil
}

// State returns the position the server currently holds and whether the
// game has been won
func (c *Coordinator) State(ctx context.Context, token string) (*StateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.authorize(token); err != nil {
		return nil, err
	}
	return &StateResult{
		Snapshot: codec.SerializeBoard(c.engine),
		Status:   c.game.Status,
		Winner:   c.game.Winner,
	}, nil
}

// History returns the stored game record and every position the server
// executed for it, oldest first. When the record cannot be read back the
// live game is reported instead.
func (c *Coordinator) History(ctx context.Context, token string) (*HistoryResult, error) {
	c.mu.Lock()
	if err := c.authorize(token); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	live := *c.game
	c.mu.Unlock()

	entries, err := c.storage.GetHistory(ctx, live.ID)
	if err != nil {
		return nil, err
	}

	game, err := c.storage.GetGame(ctx, live.ID)
	if err != nil {
		c.logger.Warn("game record unavailable",
			slog.String("game_id", string(live.ID)),
			slog.String("error", err.Error()),
		)
		game = &live
	}
	return &HistoryResult{Game: game, Entries: entries}, nil
}

// EndGame revokes the session held by token. The engine keeps its position
// until the next NewGame.
func (c *Coordinator) EndGame(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.authorize(token); err != nil {
		return err
	}
	if err := c.sessions.Revoke(token); err != nil {
		return err
	}
	c.logger.Info("session ended", slog.String("game_id", string(c.game.ID)))
	return nil
}

// authorize checks token against the live session and game.
// Must be called with mu held.
func (c *Coordinator) authorize(token string) error {
	if c.game == nil {
		return model.ErrNoActiveGame
	}
	sess, err := c.sessions.Authenticate(token)
	if err != nil {
		return err
	}
	if sess.GameID != c.game.ID {
		return session.ErrInvalidSession
	}
	return nil
}

// sync authorizes the caller and reconciles the engine with a client
// snapshot, if one was sent. Must be called with mu held.
func (c *Coordinator) sync(ctx context.Context, token string, state *model.Snapshot) error {
	if err := c.authorize(token); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if state == nil {
		return nil
	}

	current := codec.SerializeBoard(c.engine)
	if err := Reconcile(c.engine, *state); err != nil {
		return err
	}
	if !current.Equal(*state) {
		c.logger.Debug("position reconciled from client",
			slog.String("game_id", string(c.game.ID)),
			slog.String("side", string(state.SideToMove)),
		)
		c.record(ctx, state.Clone(), nil)
	}
	return nil
}

// record appends a history entry. History is an audit trail; failures are
// logged and do not fail the request.
func (c *Coordinator) record(ctx context.Context, snap model.Snapshot, move *model.Move) {
	entry := &model.HistoryEntry{
		Ply:        c.ply,
		Snapshot:   snap,
		Move:       move,
		RecordedAt: c.clock.Now(),
	}
	c.ply++
	if err := c.storage.AppendHistory(ctx, c.game.ID, entry); err != nil {
		c.logger.Error("failed to record history",
			slog.String("game_id", string(c.game.ID)),
			slog.Int("ply", entry.Ply),
			slog.String("error", err.Error()),
		)
	}
}

func (c *Coordinator) saveGame(ctx context.Context) {
	if err := c.storage.SaveGame(ctx, c.game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(c.game.ID)),
			slog.String("error", err.Error()),
		)
	}
}
