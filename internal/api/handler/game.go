package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/taflgame/internal/api/request"
	"github.com/mcoot/taflgame/internal/api/response"
	"github.com/mcoot/taflgame/internal/codec"
	"github.com/mcoot/taflgame/internal/services/game"
)

// GameHandler handles gameplay endpoints. Every request may carry the
// client's position, which replaces the server's before the action runs.
type GameHandler struct {
	coordinator *game.Coordinator
	logger      *slog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(coordinator *game.Coordinator, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// GetState handles GET /api/v1/game/state
func (h *GameHandler) GetState(w http.ResponseWriter, r *http.Request) {
	result, err := h.coordinator.State(r.Context(), sessionToken(r))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateResponseFromResult(result))
}

// PutState handles PUT /api/v1/game/state
func (h *GameHandler) PutState(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateStateRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	if req.State == nil {
		writeError(h.logger, w, r, &codec.ParseError{Field: "state", Reason: "missing"})
		return
	}

	state, err := codec.ParseSnapshot("state", req.State, h.coordinator.BoardSize())
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	snap, err := h.coordinator.UpdateState(r.Context(), sessionToken(r), state)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StateFromSnapshot(snap))
}

// Reachable handles POST /api/v1/game/reachable
func (h *GameHandler) Reachable(w http.ResponseWriter, r *http.Request) {
	var req request.ReachableRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	size := h.coordinator.BoardSize()
	state, err := codec.ParseSnapshot("state", req.State, size)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	from, err := codec.ParseCoordinate("location", req.Location, size)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	positions, err := h.coordinator.ReachablePositions(r.Context(), sessionToken(r), state, from)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ReachableResponse{
		Positions: response.LocationsFromModel(positions),
	})
}

// Move handles POST /api/v1/game/move
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req request.MoveRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	size := h.coordinator.BoardSize()
	state, err := codec.ParseSnapshot("state", req.State, size)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	move, err := codec.ParseMove(req.From, req.To, size)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	result, err := h.coordinator.MakeMove(r.Context(), sessionToken(r), state, move)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MoveResponseFromResult(result))
}

// Hint handles POST /api/v1/game/hint
func (h *GameHandler) Hint(w http.ResponseWriter, r *http.Request) {
	var req request.PositionRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	state, err := codec.ParseSnapshot("state", req.State, h.coordinator.BoardSize())
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	move, err := h.coordinator.Hint(r.Context(), sessionToken(r), state)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HintResponse{Hint: response.MoveFromModel(move)})
}

// Score handles POST /api/v1/game/score
func (h *GameHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req request.PositionRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	state, err := codec.ParseSnapshot("state", req.State, h.coordinator.BoardSize())
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	score, err := h.coordinator.Score(r.Context(), sessionToken(r), state)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ScoreResponse{Score: score})
}

// History handles GET /api/v1/game/history
func (h *GameHandler) History(w http.ResponseWriter, r *http.Request) {
	result, err := h.coordinator.History(r.Context(), sessionToken(r))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HistoryResponseFromResult(result))
}
