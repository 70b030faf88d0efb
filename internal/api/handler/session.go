package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/taflgame/internal/api/middleware"
	"github.com/mcoot/taflgame/internal/api/response"
	"github.com/mcoot/taflgame/internal/services/game"
)

// SecretHeader carries the shared game secret on game creation
const SecretHeader = "X-Game-Secret"

// SessionHandler handles game creation and session teardown
type SessionHandler struct {
	coordinator *game.Coordinator
	logger      *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(coordinator *game.Coordinator, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// Create handles POST /api/v1/games
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	result, err := h.coordinator.NewGame(r.Context(), r.Header.Get(SecretHeader))
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.NewGameResponseFromResult(result))
}

// End handles DELETE /api/v1/session
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.GetSession(r.Context()); sess != nil {
		h.logger.Debug("ending session", slog.String("game_id", string(sess.GameID)))
	}
	if err := h.coordinator.EndGame(r.Context(), sessionToken(r)); err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	response.NoContent(w)
}

// sessionToken returns the token the auth middleware accepted. The
// coordinator checks it again once it holds the engine.
func sessionToken(r *http.Request) string {
	if sess := middleware.GetSession(r.Context()); sess != nil {
		return sess.Token
	}
	return ""
}
