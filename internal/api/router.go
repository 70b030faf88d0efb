package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/mcoot/taflgame/internal/api/handler"
	"github.com/mcoot/taflgame/internal/api/middleware"
	"github.com/mcoot/taflgame/internal/api/response"
	"github.com/mcoot/taflgame/internal/services/game"
	"github.com/mcoot/taflgame/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Sessions    *session.Manager
	Coordinator *game.Coordinator

	// CreateLimiter throttles game creation. Nil disables throttling.
	CreateLimiter *rate.Limiter
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.Coordinator, cfg.Logger)
	gameHandler := handler.NewGameHandler(cfg.Coordinator, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.Sessions)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	rateLimitMiddleware := middleware.RateLimit(cfg.CreateLimiter)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(loggingMiddleware)
	api.Use(recoveryMiddleware)

	// Game creation is gated by the shared secret, not a token
	api.Handle("/games", rateLimitMiddleware(http.HandlerFunc(sessionHandler.Create))).Methods(http.MethodPost)

	// Session routes
	sessions := api.PathPrefix("/session").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("", sessionHandler.End).Methods(http.MethodDelete)

	// Game routes (all require auth)
	games := api.PathPrefix("/game").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("/state", gameHandler.GetState).Methods(http.MethodGet)
	games.HandleFunc("/state", gameHandler.PutState).Methods(http.MethodPut)
	games.HandleFunc("/reachable", gameHandler.Reachable).Methods(http.MethodPost)
	games.HandleFunc("/move", gameHandler.Move).Methods(http.MethodPost)
	games.HandleFunc("/hint", gameHandler.Hint).Methods(http.MethodPost)
	games.HandleFunc("/score", gameHandler.Score).Methods(http.MethodPost)
	games.HandleFunc("/history", gameHandler.History).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}
