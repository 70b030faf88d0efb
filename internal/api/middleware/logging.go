package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/taflgame/internal/middleware"
)

// RequestIDHeader is the header the request ID is echoed in
const RequestIDHeader = middleware.RequestIDHeader

// Logging creates request logging middleware for the API
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}
