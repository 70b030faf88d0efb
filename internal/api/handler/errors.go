package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/taflgame/internal/api/apierr"
	"github.com/mcoot/taflgame/internal/middleware"
)

// writeError writes err and logs it when it maps to a server-side failure
func writeError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if apierr.Status(err) >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("request_id", middleware.RequestID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	apierr.WriteError(w, err)
}
