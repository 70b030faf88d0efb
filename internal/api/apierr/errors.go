package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/taflgame/internal/api/response"
	"github.com/mcoot/taflgame/internal/codec"
	"github.com/mcoot/taflgame/internal/model"
	"github.com/mcoot/taflgame/internal/services/game"
	"github.com/mcoot/taflgame/internal/services/session"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ErrorResponse wraps an APIError. State is set for illegal moves and holds
// the unchanged position.
type ErrorResponse struct {
	Error APIError        `json:"error"`
	State *response.State `json:"state,omitempty"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidPosition    = "INVALID_POSITION"
	CodeInvalidState       = "INVALID_STATE"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeIllegalMove        = "ILLEGAL_MOVE"
	CodeNoLegalMoves       = "NO_LEGAL_MOVES"
	CodeGameNotFound       = "GAME_NOT_FOUND"
	CodeRateLimited        = "RATE_LIMITED"
	CodeEngineFault        = "ENGINE_FAULT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an error body
type httpError struct {
	status int
	body   ErrorResponse
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.body.Error.Message
}

func newHTTPError(status int, code, message string) *httpError {
	return &httpError{status, ErrorResponse{Error: APIError{Code: code, Message: message}}}
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(he.body)
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var pe *codec.ParseError
	if errors.As(err, &pe) {
		code := CodeInvalidPosition
		switch {
		case pe.IsStateField():
			code = CodeInvalidState
		case pe.Field == "body":
			code = CodeInvalidRequest
		}
		e := newHTTPError(http.StatusBadRequest, code, pe.Error())
		e.body.Error.Field = pe.Field
		return e
	}

	var ie *game.IllegalMoveError
	if errors.As(err, &ie) {
		e := newHTTPError(http.StatusUnprocessableEntity, CodeIllegalMove, ie.Error())
		state := response.StateFromSnapshot(ie.State)
		e.body.State = &state
		return e
	}

	switch {
	// Map model errors
	case errors.Is(err, model.ErrStateRequired):
		e := newHTTPError(http.StatusBadRequest, CodeInvalidState, "state is required")
		e.body.Error.Field = "state"
		return e
	case errors.Is(err, model.ErrNoActiveGame), errors.Is(err, model.ErrGameNotFound):
		return newHTTPError(http.StatusNotFound, CodeGameNotFound, "No game has been created")
	case errors.Is(err, model.ErrNoLegalMoves):
		return newHTTPError(http.StatusConflict, CodeNoLegalMoves, "Side to move has no legal moves")
	case errors.Is(err, model.ErrEngineTimeout):
		return newHTTPError(http.StatusInternalServerError, CodeEngineFault, "Engine did not answer in time")
	case errors.Is(err, model.ErrEngineFault):
		return newHTTPError(http.StatusInternalServerError, CodeEngineFault, "Engine failure")

	// Map session errors
	case errors.Is(err, session.ErrInvalidCredentials):
		return newHTTPError(http.StatusUnauthorized, CodeInvalidCredentials, "Invalid game secret")
	case errors.Is(err, session.ErrInvalidSession):
		return newHTTPError(http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired session")

	default:
		return newHTTPError(http.StatusInternalServerError, CodeInternalError, "Internal server error")
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return newHTTPError(http.StatusUnauthorized, CodeUnauthorized, "Authentication required")
}

// NewRateLimitedError creates a too-many-requests error
func NewRateLimitedError() error {
	return newHTTPError(http.StatusTooManyRequests, CodeRateLimited, "Too many requests")
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return newHTTPError(http.StatusInternalServerError, CodeInternalError, "Internal server error")
}
