package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/buildtrack/buildtrack/internal/shared"
)

// FromError translates any error into the failure envelope for its kind.
// Internal errors never expose the wrapped cause to the client.
func FromError(err error) Envelope {
	var e *shared.Error
	if !errors.As(err, &e) {
		return Failure(http.StatusInternalServerError, "An unexpected error occurred", nil)
	}
	message := e.Message
	if message == "" {
		message = http.StatusText(e.Kind.StatusCode())
	}
	return Failure(e.Kind.StatusCode(), message, nil)
}

// RespondError logs internal failures and writes the translated envelope.
func RespondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	env := FromError(err)
	if env.StatusCode >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
	Write(w, env)
}

// Respond writes data on success or the translated error otherwise.
func Respond(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, message string, data any, err error) {
	if err != nil {
		RespondError(w, r, logger, err)
		return
	}
	Write(w, Success(status, message, data))
}
