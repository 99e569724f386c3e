package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recoverer is the last-resort net: a panic becomes a generic 500 envelope.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				if logger != nil {
					logger.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())))
				}
				Write(w, Failure(http.StatusInternalServerError, "An unexpected error occurred", nil))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// NotFound answers unknown routes with an envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Write(w, Failure(http.StatusNotFound, "Route not found", nil))
}

// MethodNotAllowed answers known routes called with the wrong verb.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Write(w, Failure(http.StatusMethodNotAllowed, "Method not allowed", nil))
}
