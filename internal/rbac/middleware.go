package rbac

import (
	"log/slog"
	"net/http"

	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/platform/httpx"
	"github.com/buildtrack/buildtrack/internal/shared"
)

// Middleware wires role gates for HTTP handlers.
type Middleware struct {
	Logger *slog.Logger
}

// RequireRoles rejects requests whose identity is missing or whose role is
// outside set. It must run after auth.Authenticate.
func (m Middleware) RequireRoles(set RoleSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFromContext(r.Context())
			if !ok || !set.Allows(id.Role) {
				if m.Logger != nil {
					m.Logger.Warn("role gate rejected request",
						slog.String("gate", set.Name()),
						slog.String("role", string(id.Role)),
						slog.String("path", r.URL.Path))
				}
				httpx.Write(w, httpx.FromError(&shared.Error{Kind: shared.KindUnauthorized, Message: "Unauthorized"}))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
