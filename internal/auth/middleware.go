package auth

import (
	"net/http"

	"github.com/buildtrack/buildtrack/internal/platform/httpx"
	"github.com/buildtrack/buildtrack/internal/shared"
)

// Verifier decodes a token into an identity.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// Authenticate returns the authentication gate: it reads the token cookie,
// verifies it and attaches the identity to the request context.
func Authenticate(verifier Verifier, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				httpx.Write(w, httpx.FromError(&shared.Error{Kind: shared.KindUnauthenticated, Message: "Unauthenticated"}))
				return
			}
			id, err := verifier.Verify(cookie.Value)
			if err != nil {
				httpx.Write(w, httpx.FromError(&shared.Error{Kind: shared.KindInvalidToken, Message: "Invalid token"}))
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
		})
	}
}
