package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/buildtrack/buildtrack/internal/platform/httpx"
	"github.com/buildtrack/buildtrack/internal/shared"
)

// CookieConfig describes the token cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	validator   *httpx.Validator
	cookie      CookieConfig
	requireUser func(http.Handler) http.Handler
	loginLimit  int
}

// NewHandler constructs a Handler. requireUser guards /me and must include
// the authentication gate.
func NewHandler(logger *slog.Logger, service *Service, validator *httpx.Validator, cookie CookieConfig, requireUser func(http.Handler) http.Handler) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:      logger,
		service:     service,
		validator:   validator,
		cookie:      cookie,
		requireUser: requireUser,
		loginLimit:  10,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(httprate.LimitByIP(h.loginLimit, time.Minute)).Post("/login", httpx.JSON(h.validator, h.handleLogin))
	r.Post("/logout", h.handleLogout)
	r.With(h.requireUser).Get("/me", h.handleMe)
}

type loginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,bcryptlen"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request, req loginRequest) {
	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if shared.KindOf(err) != shared.KindInternal {
			h.logger.Warn("login rejected", slog.String("username", req.Username), slog.String("reason", shared.KindOf(err).String()))
		}
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	httpx.OK(w, "Login successful", result.Profile)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	httpx.OK(w, "Logout successful", nil)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, h.logger, shared.ErrUnauthenticated)
		return
	}
	profile, err := h.service.Me(r.Context(), id)
	httpx.Respond(w, r, h.logger, http.StatusOK, "User found", profile, err)
}
