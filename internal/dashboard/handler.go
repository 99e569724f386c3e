package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/platform/httpx"
	"github.com/buildtrack/buildtrack/internal/rbac"
)

// Handler exposes the earned value dashboard.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRoles(rbac.Leadership))
		r.Get("/summary", h.summary)
		r.Get("/project/{id}", httpx.ID("id", h.project))
	})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.Summary(r.Context())
	httpx.Respond(w, r, h.logger, http.StatusOK, "Dashboard summary", out, err)
}

func (h *Handler) project(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	out, err := h.service.Project(r.Context(), id)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Project dashboard", out, err)
}
