package relations

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/platform/httpx"
	"github.com/buildtrack/buildtrack/internal/rbac"
)

// Handler manages user-project relation endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *httpx.Validator
	rbac      rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, validator *httpx.Validator, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator, rbac: rbac}
}

// MountRoutes registers relation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRoles(rbac.Managers))
		r.Get("/get", h.list)
		r.Get("/getbyproject/{project_id}", httpx.ID("project_id", h.listByProject))
		r.Get("/getbyuser/{user_id}", httpx.ID("user_id", h.listByUser))
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRoles(rbac.AdminOnly))
		r.Post("/create", httpx.JSON(h.validator, h.create))
		r.Delete("/delete/{id}", httpx.ID("id", h.delete))
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.List(r.Context())
	httpx.Respond(w, r, h.logger, http.StatusOK, "Relations found", out, err)
}

func (h *Handler) listByProject(w http.ResponseWriter, r *http.Request, projectID uuid.UUID) {
	out, err := h.service.ListByProject(r.Context(), projectID)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Relations found", out, err)
}

func (h *Handler) listByUser(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	out, err := h.service.ListByUser(r.Context(), userID)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Relations found", out, err)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, in CreateInput) {
	rel, err := h.service.Create(r.Context(), in)
	httpx.Respond(w, r, h.logger, http.StatusCreated, "Relation created", rel, err)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	rel, err := h.service.Delete(r.Context(), id)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Relation deleted", rel, err)
}
