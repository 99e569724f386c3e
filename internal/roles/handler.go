package roles

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/platform/httpx"
	"github.com/buildtrack/buildtrack/internal/rbac"
)

// Handler manages role endpoints.
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

// MountRoutes registers role routes. Every route is admin only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRoles(rbac.AdminOnly))
		r.Get("/get", h.list)
		r.Get("/get/{id}", httpx.ID("id", h.get))
		r.Post("/create", httpx.JSON(h.validator, h.create))
		r.Put("/update/{id}", httpx.JSONWithID(h.validator, "id", h.update))
		r.Delete("/delete/{id}", httpx.ID("id", h.delete))
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.List(r.Context())
	httpx.Respond(w, r, h.logger, http.StatusOK, "Roles found", roles, err)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	role, err := h.service.Get(r.Context(), id)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Role found", role, err)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, in CreateInput) {
	role, err := h.service.Create(r.Context(), in)
	httpx.Respond(w, r, h.logger, http.StatusCreated, "Role created", role, err)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id uuid.UUID, in UpdateInput) {
	role, err := h.service.Update(r.Context(), id, in)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Role updated", role, err)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	role, err := h.service.Delete(r.Context(), id)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Role deleted", role, err)
}
