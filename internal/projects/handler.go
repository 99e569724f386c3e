package projects

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/platform/httpx"
	"github.com/buildtrack/buildtrack/internal/rbac"
	"github.com/buildtrack/buildtrack/internal/shared"
)

// Handler manages project endpoints.
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

// MountRoutes registers project routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRoles(rbac.Everyone))
		r.Get("/get", h.list)
		r.Get("/mine", h.mine)
		r.Get("/get/{id}", httpx.ID("id", h.get))
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRoles(rbac.Managers))
		r.Post("/create", httpx.JSON(h.validator, h.create))
		r.Put("/update/{id}", httpx.JSONWithID(h.validator, "id", h.update))
	})
	r.With(h.rbac.RequireRoles(rbac.AdminOnly)).Delete("/delete/{id}", httpx.ID("id", h.delete))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.List(r.Context())
	httpx.Respond(w, r, h.logger, http.StatusOK, "Projects found", out, err)
}

func (h *Handler) mine(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, r, h.logger, shared.ErrUnauthenticated)
		return
	}
	out, err := h.service.ListMine(r.Context(), caller)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Projects found", out, err)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	p, err := h.service.Get(r.Context(), id)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Project found", p, err)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, in CreateInput) {
	caller, _ := auth.IdentityFromContext(r.Context())
	p, err := h.service.Create(r.Context(), caller, in)
	httpx.Respond(w, r, h.logger, http.StatusCreated, "Project created", p, err)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id uuid.UUID, in UpdateInput) {
	caller, _ := auth.IdentityFromContext(r.Context())
	p, err := h.service.Update(r.Context(), caller, id, in)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Project updated", p, err)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	p, err := h.service.Delete(r.Context(), id)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Project deleted", p, err)
}
