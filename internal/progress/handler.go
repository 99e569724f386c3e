package progress

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/platform/httpx"
	"github.com/buildtrack/buildtrack/internal/rbac"
)

// Reporters may file and amend progress: field staff and managers.
var Reporters = rbac.Union(rbac.Staff, rbac.Managers)

// Handler manages progress endpoints.
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

// MountRoutes registers progress routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRoles(rbac.Everyone))
		r.Get("/get", h.list)
		r.Get("/get/{id}", httpx.ID("id", h.get))
		r.Get("/getbytask/{task_id}", httpx.ID("task_id", h.listByTask))
		r.Get("/getbysubtask/{subtask_id}", httpx.ID("subtask_id", h.listBySubtask))
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRoles(Reporters))
		r.Post("/create", httpx.JSON(h.validator, h.create))
		r.Put("/update/{id}", httpx.JSONWithID(h.validator, "id", h.update))
	})
	r.With(h.rbac.RequireRoles(rbac.Managers)).Delete("/delete/{id}", httpx.ID("id", h.delete))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.List(r.Context())
	httpx.Respond(w, r, h.logger, http.StatusOK, "Progress found", out, err)
}

func (h *Handler) listByTask(w http.ResponseWriter, r *http.Request, taskID uuid.UUID) {
	out, err := h.service.ListByTask(r.Context(), taskID)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Progress found", out, err)
}

func (h *Handler) listBySubtask(w http.ResponseWriter, r *http.Request, subtaskID uuid.UUID) {
	out, err := h.service.ListBySubtask(r.Context(), subtaskID)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Progress found", out, err)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	p, err := h.service.Get(r.Context(), id)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Progress found", p, err)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, in CreateInput) {
	caller, _ := auth.IdentityFromContext(r.Context())
	p, err := h.service.Create(r.Context(), caller, in)
	httpx.Respond(w, r, h.logger, http.StatusCreated, "Progress created", p, err)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id uuid.UUID, in UpdateInput) {
	caller, _ := auth.IdentityFromContext(r.Context())
	p, err := h.service.Update(r.Context(), caller, id, in)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Progress updated", p, err)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	caller, _ := auth.IdentityFromContext(r.Context())
	p, err := h.service.Delete(r.Context(), caller, id)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Progress deleted", p, err)
}
