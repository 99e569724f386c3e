package categories

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/platform/httpx"
	"github.com/buildtrack/buildtrack/internal/rbac"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *httpx.Validator
	rbac      rbac.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, validator *httpx.Validator, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator, rbac: rbac}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRoles(rbac.Everyone))
		r.Get("/get", h.List)
		r.Get("/get/{id}", httpx.ID("id", h.Show))
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRoles(rbac.AdminOnly))
		r.Post("/create", httpx.JSON(h.validator, h.Create))
		r.Put("/update/{id}", httpx.JSONWithID(h.validator, "id", h.Update))
		r.Delete("/delete/{id}", httpx.ID("id", h.Delete))
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	httpx.Respond(w, r, h.logger, http.StatusOK, "Categories found", categories, err)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	category, err := h.service.Get(r.Context(), id)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Category found", category, err)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, in CreateInput) {
	category, err := h.service.Create(r.Context(), in)
	httpx.Respond(w, r, h.logger, http.StatusCreated, "Category created", category, err)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, id uuid.UUID, in UpdateInput) {
	category, err := h.service.Update(r.Context(), id, in)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Category updated", category, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	category, err := h.service.Delete(r.Context(), id)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Category deleted", category, err)
}
