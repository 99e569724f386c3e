package resources

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/auth"
	"github.com/buildtrack/buildtrack/internal/platform/httpx"
	"github.com/buildtrack/buildtrack/internal/rbac"
)

// Handler manages resource endpoints.
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

// MountRoutes registers resource routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRoles(rbac.Everyone))
		r.Get("/get", h.list)
		r.Get("/get/{id}", httpx.ID("id", h.get))
		r.Get("/getbyproject/{project_id}", httpx.ID("project_id", h.listByProject))
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRoles(rbac.Managers))
		r.Post("/create", httpx.JSON(h.validator, h.create))
		r.Put("/update/{id}", httpx.JSONWithID(h.validator, "id", h.update))
		r.Delete("/delete/{id}", httpx.ID("id", h.delete))
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.List(r.Context())
	httpx.Respond(w, r, h.logger, http.StatusOK, "Resources found", out, err)
}

func (h *Handler) listByProject(w http.ResponseWriter, r *http.Request, projectID uuid.UUID) {
	out, err := h.service.ListByProject(r.Context(), projectID)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Resources found", out, err)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	res, err := h.service.Get(r.Context(), id)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Resource found", res, err)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, in CreateInput) {
	caller, _ := auth.IdentityFromContext(r.Context())
	res, err := h.service.Create(r.Context(), caller, in)
	httpx.Respond(w, r, h.logger, http.StatusCreated, "Resource created", res, err)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id uuid.UUID, in UpdateInput) {
	caller, _ := auth.IdentityFromContext(r.Context())
	res, err := h.service.Update(r.Context(), caller, id, in)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Resource updated", res, err)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	caller, _ := auth.IdentityFromContext(r.Context())
	res, err := h.service.Delete(r.Context(), caller, id)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Resource deleted", res, err)
}
