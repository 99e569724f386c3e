package audit

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/platform/httpx"
	"github.com/buildtrack/buildtrack/internal/rbac"
)

// Handler serves the audit timeline.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler creates an audit handler.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers audit routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.RequireRoles(rbac.AdminOnly)).Get("/get", h.timeline)
}

func (h *Handler) timeline(w http.ResponseWriter, r *http.Request) {
	filters, fields := parseFilters(r)
	if len(fields) > 0 {
		httpx.ValidationFailed(w, fields)
		return
	}
	out, err := h.service.Timeline(r.Context(), filters)
	httpx.Respond(w, r, h.logger, http.StatusOK, "Audit timeline", out, err)
}

func parseFilters(r *http.Request) (Filters, []httpx.FieldError) {
	q := r.URL.Query()
	f := Filters{
		Entity: strings.TrimSpace(q.Get("entity")),
		Action: strings.TrimSpace(q.Get("action")),
	}
	var fields []httpx.FieldError
	if raw := q.Get("actor"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			fields = append(fields, httpx.FieldError{Field: "actor", Rule: "uuid", Message: "actor must be a valid UUID"})
		} else {
			f.Actor = &id
		}
	}
	for name, dst := range map[string]*int{"page": &f.Page, "page_size": &f.PageSize} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields = append(fields, httpx.FieldError{Field: name, Rule: "min", Message: name + " must be a positive integer"})
			continue
		}
		*dst = n
	}
	return f, fields
}
