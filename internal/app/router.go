package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/buildtrack/buildtrack/internal/audit"
	"github.com/buildtrack/buildtrack/internal/observability"
	"github.com/buildtrack/buildtrack/internal/platform/httpx"
)

// Mounter is implemented by every resource handler.
type Mounter interface {
	MountRoutes(r chi.Router)
}

// Resource binds a handler to its path under the API prefix.
type Resource struct {
	Path    string
	Handler Mounter
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics
	// Authenticate is the token gate in front of every resource.
	Authenticate func(http.Handler) http.Handler
	Audit        *audit.Recorder
	AuthHandler  Mounter
	Resources    []Resource
}

// NewRouter constructs the chi.Router with BuildTrack defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	r.NotFound(httpx.NotFound)
	r.MethodNotAllowed(httpx.MethodNotAllowed)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.OK(w, "Service is healthy", map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	mountAPI := func(api chi.Router) {
		if params.AuthHandler != nil {
			api.Route("/auth", params.AuthHandler.MountRoutes)
		}
		api.Group(func(api chi.Router) {
			if params.Authenticate != nil {
				api.Use(params.Authenticate)
			}
			if params.Audit != nil {
				api.Use(params.Audit.Middleware)
			}
			for _, res := range params.Resources {
				if res.Handler == nil {
					continue
				}
				api.Route(res.Path, res.Handler.MountRoutes)
			}
		})
	}

	prefix := ""
	if params.Config != nil {
		prefix = params.Config.APIPrefix
	}
	if prefix == "" {
		mountAPI(r)
	} else {
		r.Route(prefix, mountAPI)
	}
	return r
}
