package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/buildtrack/buildtrack/internal/auth"
)

const (
	writeTimeout = 2 * time.Second
	// Bodies beyond this size are not inspected for a created id.
	maxCapturedBody = 64 << 10
)

// Recorder stores an audit entry for every successful mutating request.
type Recorder struct {
	store    Store
	logger   *slog.Logger
	failures prometheus.Counter
}

// NewRecorder registers the failure counter on reg and returns a Recorder.
func NewRecorder(store Store, logger *slog.Logger, reg prometheus.Registerer) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "buildtrack_audit_write_failures_total",
		Help: "Audit entries that could not be stored.",
	})
	if reg != nil {
		reg.MustRegister(failures)
	}
	return &Recorder{store: store, logger: logger, failures: failures}
}

// Middleware must run after authentication so the actor is known.
func (rec *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !mutating(r.Method) {
			next.ServeHTTP(w, r)
			return
		}
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		if sw.status >= http.StatusBadRequest {
			return
		}
		entry := rec.entry(r, sw.status)
		if entry.EntityID == "" {
			entry.EntityID = createdID(sw.body.Bytes())
		}
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), writeTimeout)
		defer cancel()
		if err := rec.store.Record(ctx, entry); err != nil {
			rec.failures.Inc()
			rec.logger.Error("audit write failed",
				slog.String("entity", entry.Entity),
				slog.String("action", entry.Action),
				slog.Any("error", err))
		}
	})
}

func (rec *Recorder) entry(r *http.Request, status int) Entry {
	var pattern string
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		pattern = rctx.RoutePattern()
	}
	entity, action := classify(pattern, r.URL.Path)
	e := Entry{
		Action:   action,
		Entity:   entity,
		EntityID: chi.URLParam(r, "id"),
		Meta: map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": status,
		},
	}
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		e.Meta["request_id"] = reqID
	}
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		actor := id.UserID
		e.ActorID = &actor
		e.Meta["role"] = string(id.Role)
	}
	return e
}

// classify takes the last two static segments of the route, so
// "/api/project/update/{id}" yields ("project", "update").
func classify(pattern, path string) (entity, action string) {
	if pattern == "" {
		pattern = path
	}
	var static []string
	for _, seg := range strings.Split(pattern, "/") {
		if seg == "" || strings.HasPrefix(seg, "{") || seg == "*" {
			continue
		}
		static = append(static, seg)
	}
	switch len(static) {
	case 0:
		return "unknown", "unknown"
	case 1:
		return static[0], "unknown"
	default:
		return static[len(static)-2], static[len(static)-1]
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// createdID reads responseObject.id from a success envelope. Routes without
// an {id} parameter (creates) only reveal the affected row this way.
func createdID(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var env struct {
		ResponseObject struct {
			ID string `json:"id"`
		} `json:"responseObject"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.ResponseObject.ID
}

type statusWriter struct {
	http.ResponseWriter
	status    int
	body      bytes.Buffer
	truncated bool
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if !w.truncated {
		if w.body.Len()+len(p) > maxCapturedBody {
			w.truncated = true
			w.body.Reset()
		} else {
			w.body.Write(p)
		}
	}
	return w.ResponseWriter.Write(p)
}
