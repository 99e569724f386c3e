package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/buildtrack/buildtrack/internal/shared"
)

// FactSource loads earned value inputs.
type FactSource interface {
	Facts(ctx context.Context, projectID *uuid.UUID, asOf time.Time) ([]ProjectFacts, error)
}

// Service coordinates dashboard computation with the cache layer.
type Service struct {
	repo   FactSource
	cache  *Cache
	flight singleflight.Group
	now    func() time.Time
}

// NewService wires a FactSource with a Cache helper. cache may be nil.
func NewService(repo FactSource, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// Summary returns the portfolio dashboard as of today.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	asOf := shared.Today(s.now())
	out, err := load(ctx, s, []string{"dashboard", "summary", asOf.String()}, func(ctx context.Context) (Summary, error) {
		facts, err := s.repo.Facts(ctx, nil, asOf.Time)
		if err != nil {
			return Summary{}, err
		}
		metrics := make([]Metrics, 0, len(facts))
		for _, f := range facts {
			metrics = append(metrics, Compute(f))
		}
		return Summary{AsOf: asOf, Totals: Aggregate(metrics), Projects: metrics}, nil
	})
	return out, shared.AsError(err, "failed to build dashboard")
}

// Project returns the dashboard of one project.
func (s *Service) Project(ctx context.Context, id uuid.UUID) (ProjectView, error) {
	asOf := shared.Today(s.now())
	out, err := load(ctx, s, []string{"dashboard", "project", id.String(), asOf.String()}, func(ctx context.Context) (ProjectView, error) {
		facts, err := s.repo.Facts(ctx, &id, asOf.Time)
		if err != nil {
			return ProjectView{}, err
		}
		if len(facts) == 0 {
			return ProjectView{}, shared.NotFound("project")
		}
		return ProjectView{AsOf: asOf, Metrics: Compute(facts[0])}, nil
	})
	return out, shared.AsError(err, "failed to build dashboard")
}

var _ shared.Invalidator = (*Cache)(nil)

func load[T any](ctx context.Context, s *Service, parts []string, build func(context.Context) (T, error)) (T, error) {
	var zero T
	key, err := s.cache.BuildKey(ctx, parts...)
	if err != nil {
		return zero, err
	}
	val, err, _ := collapse(ctx, &s.flight, key, func(ctx context.Context) (any, error) {
		var out T
		err := s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
			return build(ctx)
		})
		return out, err
	})
	if err != nil {
		return zero, err
	}
	return val.(T), nil
}
