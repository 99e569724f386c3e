package audit

import (
	"context"

	"github.com/buildtrack/buildtrack/internal/shared"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// Store is the persistence contract of the audit trail.
type Store interface {
	Record(ctx context.Context, e Entry) error
	Window(ctx context.Context, f Filters, offset, limit int) ([]Entry, error)
}

// Service reads the audit timeline.
type Service struct {
	store Store
}

// NewService creates an audit timeline service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Timeline returns one page of entries. One extra row is fetched to learn
// whether a next page exists.
func (s *Service) Timeline(ctx context.Context, f Filters) (Result, error) {
	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	rows, err := s.store.Window(ctx, f, (page-1)*pageSize, pageSize+1)
	if err != nil {
		return Result{}, shared.AsError(err, "failed to load audit timeline")
	}
	if rows == nil {
		rows = []Entry{}
	}
	hasNext := len(rows) > pageSize
	if hasNext {
		rows = rows[:pageSize]
	}
	paging := PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext}
	if page > 1 {
		paging.PrevPage = page - 1
	}
	if hasNext {
		paging.NextPage = page + 1
	}
	return Result{Rows: rows, Paging: paging}, nil
}
