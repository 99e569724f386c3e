package audit

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildtrack/buildtrack/internal/platform/db"
)

// Repository writes and reads audit_logs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a new Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Record persists the log entry.
func (r *Repository) Record(ctx context.Context, e Entry) error {
	if e.Action == "" || e.Entity == "" {
		return errors.New("audit: entry requires action and entity")
	}
	meta, err := json.Marshal(e.Meta)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO audit_logs (actor_id, action, entity, entity_id, meta, occurred_at)
VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))`,
		e.ActorID, e.Action, e.Entity, e.EntityID, meta, nullTime(e))
	return err
}

// Window lists entries newest first.
func (r *Repository) Window(ctx context.Context, f Filters, offset, limit int) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, actor_id, action, entity, entity_id, meta, occurred_at
FROM audit_logs
WHERE ($1::uuid IS NULL OR actor_id = $1)
  AND ($2 = '' OR entity = $2)
  AND ($3 = '' OR action = $3)
ORDER BY occurred_at DESC, id DESC
OFFSET $4 LIMIT $5`, f.Actor, f.Entity, f.Action, offset, limit)
	if err != nil {
		return nil, db.Classify(err, "audit log")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var (
			e    Entry
			meta []byte
		)
		if err := row.Scan(&e.ID, &e.ActorID, &e.Action, &e.Entity, &e.EntityID, &meta, &e.At); err != nil {
			return e, err
		}
		return e, json.Unmarshal(meta, &e.Meta)
	})
	return out, db.Classify(err, "audit log")
}

func nullTime(e Entry) any {
	if e.At.IsZero() {
		return nil
	}
	return e.At
}

var _ Store = (*Repository)(nil)
