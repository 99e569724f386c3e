package plans

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildtrack/buildtrack/internal/platform/db"
	"github.com/buildtrack/buildtrack/internal/shared"
)

const planColumns = `id, project_id, period, planned_value, notes, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanPlan(row pgx.Row) (Plan, error) {
	var p Plan
	err := row.Scan(&p.ID, &p.ProjectID, &p.Period.Time, &p.PlannedValue, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repository) query(ctx context.Context, sql string, args ...any) ([]Plan, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.Classify(err, "plan")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Plan, error) { return scanPlan(row) })
	return out, db.Classify(err, "plan")
}

// List returns all plans.
func (r *Repository) List(ctx context.Context) ([]Plan, error) {
	return r.query(ctx, `SELECT `+planColumns+` FROM plans ORDER BY project_id, period`)
}

// ListByProject returns the plans of one project in period order.
func (r *Repository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Plan, error) {
	return r.query(ctx, `SELECT `+planColumns+` FROM plans WHERE project_id = $1 ORDER BY period`, projectID)
}

// Get loads one plan.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Plan, error) {
	p, err := scanPlan(r.pool.QueryRow(ctx, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id))
	return p, db.Classify(err, "plan")
}

// PeriodTaken reports whether the project already has another plan for period.
func (r *Repository) PeriodTaken(ctx context.Context, projectID uuid.UUID, period shared.Date, except uuid.UUID) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM plans WHERE project_id = $1 AND period = $2 AND id <> $3)`,
		projectID, period.Time, except).Scan(&taken)
	return taken, db.Classify(err, "plan")
}

// Create inserts a plan.
func (r *Repository) Create(ctx context.Context, p Plan) (Plan, error) {
	created, err := scanPlan(r.pool.QueryRow(ctx,
		`INSERT INTO plans (id, project_id, period, planned_value, notes) VALUES ($1, $2, $3, $4, $5) RETURNING `+planColumns,
		p.ID, p.ProjectID, p.Period.Time, p.PlannedValue, p.Notes))
	return created, db.Classify(err, "plan")
}

// Update overwrites the mutable columns.
func (r *Repository) Update(ctx context.Context, p Plan) (Plan, error) {
	updated, err := scanPlan(r.pool.QueryRow(ctx,
		`UPDATE plans SET period = $2, planned_value = $3, notes = $4, updated_at = NOW() WHERE id = $1 RETURNING `+planColumns,
		p.ID, p.Period.Time, p.PlannedValue, p.Notes))
	return updated, db.Classify(err, "plan")
}

// Delete removes a plan.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err, "plan")
	}
	if tag.RowsAffected() == 0 {
		return db.Classify(pgx.ErrNoRows, "plan")
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
