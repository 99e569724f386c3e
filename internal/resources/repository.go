package resources

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildtrack/buildtrack/internal/platform/db"
)

const resourceColumns = `id, project_id, name, kind, quantity, unit, unit_cost, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanResource(row pgx.Row) (Resource, error) {
	var res Resource
	err := row.Scan(&res.ID, &res.ProjectID, &res.Name, &res.Kind, &res.Quantity, &res.Unit, &res.UnitCost, &res.CreatedAt, &res.UpdatedAt)
	res.computeTotal()
	return res, err
}

func (r *Repository) query(ctx context.Context, sql string, args ...any) ([]Resource, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.Classify(err, "resource")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Resource, error) { return scanResource(row) })
	return out, db.Classify(err, "resource")
}

// List returns all resources.
func (r *Repository) List(ctx context.Context) ([]Resource, error) {
	return r.query(ctx, `SELECT `+resourceColumns+` FROM resources ORDER BY name`)
}

// ListByProject returns the resources of one project.
func (r *Repository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Resource, error) {
	return r.query(ctx, `SELECT `+resourceColumns+` FROM resources WHERE project_id = $1 ORDER BY kind, name`, projectID)
}

// Get loads one resource.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Resource, error) {
	res, err := scanResource(r.pool.QueryRow(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id = $1`, id))
	return res, db.Classify(err, "resource")
}

// Create inserts a resource.
func (r *Repository) Create(ctx context.Context, res Resource) (Resource, error) {
	created, err := scanResource(r.pool.QueryRow(ctx,
		`INSERT INTO resources (id, project_id, name, kind, quantity, unit, unit_cost)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+resourceColumns,
		res.ID, res.ProjectID, res.Name, res.Kind, res.Quantity, res.Unit, res.UnitCost))
	return created, db.Classify(err, "resource")
}

// Update overwrites the mutable columns.
func (r *Repository) Update(ctx context.Context, res Resource) (Resource, error) {
	updated, err := scanResource(r.pool.QueryRow(ctx,
		`UPDATE resources SET name = $2, kind = $3, quantity = $4, unit = $5, unit_cost = $6, updated_at = NOW()
WHERE id = $1 RETURNING `+resourceColumns,
		res.ID, res.Name, res.Kind, res.Quantity, res.Unit, res.UnitCost))
	return updated, db.Classify(err, "resource")
}

// Delete removes a resource.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err, "resource")
	}
	if tag.RowsAffected() == 0 {
		return db.Classify(pgx.ErrNoRows, "resource")
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
