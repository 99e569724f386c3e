package categories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildtrack/buildtrack/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id uuid.UUID) (Category, error)
	NameTaken(ctx context.Context, name string, except uuid.UUID) (bool, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, category Category) (Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const categoryColumns = `id, name, description, created_at, updated_at`

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, db.Classify(err, "category")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Category, error) { return scanCategory(row) })
	return out, db.Classify(err, "category")
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	return c, db.Classify(err, "category")
}

// NameTaken compares names case-insensitively.
func (r *repository) NameTaken(ctx context.Context, name string, except uuid.UUID) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE lower(name) = lower($1) AND id <> $2)`, name, except).Scan(&taken)
	return taken, db.Classify(err, "category")
}

func (r *repository) Create(ctx context.Context, category Category) (Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx,
		`INSERT INTO categories (id, name, description) VALUES ($1, $2, $3) RETURNING `+categoryColumns,
		category.ID, category.Name, category.Description))
	return c, db.Classify(err, "category")
}

func (r *repository) Update(ctx context.Context, category Category) (Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx,
		`UPDATE categories SET name = $2, description = $3, updated_at = NOW() WHERE id = $1 RETURNING `+categoryColumns,
		category.ID, category.Name, category.Description))
	return c, db.Classify(err, "category")
}

// Delete detaches projects from the category before removing it.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return db.DeleteCascade(ctx, r.pool, "category", id,
		`DELETE FROM categories WHERE id = $1`,
		`UPDATE projects SET category_id = NULL, updated_at = NOW() WHERE category_id = $1`,
	)
}
