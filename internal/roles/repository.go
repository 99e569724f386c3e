package roles

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildtrack/buildtrack/internal/platform/db"
)

const roleColumns = `id, name, description, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRole(row scanner) (Role, error) {
	var role Role
	err := row.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	return role, err
}

// List returns all roles ordered by name.
func (r *Repository) List(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY name`)
	if err != nil {
		return nil, db.Classify(err, "role")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Role, error) { return scanRole(row) })
	return out, db.Classify(err, "role")
}

// Get loads one role.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Role, error) {
	role, err := scanRole(r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id))
	return role, db.Classify(err, "role")
}

// NameTaken reports whether another role already uses name.
func (r *Repository) NameTaken(ctx context.Context, name string, except uuid.UUID) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE name = $1 AND id <> $2)`, name, except).Scan(&taken)
	return taken, db.Classify(err, "role")
}

// Create inserts a role.
func (r *Repository) Create(ctx context.Context, role Role) (Role, error) {
	created, err := scanRole(r.pool.QueryRow(ctx,
		`INSERT INTO roles (id, name, description) VALUES ($1, $2, $3) RETURNING `+roleColumns,
		role.ID, role.Name, role.Description))
	return created, db.Classify(err, "role")
}

// Update overwrites the mutable columns.
func (r *Repository) Update(ctx context.Context, role Role) (Role, error) {
	updated, err := scanRole(r.pool.QueryRow(ctx,
		`UPDATE roles SET name = $2, description = $3, updated_at = NOW() WHERE id = $1 RETURNING `+roleColumns,
		role.ID, role.Name, role.Description))
	return updated, db.Classify(err, "role")
}

// CountUsers returns how many users hold the role.
func (r *Repository) CountUsers(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role_id = $1`, id).Scan(&n)
	return n, db.Classify(err, "role")
}

// Delete removes a role.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err, "role")
	}
	if tag.RowsAffected() == 0 {
		return db.Classify(pgx.ErrNoRows, "role")
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
