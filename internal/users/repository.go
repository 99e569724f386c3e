package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildtrack/buildtrack/internal/platform/db"
)

const userSelect = `SELECT u.id, u.username, u.full_name, u.email, u.role_id, r.name, u.password_hash, u.created_at, u.updated_at
FROM users u JOIN roles r ON r.id = u.role_id`

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

func scanUser(row scanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.RoleID, &u.Role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// List returns every user ordered by username.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, userSelect+` ORDER BY u.username`)
	if err != nil {
		return nil, db.Classify(err, "user")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (User, error) { return scanUser(row) })
	return out, db.Classify(err, "user")
}

// Get loads one user with its role name.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id))
	return u, db.Classify(err, "user")
}

// UsernameTaken reports whether another user already has username.
func (r *Repository) UsernameTaken(ctx context.Context, username string, except uuid.UUID) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND id <> $2)`, username, except).Scan(&taken)
	return taken, db.Classify(err, "user")
}

// RoleExists reports whether the role id is known.
func (r *Repository) RoleExists(ctx context.Context, roleID uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, roleID).Scan(&ok)
	return ok, db.Classify(err, "role")
}

// Create inserts a user.
func (r *Repository) Create(ctx context.Context, u User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, username, full_name, email, password_hash, role_id) VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Username, u.FullName, u.Email, u.PasswordHash, u.RoleID)
	return db.Classify(err, "user")
}

// Update overwrites the mutable columns.
func (r *Repository) Update(ctx context.Context, u User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET username = $2, full_name = $3, email = $4, password_hash = $5, role_id = $6, updated_at = NOW() WHERE id = $1`,
		u.ID, u.Username, u.FullName, u.Email, u.PasswordHash, u.RoleID)
	if err != nil {
		return db.Classify(err, "user")
	}
	if tag.RowsAffected() == 0 {
		return db.Classify(pgx.ErrNoRows, "user")
	}
	return nil
}

// CountOwnedProjects returns how many projects the user owns.
func (r *Repository) CountOwnedProjects(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM projects WHERE owner_id = $1`, id).Scan(&n)
	return n, db.Classify(err, "user")
}

// Delete removes the user and its project relations. Tasks assigned to the
// user and progress it reported keep their rows with the reference cleared.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return db.DeleteCascade(ctx, r.pool, "user", id,
		`DELETE FROM users WHERE id = $1`,
		`DELETE FROM relations WHERE user_id = $1`,
		`UPDATE tasks SET assignee_id = NULL WHERE assignee_id = $1`,
		`UPDATE progress SET reported_by = NULL WHERE reported_by = $1`,
	)
}

var _ RepositoryPort = (*Repository)(nil)
