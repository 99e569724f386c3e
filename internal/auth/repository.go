package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildtrack/buildtrack/internal/platform/db"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (Account, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const accountColumns = `u.id, u.username, u.full_name, u.email, u.password_hash, u.role_id, r.name, u.created_at, u.updated_at`

// FindByUsername fetches an account by its unique username.
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users u JOIN roles r ON r.id = u.role_id WHERE u.username = $1`, username)
	return scanAccount(row)
}

// FindByID fetches an account by id.
func (r *PGRepository) FindByID(ctx context.Context, id uuid.UUID) (Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users u JOIN roles r ON r.id = u.role_id WHERE u.id = $1`, id)
	return scanAccount(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Username, &a.FullName, &a.Email, &a.PasswordHash, &a.RoleID, &a.RoleName, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Account{}, db.Classify(err, "user")
	}
	return a, nil
}

var _ Repository = (*PGRepository)(nil)
