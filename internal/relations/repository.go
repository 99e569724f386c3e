package relations

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildtrack/buildtrack/internal/platform/db"
)

const relationColumns = `id, user_id, project_id, created_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanRelation(row pgx.Row) (Relation, error) {
	var rel Relation
	err := row.Scan(&rel.ID, &rel.UserID, &rel.ProjectID, &rel.CreatedAt)
	return rel, err
}

func (r *Repository) query(ctx context.Context, sql string, args ...any) ([]Relation, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.Classify(err, "relation")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Relation, error) { return scanRelation(row) })
	return out, db.Classify(err, "relation")
}

// List returns all relations.
func (r *Repository) List(ctx context.Context) ([]Relation, error) {
	return r.query(ctx, `SELECT `+relationColumns+` FROM relations ORDER BY created_at`)
}

// ListByProject returns the members of a project.
func (r *Repository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Relation, error) {
	return r.query(ctx, `SELECT `+relationColumns+` FROM relations WHERE project_id = $1 ORDER BY created_at`, projectID)
}

// ListByUser returns the projects a user is linked to.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Relation, error) {
	return r.query(ctx, `SELECT `+relationColumns+` FROM relations WHERE user_id = $1 ORDER BY created_at`, userID)
}

// Get loads one relation.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Relation, error) {
	rel, err := scanRelation(r.pool.QueryRow(ctx, `SELECT `+relationColumns+` FROM relations WHERE id = $1`, id))
	return rel, db.Classify(err, "relation")
}

// Exists reports whether the pair is already linked.
func (r *Repository) Exists(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM relations WHERE user_id = $1 AND project_id = $2)`, userID, projectID).Scan(&ok)
	return ok, db.Classify(err, "relation")
}

// UserExists reports whether the user id is known.
func (r *Repository) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&ok)
	return ok, db.Classify(err, "user")
}

// ProjectExists reports whether the project id is known.
func (r *Repository) ProjectExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, id).Scan(&ok)
	return ok, db.Classify(err, "project")
}

// Create inserts a relation.
func (r *Repository) Create(ctx context.Context, rel Relation) (Relation, error) {
	created, err := scanRelation(r.pool.QueryRow(ctx,
		`INSERT INTO relations (id, user_id, project_id) VALUES ($1, $2, $3) RETURNING `+relationColumns,
		rel.ID, rel.UserID, rel.ProjectID))
	return created, db.Classify(err, "relation")
}

// Delete removes a relation.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM relations WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err, "relation")
	}
	if tag.RowsAffected() == 0 {
		return db.Classify(pgx.ErrNoRows, "relation")
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
