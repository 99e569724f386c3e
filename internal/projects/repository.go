package projects

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildtrack/buildtrack/internal/platform/db"
)

const projectColumns = `p.id, p.name, p.description, p.location, p.category_id, p.owner_id, p.start_date, p.end_date, p.budget, p.status, p.created_at, p.updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Location, &p.CategoryID, &p.OwnerID,
		&p.StartDate.Time, &p.EndDate.Time, &p.Budget, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repository) query(ctx context.Context, sql string, args ...any) ([]Project, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.Classify(err, "project")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Project, error) { return scanProject(row) })
	return out, db.Classify(err, "project")
}

// List returns all projects, newest first.
func (r *Repository) List(ctx context.Context) ([]Project, error) {
	return r.query(ctx, `SELECT `+projectColumns+` FROM projects p ORDER BY p.created_at DESC`)
}

// ListForUser returns projects the user owns or is related to.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Project, error) {
	return r.query(ctx, `SELECT `+projectColumns+` FROM projects p
WHERE p.owner_id = $1 OR EXISTS (SELECT 1 FROM relations rel WHERE rel.project_id = p.id AND rel.user_id = $1)
ORDER BY p.created_at DESC`, userID)
}

// Get loads one project.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.id = $1`, id))
	return p, db.Classify(err, "project")
}

// NameTaken reports whether another project already uses name.
func (r *Repository) NameTaken(ctx context.Context, name string, except uuid.UUID) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM projects WHERE name = $1 AND id <> $2)`, name, except).Scan(&taken)
	return taken, db.Classify(err, "project")
}

// UserExists reports whether the user id is known.
func (r *Repository) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&ok)
	return ok, db.Classify(err, "user")
}

// CategoryExists reports whether the category id is known.
func (r *Repository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&ok)
	return ok, db.Classify(err, "category")
}

// Create inserts a project.
func (r *Repository) Create(ctx context.Context, p Project) (Project, error) {
	created, err := scanProject(r.pool.QueryRow(ctx, `WITH p AS (
INSERT INTO projects (id, name, description, location, category_id, owner_id, start_date, end_date, budget, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING *)
SELECT `+projectColumns+` FROM p`,
		p.ID, p.Name, p.Description, p.Location, p.CategoryID, p.OwnerID, p.StartDate.Time, p.EndDate.Time, p.Budget, p.Status))
	return created, db.Classify(err, "project")
}

// Update overwrites the mutable columns.
func (r *Repository) Update(ctx context.Context, p Project) (Project, error) {
	updated, err := scanProject(r.pool.QueryRow(ctx, `WITH p AS (
UPDATE projects SET name = $2, description = $3, location = $4, category_id = $5, owner_id = $6,
start_date = $7, end_date = $8, budget = $9, status = $10, updated_at = NOW()
WHERE id = $1 RETURNING *)
SELECT `+projectColumns+` FROM p`,
		p.ID, p.Name, p.Description, p.Location, p.CategoryID, p.OwnerID, p.StartDate.Time, p.EndDate.Time, p.Budget, p.Status))
	return updated, db.Classify(err, "project")
}

// Delete removes the project and everything that hangs off it in one
// transaction, children first.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return db.DeleteCascade(ctx, r.pool, "project", id,
		`DELETE FROM projects WHERE id = $1`,
		`DELETE FROM relations WHERE project_id = $1`,
		`DELETE FROM progress WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)
   OR subtask_id IN (SELECT s.id FROM subtasks s JOIN tasks t ON t.id = s.task_id WHERE t.project_id = $1)`,
		`DELETE FROM subtasks WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)`,
		`DELETE FROM tasks WHERE project_id = $1`,
		`DELETE FROM resources WHERE project_id = $1`,
		`DELETE FROM plans WHERE project_id = $1`,
	)
}

var _ RepositoryPort = (*Repository)(nil)
