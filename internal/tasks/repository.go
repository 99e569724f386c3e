package tasks

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildtrack/buildtrack/internal/platform/db"
)

const taskColumns = `id, project_id, name, description, assignee_id, start_date, end_date, status, weight, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.Name, &t.Description, &t.AssigneeID,
		&t.StartDate.Time, &t.EndDate.Time, &t.Status, &t.Weight, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *Repository) query(ctx context.Context, sql string, args ...any) ([]Task, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.Classify(err, "task")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Task, error) { return scanTask(row) })
	return out, db.Classify(err, "task")
}

// List returns all tasks.
func (r *Repository) List(ctx context.Context) ([]Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY start_date, name`)
}

// ListByProject returns the tasks of one project.
func (r *Repository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 ORDER BY start_date, name`, projectID)
}

// Get loads one task.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	return t, db.Classify(err, "task")
}

// UserExists reports whether the user id is known.
func (r *Repository) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&ok)
	return ok, db.Classify(err, "user")
}

// Create inserts a task.
func (r *Repository) Create(ctx context.Context, t Task) (Task, error) {
	created, err := scanTask(r.pool.QueryRow(ctx,
		`INSERT INTO tasks (id, project_id, name, description, assignee_id, start_date, end_date, status, weight)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING `+taskColumns,
		t.ID, t.ProjectID, t.Name, t.Description, t.AssigneeID, t.StartDate.Time, t.EndDate.Time, t.Status, t.Weight))
	return created, db.Classify(err, "task")
}

// Update overwrites the mutable columns.
func (r *Repository) Update(ctx context.Context, t Task) (Task, error) {
	updated, err := scanTask(r.pool.QueryRow(ctx,
		`UPDATE tasks SET name = $2, description = $3, assignee_id = $4, start_date = $5, end_date = $6,
status = $7, weight = $8, updated_at = NOW() WHERE id = $1 RETURNING `+taskColumns,
		t.ID, t.Name, t.Description, t.AssigneeID, t.StartDate.Time, t.EndDate.Time, t.Status, t.Weight))
	return updated, db.Classify(err, "task")
}

// Delete removes the task, its subtasks and all their progress records.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return db.DeleteCascade(ctx, r.pool, "task", id,
		`DELETE FROM tasks WHERE id = $1`,
		`DELETE FROM progress WHERE task_id = $1 OR subtask_id IN (SELECT id FROM subtasks WHERE task_id = $1)`,
		`DELETE FROM subtasks WHERE task_id = $1`,
	)
}

var _ RepositoryPort = (*Repository)(nil)
