package subtasks

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildtrack/buildtrack/internal/platform/db"
)

const subtaskColumns = `id, task_id, name, description, start_date, end_date, status, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanSubtask(row pgx.Row) (Subtask, error) {
	var s Subtask
	err := row.Scan(&s.ID, &s.TaskID, &s.Name, &s.Description, &s.StartDate.Time, &s.EndDate.Time, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *Repository) query(ctx context.Context, sql string, args ...any) ([]Subtask, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.Classify(err, "subtask")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Subtask, error) { return scanSubtask(row) })
	return out, db.Classify(err, "subtask")
}

// List returns all subtasks.
func (r *Repository) List(ctx context.Context) ([]Subtask, error) {
	return r.query(ctx, `SELECT `+subtaskColumns+` FROM subtasks ORDER BY start_date, name`)
}

// ListByTask returns the subtasks of one task.
func (r *Repository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]Subtask, error) {
	return r.query(ctx, `SELECT `+subtaskColumns+` FROM subtasks WHERE task_id = $1 ORDER BY start_date, name`, taskID)
}

// Get loads one subtask.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Subtask, error) {
	s, err := scanSubtask(r.pool.QueryRow(ctx, `SELECT `+subtaskColumns+` FROM subtasks WHERE id = $1`, id))
	return s, db.Classify(err, "subtask")
}

// TaskProject returns the project a task belongs to.
func (r *Repository) TaskProject(ctx context.Context, taskID uuid.UUID) (uuid.UUID, error) {
	var projectID uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT project_id FROM tasks WHERE id = $1`, taskID).Scan(&projectID)
	return projectID, db.Classify(err, "task")
}

// Create inserts a subtask.
func (r *Repository) Create(ctx context.Context, s Subtask) (Subtask, error) {
	created, err := scanSubtask(r.pool.QueryRow(ctx,
		`INSERT INTO subtasks (id, task_id, name, description, start_date, end_date, status)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+subtaskColumns,
		s.ID, s.TaskID, s.Name, s.Description, s.StartDate.Time, s.EndDate.Time, s.Status))
	return created, db.Classify(err, "subtask")
}

// Update overwrites the mutable columns.
func (r *Repository) Update(ctx context.Context, s Subtask) (Subtask, error) {
	updated, err := scanSubtask(r.pool.QueryRow(ctx,
		`UPDATE subtasks SET name = $2, description = $3, start_date = $4, end_date = $5, status = $6, updated_at = NOW()
WHERE id = $1 RETURNING `+subtaskColumns,
		s.ID, s.Name, s.Description, s.StartDate.Time, s.EndDate.Time, s.Status))
	return updated, db.Classify(err, "subtask")
}

// Delete removes the subtask and its progress records.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return db.DeleteCascade(ctx, r.pool, "subtask", id,
		`DELETE FROM subtasks WHERE id = $1`,
		`DELETE FROM progress WHERE subtask_id = $1`,
	)
}

var _ RepositoryPort = (*Repository)(nil)
