package progress

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildtrack/buildtrack/internal/platform/db"
)

const progressColumns = `id, task_id, subtask_id, percentage, actual_cost, report_date, notes, reported_by, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanProgress(row pgx.Row) (Progress, error) {
	var p Progress
	err := row.Scan(&p.ID, &p.TaskID, &p.SubtaskID, &p.Percentage, &p.ActualCost, &p.ReportDate.Time,
		&p.Notes, &p.ReportedBy, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repository) query(ctx context.Context, sql string, args ...any) ([]Progress, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.Classify(err, "progress")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Progress, error) { return scanProgress(row) })
	return out, db.Classify(err, "progress")
}

// List returns all progress records, latest report first.
func (r *Repository) List(ctx context.Context) ([]Progress, error) {
	return r.query(ctx, `SELECT `+progressColumns+` FROM progress ORDER BY report_date DESC, created_at DESC`)
}

// ListByTask returns records filed directly against a task.
func (r *Repository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]Progress, error) {
	return r.query(ctx, `SELECT `+progressColumns+` FROM progress WHERE task_id = $1 ORDER BY report_date DESC, created_at DESC`, taskID)
}

// ListBySubtask returns records filed against a subtask.
func (r *Repository) ListBySubtask(ctx context.Context, subtaskID uuid.UUID) ([]Progress, error) {
	return r.query(ctx, `SELECT `+progressColumns+` FROM progress WHERE subtask_id = $1 ORDER BY report_date DESC, created_at DESC`, subtaskID)
}

// Get loads one record.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Progress, error) {
	p, err := scanProgress(r.pool.QueryRow(ctx, `SELECT `+progressColumns+` FROM progress WHERE id = $1`, id))
	return p, db.Classify(err, "progress")
}

// TaskProject returns the project a task belongs to.
func (r *Repository) TaskProject(ctx context.Context, taskID uuid.UUID) (uuid.UUID, error) {
	var projectID uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT project_id FROM tasks WHERE id = $1`, taskID).Scan(&projectID)
	return projectID, db.Classify(err, "task")
}

// SubtaskParent returns the task and project a subtask belongs to.
func (r *Repository) SubtaskParent(ctx context.Context, subtaskID uuid.UUID) (uuid.UUID, uuid.UUID, error) {
	var taskID, projectID uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT t.id, t.project_id FROM subtasks s JOIN tasks t ON t.id = s.task_id WHERE s.id = $1`, subtaskID).
		Scan(&taskID, &projectID)
	return taskID, projectID, db.Classify(err, "subtask")
}

// Create inserts a record.
func (r *Repository) Create(ctx context.Context, p Progress) (Progress, error) {
	created, err := scanProgress(r.pool.QueryRow(ctx,
		`INSERT INTO progress (id, task_id, subtask_id, percentage, actual_cost, report_date, notes, reported_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING `+progressColumns,
		p.ID, p.TaskID, p.SubtaskID, p.Percentage, p.ActualCost, p.ReportDate.Time, p.Notes, p.ReportedBy))
	return created, db.Classify(err, "progress")
}

// Update overwrites the mutable columns.
func (r *Repository) Update(ctx context.Context, p Progress) (Progress, error) {
	updated, err := scanProgress(r.pool.QueryRow(ctx,
		`UPDATE progress SET percentage = $2, actual_cost = $3, report_date = $4, notes = $5, updated_at = NOW()
WHERE id = $1 RETURNING `+progressColumns,
		p.ID, p.Percentage, p.ActualCost, p.ReportDate.Time, p.Notes))
	return updated, db.Classify(err, "progress")
}

// Delete removes a record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM progress WHERE id = $1`, id)
	if err != nil {
		return db.Classify(err, "progress")
	}
	if tag.RowsAffected() == 0 {
		return db.Classify(pgx.ErrNoRows, "progress")
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
