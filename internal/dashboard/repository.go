package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildtrack/buildtrack/internal/platform/db"
)

// A NULL project filter selects the whole portfolio.
const (
	projectsSQL = `SELECT id, name, status, budget FROM projects
WHERE ($1::uuid IS NULL OR id = $1) ORDER BY name`

	tasksSQL = `SELECT t.project_id, t.status, lp.percentage
FROM tasks t
LEFT JOIN LATERAL (
    SELECT p.percentage FROM progress p
    WHERE p.task_id = t.id
    ORDER BY p.report_date DESC, p.created_at DESC
    LIMIT 1
) lp ON TRUE
WHERE ($1::uuid IS NULL OR t.project_id = $1)`

	plannedSQL = `SELECT project_id, COALESCE(SUM(planned_value), 0)
FROM plans
WHERE period <= $2 AND ($1::uuid IS NULL OR project_id = $1)
GROUP BY project_id`

	actualSQL = `SELECT t.project_id, COALESCE(SUM(p.actual_cost), 0)
FROM progress p
LEFT JOIN subtasks s ON s.id = p.subtask_id
JOIN tasks t ON t.id = COALESCE(p.task_id, s.task_id)
WHERE ($1::uuid IS NULL OR t.project_id = $1)
GROUP BY t.project_id`
)

// Repository reads earned value inputs from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Facts loads the inputs for one project, or every project when projectID is nil.
func (r *Repository) Facts(ctx context.Context, projectID *uuid.UUID, asOf time.Time) ([]ProjectFacts, error) {
	rows, err := r.pool.Query(ctx, projectsSQL, projectID)
	if err != nil {
		return nil, db.Classify(err, "project")
	}
	facts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ProjectFacts, error) {
		var f ProjectFacts
		err := row.Scan(&f.ProjectID, &f.Name, &f.Status, &f.Budget)
		return f, err
	})
	if err != nil {
		return nil, db.Classify(err, "project")
	}
	if projectID != nil && len(facts) == 0 {
		return nil, db.Classify(pgx.ErrNoRows, "project")
	}
	index := make(map[uuid.UUID]*ProjectFacts, len(facts))
	for i := range facts {
		index[facts[i].ProjectID] = &facts[i]
	}

	rows, err = r.pool.Query(ctx, tasksSQL, projectID)
	if err != nil {
		return nil, db.Classify(err, "task")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			pid     uuid.UUID
			status  string
			percent *float64
		)
		if err := rows.Scan(&pid, &status, &percent); err != nil {
			return nil, db.Classify(err, "task")
		}
		if f, ok := index[pid]; ok {
			t := TaskFact{Status: status}
			if percent != nil {
				t.Percent, t.HasProgress = *percent, true
			}
			f.Tasks = append(f.Tasks, t)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, db.Classify(err, "task")
	}

	if err := r.sums(ctx, plannedSQL, index, func(f *ProjectFacts, v float64) { f.PlannedToDate = v }, projectID, asOf); err != nil {
		return nil, err
	}
	if err := r.sums(ctx, actualSQL, index, func(f *ProjectFacts, v float64) { f.ActualCost = v }, projectID); err != nil {
		return nil, err
	}
	return facts, nil
}

func (r *Repository) sums(ctx context.Context, sql string, index map[uuid.UUID]*ProjectFacts, set func(*ProjectFacts, float64), args ...any) error {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return db.Classify(err, "project")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			pid uuid.UUID
			v   float64
		)
		if err := rows.Scan(&pid, &v); err != nil {
			return db.Classify(err, "project")
		}
		if f, ok := index[pid]; ok {
			set(f, v)
		}
	}
	return db.Classify(rows.Err(), "project")
}

var _ FactSource = (*Repository)(nil)
