package tasks

import (
	"time"

	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/shared"
)

// Task statuses, shared with subtasks.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusBlocked    = "blocked"
)

// Task is a unit of work inside a project.
type Task struct {
	ID          uuid.UUID   `json:"id"`
	ProjectID   uuid.UUID   `json:"project_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	AssigneeID  *uuid.UUID  `json:"assignee_id"`
	StartDate   shared.Date `json:"start_date"`
	EndDate     shared.Date `json:"end_date"`
	Status      string      `json:"status"`
	Weight      float64     `json:"weight"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CreateInput is the body of POST /task/create.
type CreateInput struct {
	ProjectID   string      `json:"project_id" validate:"required,uuid"`
	Name        string      `json:"name" validate:"required,min=2,max=150"`
	Description string      `json:"description" validate:"max=2000"`
	AssigneeID  *string     `json:"assignee_id" validate:"omitempty,uuid"`
	StartDate   shared.Date `json:"start_date" validate:"required"`
	EndDate     shared.Date `json:"end_date" validate:"required"`
	Status      string      `json:"status" validate:"omitempty,oneof=todo in_progress done blocked"`
	Weight      *float64    `json:"weight" validate:"omitempty,gt=0,lte=1000"`
}

// UpdateInput is the body of PUT /task/update/{id}. Nil fields are unchanged;
// a task cannot move between projects.
type UpdateInput struct {
	Name        *string      `json:"name" validate:"omitempty,min=2,max=150"`
	Description *string      `json:"description" validate:"omitempty,max=2000"`
	AssigneeID  *string      `json:"assignee_id" validate:"omitempty,uuid"`
	StartDate   *shared.Date `json:"start_date"`
	EndDate     *shared.Date `json:"end_date"`
	Status      *string      `json:"status" validate:"omitempty,oneof=todo in_progress done blocked"`
	Weight      *float64     `json:"weight" validate:"omitempty,gt=0,lte=1000"`
}
