package subtasks

import (
	"time"

	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/shared"
)

// Subtask is a step of a task.
type Subtask struct {
	ID          uuid.UUID   `json:"id"`
	TaskID      uuid.UUID   `json:"task_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	StartDate   shared.Date `json:"start_date"`
	EndDate     shared.Date `json:"end_date"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CreateInput is the body of POST /subtask/create.
type CreateInput struct {
	TaskID      string      `json:"task_id" validate:"required,uuid"`
	Name        string      `json:"name" validate:"required,min=2,max=150"`
	Description string      `json:"description" validate:"max=2000"`
	StartDate   shared.Date `json:"start_date" validate:"required"`
	EndDate     shared.Date `json:"end_date" validate:"required"`
	Status      string      `json:"status" validate:"omitempty,oneof=todo in_progress done blocked"`
}

// UpdateInput is the body of PUT /subtask/update/{id}. Nil fields are unchanged.
type UpdateInput struct {
	Name        *string      `json:"name" validate:"omitempty,min=2,max=150"`
	Description *string      `json:"description" validate:"omitempty,max=2000"`
	StartDate   *shared.Date `json:"start_date"`
	EndDate     *shared.Date `json:"end_date"`
	Status      *string      `json:"status" validate:"omitempty,oneof=todo in_progress done blocked"`
}
