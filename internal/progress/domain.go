package progress

import (
	"time"

	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/shared"
)

// Progress is a field report against a task, a subtask, or both.
type Progress struct {
	ID         uuid.UUID   `json:"id"`
	TaskID     *uuid.UUID  `json:"task_id"`
	SubtaskID  *uuid.UUID  `json:"subtask_id"`
	Percentage float64     `json:"percentage"`
	ActualCost float64     `json:"actual_cost"`
	ReportDate shared.Date `json:"report_date"`
	Notes      string      `json:"notes"`
	ReportedBy *uuid.UUID  `json:"reported_by"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// CreateInput is the body of POST /progress/create. At least one of task_id
// and subtask_id is required; report_date defaults to today.
type CreateInput struct {
	TaskID     string      `json:"task_id" validate:"required_without=SubtaskID,omitempty,uuid"`
	SubtaskID  string      `json:"subtask_id" validate:"required_without=TaskID,omitempty,uuid"`
	Percentage float64     `json:"percentage" validate:"gte=0,lte=100"`
	ActualCost float64     `json:"actual_cost" validate:"gte=0"`
	ReportDate shared.Date `json:"report_date"`
	Notes      string      `json:"notes" validate:"max=2000"`
}

// UpdateInput is the body of PUT /progress/update/{id}. The target task or
// subtask cannot change.
type UpdateInput struct {
	Percentage *float64     `json:"percentage" validate:"omitempty,gte=0,lte=100"`
	ActualCost *float64     `json:"actual_cost" validate:"omitempty,gte=0"`
	ReportDate *shared.Date `json:"report_date"`
	Notes      *string      `json:"notes" validate:"omitempty,max=2000"`
}
