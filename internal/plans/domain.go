package plans

import (
	"time"

	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/shared"
)

// Plan is the value of work scheduled for a project in one period. The
// dashboard sums plans up to today as planned value.
type Plan struct {
	ID           uuid.UUID   `json:"id"`
	ProjectID    uuid.UUID   `json:"project_id"`
	Period       shared.Date `json:"period"`
	PlannedValue float64     `json:"planned_value"`
	Notes        string      `json:"notes"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// CreateInput is the body of POST /plan/create.
type CreateInput struct {
	ProjectID    string      `json:"project_id" validate:"required,uuid"`
	Period       shared.Date `json:"period" validate:"required"`
	PlannedValue float64     `json:"planned_value" validate:"gte=0"`
	Notes        string      `json:"notes" validate:"max=2000"`
}

// UpdateInput is the body of PUT /plan/update/{id}. Nil fields are unchanged.
type UpdateInput struct {
	Period       *shared.Date `json:"period"`
	PlannedValue *float64     `json:"planned_value" validate:"omitempty,gte=0"`
	Notes        *string      `json:"notes" validate:"omitempty,max=2000"`
}
