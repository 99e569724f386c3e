package projects

import (
	"time"

	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/shared"
)

// Project statuses.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusOnHold     = "on_hold"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Project is a construction project with a budget and schedule.
type Project struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	CategoryID  *uuid.UUID  `json:"category_id"`
	OwnerID     uuid.UUID   `json:"owner_id"`
	StartDate   shared.Date `json:"start_date"`
	EndDate     shared.Date `json:"end_date"`
	Budget      float64     `json:"budget"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CreateInput is the body of POST /project/create. The owner defaults to the
// caller.
type CreateInput struct {
	Name        string      `json:"name" validate:"required,min=3,max=150"`
	Description string      `json:"description" validate:"max=2000"`
	Location    string      `json:"location" validate:"max=255"`
	CategoryID  *string     `json:"category_id" validate:"omitempty,uuid"`
	OwnerID     *string     `json:"owner_id" validate:"omitempty,uuid"`
	StartDate   shared.Date `json:"start_date" validate:"required"`
	EndDate     shared.Date `json:"end_date" validate:"required"`
	Budget      float64     `json:"budget" validate:"gte=0"`
	Status      string      `json:"status" validate:"omitempty,oneof=planned in_progress on_hold completed cancelled"`
}

// UpdateInput is the body of PUT /project/update/{id}. Nil fields are unchanged.
type UpdateInput struct {
	Name        *string      `json:"name" validate:"omitempty,min=3,max=150"`
	Description *string      `json:"description" validate:"omitempty,max=2000"`
	Location    *string      `json:"location" validate:"omitempty,max=255"`
	CategoryID  *string      `json:"category_id" validate:"omitempty,uuid"`
	OwnerID     *string      `json:"owner_id" validate:"omitempty,uuid"`
	StartDate   *shared.Date `json:"start_date"`
	EndDate     *shared.Date `json:"end_date"`
	Budget      *float64     `json:"budget" validate:"omitempty,gte=0"`
	Status      *string      `json:"status" validate:"omitempty,oneof=planned in_progress on_hold completed cancelled"`
}
