package resources

import (
	"time"

	"github.com/google/uuid"
)

// Resource kinds.
const (
	KindMaterial  = "material"
	KindLabor     = "labor"
	KindEquipment = "equipment"
)

// Resource is material, labour or equipment allocated to a project.
type Resource struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	UnitCost  float64   `json:"unit_cost"`
	TotalCost float64   `json:"total_cost"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Resource) computeTotal() {
	r.TotalCost = r.Quantity * r.UnitCost
}

// CreateInput is the body of POST /resource/create.
type CreateInput struct {
	ProjectID string  `json:"project_id" validate:"required,uuid"`
	Name      string  `json:"name" validate:"required,min=2,max=150"`
	Kind      string  `json:"kind" validate:"required,oneof=material labor equipment"`
	Quantity  float64 `json:"quantity" validate:"gte=0"`
	Unit      string  `json:"unit" validate:"max=32"`
	UnitCost  float64 `json:"unit_cost" validate:"gte=0"`
}

// UpdateInput is the body of PUT /resource/update/{id}. Nil fields are unchanged.
type UpdateInput struct {
	Name     *string  `json:"name" validate:"omitempty,min=2,max=150"`
	Kind     *string  `json:"kind" validate:"omitempty,oneof=material labor equipment"`
	Quantity *float64 `json:"quantity" validate:"omitempty,gte=0"`
	Unit     *string  `json:"unit" validate:"omitempty,max=32"`
	UnitCost *float64 `json:"unit_cost" validate:"omitempty,gte=0"`
}
