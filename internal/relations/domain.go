package relations

import (
	"time"

	"github.com/google/uuid"
)

// Relation links a user to a project they work on.
type Relation struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProjectID uuid.UUID `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateInput is the body of POST /relations/create.
type CreateInput struct {
	UserID    string `json:"user_id" validate:"required,uuid"`
	ProjectID string `json:"project_id" validate:"required,uuid"`
}
