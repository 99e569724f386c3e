package roles

import (
	"time"

	"github.com/google/uuid"
)

// Role is a named permission level users are assigned to.
type Role struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateInput is the body of POST /role/create.
type CreateInput struct {
	Name        string `json:"name" validate:"required,oneof=RootAdmin Admin CEO Manager Employee"`
	Description string `json:"description" validate:"max=255"`
}

// UpdateInput is the body of PUT /role/update/{id}. Nil fields are unchanged.
type UpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,oneof=RootAdmin Admin CEO Manager Employee"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}
