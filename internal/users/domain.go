package users

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user account for management.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	RoleID       uuid.UUID `json:"role_id"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateInput is the body of POST /user/create.
type CreateInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	FullName string `json:"full_name" validate:"required,max=128"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	RoleID   string `json:"role_id" validate:"required,uuid"`
	Password string `json:"password" validate:"required,min=6,bcryptlen"`
}

// UpdateInput is the body of PUT /user/update/{id}. Nil fields are unchanged.
type UpdateInput struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=64"`
	FullName *string `json:"full_name" validate:"omitempty,max=128"`
	Email    *string `json:"email" validate:"omitempty,email,max=254"`
	RoleID   *string `json:"role_id" validate:"omitempty,uuid"`
	Password *string `json:"password" validate:"omitempty,min=6,bcryptlen"`
}
