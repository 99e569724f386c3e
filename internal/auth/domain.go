package auth

import (
	"time"

	"github.com/google/uuid"
)

// Account is a user row joined with its role name, as needed for login.
type Account struct {
	ID           uuid.UUID
	Username     string
	FullName     string
	Email        string
	PasswordHash string
	RoleID       uuid.UUID
	RoleName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the account as returned to clients; it never carries the password.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	RoleID    uuid.UUID `json:"role_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile strips credentials from the account.
func (a Account) Profile() Profile {
	return Profile{
		ID:        a.ID,
		Username:  a.Username,
		FullName:  a.FullName,
		Email:     a.Email,
		RoleID:    a.RoleID,
		Role:      ParseRole(a.RoleName),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// LoginResult carries the issued token alongside the profile.
type LoginResult struct {
	Profile   Profile
	Token     string
	ExpiresAt time.Time
}
