package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/buildtrack/buildtrack/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id uuid.UUID) (User, error)
	UsernameTaken(ctx context.Context, username string, except uuid.UUID) (bool, error)
	RoleExists(ctx context.Context, roleID uuid.UUID) (bool, error)
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	CountOwnedProjects(ctx context.Context, id uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PasswordHasher produces stored password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Service handles user business logic.
type Service struct {
	repo   RepositoryPort
	hasher PasswordHasher
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, hasher PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	return users, shared.AsError(err, "failed to list users")
}

// Get returns one user.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (User, error) {
	u, err := s.repo.Get(ctx, id)
	return u, shared.AsError(err, "failed to load user")
}

// Create registers a user with a hashed password.
func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	roleID, err := shared.ParseID("role_id", in.RoleID)
	if err != nil {
		return User{}, err
	}
	if err := s.ensureUsernameFree(ctx, in.Username, uuid.Nil); err != nil {
		return User{}, err
	}
	if err := s.ensureRole(ctx, roleID); err != nil {
		return User{}, err
	}
	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:           uuid.New(),
		Username:     in.Username,
		FullName:     in.FullName,
		Email:        in.Email,
		RoleID:       roleID,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, shared.AsError(err, "failed to create user")
	}
	return s.Get(ctx, u.ID)
}

// Update merges the provided fields into an existing user.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if in.Username != nil && *in.Username != u.Username {
		if err := s.ensureUsernameFree(ctx, *in.Username, id); err != nil {
			return User{}, err
		}
		u.Username = *in.Username
	}
	if in.RoleID != nil {
		roleID, err := shared.ParseID("role_id", *in.RoleID)
		if err != nil {
			return User{}, err
		}
		if roleID != u.RoleID {
			if err := s.ensureRole(ctx, roleID); err != nil {
				return User{}, err
			}
			u.RoleID = roleID
		}
	}
	if in.FullName != nil {
		u.FullName = *in.FullName
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := s.hashPassword(*in.Password)
		if err != nil {
			return User{}, err
		}
		u.PasswordHash = hash
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, shared.AsError(err, "failed to update user")
	}
	return s.Get(ctx, id)
}

// Delete removes a user that owns no projects.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	n, err := s.repo.CountOwnedProjects(ctx, id)
	if err != nil {
		return User{}, shared.AsError(err, "failed to count owned projects")
	}
	if n > 0 {
		return User{}, shared.Conflict("user %s owns %d project(s)", u.Username, n)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return User{}, shared.AsError(err, "failed to delete user")
	}
	return u, nil
}

func (s *Service) ensureUsernameFree(ctx context.Context, username string, except uuid.UUID) error {
	taken, err := s.repo.UsernameTaken(ctx, username, except)
	if err != nil {
		return shared.AsError(err, "failed to check username")
	}
	if taken {
		return shared.Conflict("username %s already exists", username)
	}
	return nil
}

func (s *Service) ensureRole(ctx context.Context, roleID uuid.UUID) error {
	ok, err := s.repo.RoleExists(ctx, roleID)
	if err != nil {
		return shared.AsError(err, "failed to check role")
	}
	if !ok {
		return shared.NotFound("role")
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	switch {
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return "", shared.Invalid("password must be at most 72 bytes")
	case err != nil:
		return "", shared.Internal("failed to hash password", err)
	}
	return hash, nil
}
