package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/buildtrack/buildtrack/internal/shared"
)

// Issuer signs tokens for an authenticated account.
type Issuer interface {
	Issue(userID uuid.UUID, role Role) (string, time.Time, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	issuer Issuer
	hasher Hasher
}

// NewService constructs a new Service.
func NewService(repo Repository, issuer Issuer, hasher Hasher) *Service {
	return &Service{repo: repo, issuer: issuer, hasher: hasher}
}

// Login checks credentials and issues a token. Unknown usernames are NotFound
// and wrong passwords are a validation failure.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if shared.KindOf(err) == shared.KindNotFound {
			return LoginResult{}, shared.NotFound("user")
		}
		return LoginResult{}, shared.AsError(err, "failed to load user")
	}
	ok, err := s.hasher.Matches(account.PasswordHash, password)
	if err != nil {
		return LoginResult{}, shared.Internal("failed to verify password", err)
	}
	if !ok {
		return LoginResult{}, shared.Invalid("invalid password")
	}
	token, expiresAt, err := s.issuer.Issue(account.ID, ParseRole(account.RoleName))
	if err != nil {
		return LoginResult{}, shared.Internal("failed to issue token", err)
	}
	return LoginResult{Profile: account.Profile(), Token: token, ExpiresAt: expiresAt}, nil
}

// Me returns the profile of the authenticated identity.
func (s *Service) Me(ctx context.Context, id Identity) (Profile, error) {
	account, err := s.repo.FindByID(ctx, id.UserID)
	if err != nil {
		return Profile{}, shared.AsError(err, "failed to load user")
	}
	return account.Profile(), nil
}
