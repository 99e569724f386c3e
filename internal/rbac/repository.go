package rbac

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildtrack/buildtrack/internal/platform/db"
)

// PGMembershipStore implements MembershipStore using PostgreSQL.
type PGMembershipStore struct {
	pool *pgxpool.Pool
}

// NewMembershipStore constructs a PostgreSQL backed store.
func NewMembershipStore(pool *pgxpool.Pool) *PGMembershipStore {
	return &PGMembershipStore{pool: pool}
}

// ProjectOwner returns the owner of projectID or a NotFound error.
func (s *PGMembershipStore) ProjectOwner(ctx context.Context, projectID uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	err := s.pool.QueryRow(ctx, `SELECT owner_id FROM projects WHERE id = $1`, projectID).Scan(&owner)
	if err != nil {
		return uuid.Nil, db.Classify(err, "project")
	}
	return owner, nil
}

// HasRelation reports whether userID is related to projectID.
func (s *PGMembershipStore) HasRelation(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM relations WHERE user_id = $1 AND project_id = $2)`, userID, projectID).Scan(&exists)
	if err != nil {
		return false, db.Classify(err, "relation")
	}
	return exists, nil
}

var _ MembershipStore = (*PGMembershipStore)(nil)
