package db

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/buildtrack/buildtrack/internal/shared"
)

// PostgreSQL SQLSTATE codes translated by Classify.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// Classify converts a pgx error into the service error taxonomy. entity names
// the record for NotFound and Conflict messages.
func Classify(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.NotFound(entity)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return shared.Conflict("%s already exists", entity)
		case codeForeignKeyViolation:
			return &shared.Error{Kind: shared.KindNotFound, Message: "referenced record not found", Err: err}
		case codeCheckViolation:
			return &shared.Error{Kind: shared.KindValidation, Message: entity + " violates a constraint", Err: err}
		}
	}
	return shared.AsError(err, "database error on "+entity)
}
