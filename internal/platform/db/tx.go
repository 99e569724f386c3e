package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx shared by pools and transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WithTx executes a function within a transaction using the RepeatableRead isolation level.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("platform/db: begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("platform/db: commit tx: %w", err)
	}

	return nil
}

// DeleteCascade runs each dependent statement and then target, all with id as
// $1, inside one transaction. A target that removes no row is NotFound.
func DeleteCascade(ctx context.Context, pool *pgxpool.Pool, entity string, id any, target string, dependents ...string) error {
	return WithTx(ctx, pool, func(tx pgx.Tx) error {
		return deleteWith(ctx, tx, entity, id, target, dependents)
	})
}

func deleteWith(ctx context.Context, q Querier, entity string, id any, target string, dependents []string) error {
	for _, stmt := range dependents {
		if _, err := q.Exec(ctx, stmt, id); err != nil {
			return Classify(err, entity)
		}
	}
	tag, err := q.Exec(ctx, target, id)
	if err != nil {
		return Classify(err, entity)
	}
	if tag.RowsAffected() == 0 {
		return Classify(pgx.ErrNoRows, entity)
	}
	return nil
}
