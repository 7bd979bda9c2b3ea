package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const txKey contextKey = "db_tx"

// TxFromContext retrieves the transaction placed in the context by WithTx,
// or nil when the call is not running inside a transaction. Repositories
// check this first so that multi-repository operations share one transaction.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey).(pgx.Tx)
	return tx
}

// Runner executes a function inside a database transaction. Services depend
// on this interface rather than on the pool so tests can substitute a no-op.
type Runner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PoolRunner is the pgx-backed Runner used in production.
type PoolRunner struct {
	Pool *pgxpool.Pool
}

// WithTx begins a transaction, stores it in the context for repositories to
// pick up via TxFromContext, and commits or rolls back based on fn's error.
func (r *PoolRunner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
