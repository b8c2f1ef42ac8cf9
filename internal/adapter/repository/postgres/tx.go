package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type pgxPool interface {
	Begin(context.Context) (pgx.Tx, error)
}

// inTx runs fn in a pgx transaction, committing on success.
// Rollback after a successful commit is a no-op.
func inTx(ctx context.Context, pool pgxPool, fn func(pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
