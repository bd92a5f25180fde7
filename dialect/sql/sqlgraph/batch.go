package sqlgraph

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/relq"
	"github.com/syssam/relq/dialect"
)

// Batch runs ops in order inside one transaction and returns one result per
// op. The first failure rolls the transaction back, so none of the ops has a
// visible effect afterwards.
func Batch(ctx context.Context, drv dialect.Driver, ops ...Op) ([]any, error) {
	tx, err := drv.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("relq: starting batch transaction: %w", err)
	}
	results := make([]any, 0, len(ops))
	for _, op := range ops {
		v, err := op.Run(ctx, tx)
		if err != nil {
			return nil, Rollback(tx, err)
		}
		results = append(results, v)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("relq: committing batch transaction: %w", err)
	}
	return results, nil
}

// Rollback rolls tx back after err and returns err, joined with a
// *relq.RollbackError when the rollback fails as well.
func Rollback(tx dialect.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		return errors.Join(err, &relq.RollbackError{Err: rerr})
	}
	return err
}
