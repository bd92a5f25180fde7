package sqlgraph

import (
	"context"

	"github.com/syssam/relq"
	"github.com/syssam/relq/dialect"
	"github.com/syssam/relq/dialect/sql"
)

// DeleteBuilder deletes the one record matching its filter.
type DeleteBuilder struct {
	cfg   *Config
	spec  *EntitySpec
	where []func(*sql.Selector)
}

// NewDelete returns a builder deleting the record matching preds.
func NewDelete(cfg *Config, spec *EntitySpec, preds ...func(*sql.Selector)) *DeleteBuilder {
	return &DeleteBuilder{cfg: cfg, spec: spec, where: preds}
}

// Where adds predicates to the filter.
func (b *DeleteBuilder) Where(preds ...func(*sql.Selector)) *DeleteBuilder {
	b.where = append(b.where, preds...)
	return b
}

// Exec deletes the record using the client driver. It returns a
// *relq.NotFoundError when nothing matches.
func (b *DeleteBuilder) Exec(ctx context.Context) error {
	return b.execOn(ctx, b.cfg.Driver, false)
}

// ExecTx deletes the record on the given transaction.
func (b *DeleteBuilder) ExecTx(ctx context.Context, tx dialect.ExecQuerier) error {
	return b.execOn(ctx, tx, true)
}

// Run implements Op. The result is always nil.
func (b *DeleteBuilder) Run(ctx context.Context, ex dialect.ExecQuerier) (any, error) {
	return nil, b.ExecTx(ctx, ex)
}

func (b *DeleteBuilder) execOn(ctx context.Context, ex dialect.ExecQuerier, tx bool) error {
	return b.cfg.observe(ctx, "delete", b.spec.Name, tx, func(ctx context.Context) (int, error) {
		s := b.cfg.Session(ex)
		ids, cond, err := s.selectIDs(ctx, b.spec, b.where, 1)
		if err != nil {
			return 0, err
		}
		if len(ids) == 0 {
			return 0, relq.NewNotFoundForCondition(b.spec.Name, cond)
		}
		del := sql.Dialect(s.Dialect).Delete(b.spec.TableName()).Where(sql.EQ(b.spec.ID.Column, ids[0]))
		if _, err := s.exec(ctx, del); err != nil {
			return 0, err
		}
		return 1, nil
	})
}

// DeleteManyBuilder deletes every record matching its filter.
type DeleteManyBuilder struct {
	cfg   *Config
	spec  *EntitySpec
	where []func(*sql.Selector)
}

// NewDeleteMany returns a builder deleting all records matching preds.
func NewDeleteMany(cfg *Config, spec *EntitySpec, preds ...func(*sql.Selector)) *DeleteManyBuilder {
	return &DeleteManyBuilder{cfg: cfg, spec: spec, where: preds}
}

// Where adds predicates to the filter.
func (b *DeleteManyBuilder) Where(preds ...func(*sql.Selector)) *DeleteManyBuilder {
	b.where = append(b.where, preds...)
	return b
}

// Exec deletes the records using the client driver and returns the number
// of deleted rows.
func (b *DeleteManyBuilder) Exec(ctx context.Context) (int, error) {
	return b.execOn(ctx, b.cfg.Driver, false)
}

// ExecTx deletes the records on the given transaction.
func (b *DeleteManyBuilder) ExecTx(ctx context.Context, tx dialect.ExecQuerier) (int, error) {
	return b.execOn(ctx, tx, true)
}

// Run implements Op.
func (b *DeleteManyBuilder) Run(ctx context.Context, ex dialect.ExecQuerier) (any, error) {
	return b.ExecTx(ctx, ex)
}

func (b *DeleteManyBuilder) execOn(ctx context.Context, ex dialect.ExecQuerier, tx bool) (n int, err error) {
	err = b.cfg.observe(ctx, "delete_many", b.spec.Name, tx, func(ctx context.Context) (int, error) {
		s := b.cfg.Session(ex)
		sel := s.selector(b.spec, b.where)
		del := sql.Dialect(s.Dialect).Delete(b.spec.TableName())
		if p := sel.P(); p != nil {
			del.Where(p)
		}
		res, err := s.exec(ctx, del)
		if err != nil {
			return 0, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		n = int(affected)
		return n, nil
	})
	return n, err
}
