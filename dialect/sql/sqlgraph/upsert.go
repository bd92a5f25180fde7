package sqlgraph

import (
	"context"

	"github.com/syssam/relq/dialect"
	"github.com/syssam/relq/dialect/sql"
)

// UpsertBuilder updates the record matching its filter, or creates it.
// One change list serves both paths: on a match it is the whole update; on
// a miss it is applied on top of the create draft.
type UpsertBuilder[T Node] struct {
	cfg     *Config
	typ     *Type[T]
	where   []func(*sql.Selector)
	create  *CreateBuilder[T]
	changes []Change
}

// NewUpsert returns an upsert of the record matching preds. create
// describes the record inserted when nothing matches.
func NewUpsert[T Node](cfg *Config, typ *Type[T], create *CreateBuilder[T], preds ...func(*sql.Selector)) *UpsertBuilder[T] {
	if create == nil {
		create = NewCreate(cfg, typ, nil)
	}
	return &UpsertBuilder[T]{cfg: cfg, typ: typ, where: preds, create: create}
}

// Where adds predicates to the filter.
func (b *UpsertBuilder[T]) Where(preds ...func(*sql.Selector)) *UpsertBuilder[T] {
	b.where = append(b.where, preds...)
	return b
}

// Apply appends changes to the change list.
func (b *UpsertBuilder[T]) Apply(changes ...Change) *UpsertBuilder[T] {
	b.changes = append(b.changes, changes...)
	return b
}

// Set appends a change setting field to v.
func (b *UpsertBuilder[T]) Set(field string, v any) *UpsertBuilder[T] {
	return b.Apply(SetField(field, v))
}

// Create returns the create part of the upsert, for attaching lookups and
// post-insert operations.
func (b *UpsertBuilder[T]) Create() *CreateBuilder[T] { return b.create }

// Exec runs the upsert using the client driver.
func (b *UpsertBuilder[T]) Exec(ctx context.Context) (T, error) {
	return b.execOn(ctx, b.cfg.Driver, false)
}

// ExecTx runs the upsert on the given transaction.
func (b *UpsertBuilder[T]) ExecTx(ctx context.Context, tx dialect.ExecQuerier) (T, error) {
	return b.execOn(ctx, tx, true)
}

// Run implements Op.
func (b *UpsertBuilder[T]) Run(ctx context.Context, ex dialect.ExecQuerier) (any, error) {
	return b.ExecTx(ctx, ex)
}

func (b *UpsertBuilder[T]) execOn(ctx context.Context, ex dialect.ExecQuerier, tx bool) (node T, err error) {
	err = b.cfg.observe(ctx, "upsert", b.typ.spec.Name, tx, func(ctx context.Context) (int, error) {
		node, err = b.upsert(ctx, b.cfg.Session(ex))
		if err != nil {
			return 0, err
		}
		return 1, nil
	})
	return node, err
}

func (b *UpsertBuilder[T]) upsert(ctx context.Context, s *Session) (T, error) {
	var zero T
	ids, _, err := s.selectIDs(ctx, b.typ.spec, b.where, 1)
	if err != nil {
		return zero, err
	}
	if len(ids) > 0 {
		return updateOne(ctx, s, b.typ, ids[0], nil, b.changes, nil)
	}
	d := b.create.draft.Clone()
	if err := resolveLookups(ctx, s, b.typ.spec, d, b.create.lookups); err != nil {
		return zero, err
	}
	applyChanges(d, b.changes)
	return b.create.insert(ctx, s, d)
}
