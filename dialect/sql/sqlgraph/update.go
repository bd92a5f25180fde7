package sqlgraph

import (
	"context"
	"fmt"

	"github.com/syssam/relq"
	"github.com/syssam/relq/dialect"
	"github.com/syssam/relq/dialect/sql"
)

// PostUpdate is a write on the children of an updated record. It receives
// the key of the record. A PostInsert such as CreateChildren or Child
// converts to it with PostUpdate(op).
type PostUpdate func(ctx context.Context, s *Session, parentID any) error

// UpdateBuilder updates exactly one record located by its filter.
type UpdateBuilder[T Node] struct {
	cfg     *Config
	typ     *Type[T]
	where   []func(*sql.Selector)
	changes []Change
	lookups []*Lookup
	then    []PostUpdate
	with    []*RelationRequest
}

// NewUpdate returns a builder updating the record matching preds.
func NewUpdate[T Node](cfg *Config, typ *Type[T], preds ...func(*sql.Selector)) *UpdateBuilder[T] {
	return &UpdateBuilder[T]{cfg: cfg, typ: typ, where: preds}
}

// Where adds predicates to the filter.
func (b *UpdateBuilder[T]) Where(preds ...func(*sql.Selector)) *UpdateBuilder[T] {
	b.where = append(b.where, preds...)
	return b
}

// Apply appends changes to the change list.
func (b *UpdateBuilder[T]) Apply(changes ...Change) *UpdateBuilder[T] {
	b.changes = append(b.changes, changes...)
	return b
}

// Set appends a change setting field to v.
func (b *UpdateBuilder[T]) Set(field string, v any) *UpdateBuilder[T] {
	return b.Apply(SetField(field, v))
}

// Clear appends a change setting field to NULL.
func (b *UpdateBuilder[T]) Clear(field string) *UpdateBuilder[T] {
	return b.Apply(ClearField(field))
}

// Lookup attaches deferred lookups.
func (b *UpdateBuilder[T]) Lookup(lookups ...*Lookup) *UpdateBuilder[T] {
	b.lookups = append(b.lookups, lookups...)
	return b
}

// Then attaches operations run after the scalar changes are written and
// before the record is re-read. Exec runs the update and these operations
// in one transaction.
func (b *UpdateBuilder[T]) Then(ops ...PostUpdate) *UpdateBuilder[T] {
	b.then = append(b.then, ops...)
	return b
}

// With requests relations of the updated record. They are loaded by Exec
// only; ExecTx returns the record without relations.
func (b *UpdateBuilder[T]) With(names ...string) *UpdateBuilder[T] {
	b.with = append(b.with, requests(names)...)
	return b
}

// WithRelation is like With, for requests carrying filters or nested loads.
func (b *UpdateBuilder[T]) WithRelation(reqs ...*RelationRequest) *UpdateBuilder[T] {
	b.with = append(b.with, reqs...)
	return b
}

// Exec runs the update using the client driver and loads the requested
// relations.
func (b *UpdateBuilder[T]) Exec(ctx context.Context) (T, error) {
	return b.execOn(ctx, b.cfg.Driver, false)
}

// ExecTx runs the update on the given transaction.
func (b *UpdateBuilder[T]) ExecTx(ctx context.Context, tx dialect.ExecQuerier) (T, error) {
	return b.execOn(ctx, tx, true)
}

// Run implements Op.
func (b *UpdateBuilder[T]) Run(ctx context.Context, ex dialect.ExecQuerier) (any, error) {
	return b.ExecTx(ctx, ex)
}

func (b *UpdateBuilder[T]) execOn(ctx context.Context, ex dialect.ExecQuerier, tx bool) (node T, err error) {
	err = b.cfg.observe(ctx, "update", b.typ.spec.Name, tx, func(ctx context.Context) (int, error) {
		if !tx && len(b.then) > 0 {
			node, err = b.updateTx(ctx)
		} else {
			node, err = b.update(ctx, b.cfg.Session(ex), !tx)
		}
		if err != nil {
			return 0, err
		}
		return 1, nil
	})
	return node, err
}

// updateTx runs the update and its child operations in a transaction of
// its own and loads the requested relations after the commit.
func (b *UpdateBuilder[T]) updateTx(ctx context.Context) (T, error) {
	var zero T
	spec := b.typ.spec
	if err := validateRequests(b.cfg.Registry, spec, b.with); err != nil {
		return zero, err
	}
	tx, err := b.cfg.Driver.Tx(ctx)
	if err != nil {
		return zero, fmt.Errorf("relq: starting update transaction: %w", err)
	}
	node, err := b.update(ctx, b.cfg.Session(tx), false)
	if err != nil {
		return zero, Rollback(tx, err)
	}
	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("relq: committing update transaction: %w", err)
	}
	if err := loadRelations(ctx, b.cfg.Session(b.cfg.Driver), spec, []T{node}, b.with); err != nil {
		return zero, err
	}
	return node, nil
}

func (b *UpdateBuilder[T]) update(ctx context.Context, s *Session, withRelations bool) (T, error) {
	var zero T
	spec := b.typ.spec
	if withRelations {
		if err := validateRequests(s.Registry, spec, b.with); err != nil {
			return zero, err
		}
	}
	ids, cond, err := s.selectIDs(ctx, spec, b.where, 1)
	if err != nil {
		return zero, err
	}
	if len(ids) == 0 {
		return zero, relq.NewNotFoundForCondition(spec.Name, cond)
	}
	node, err := updateOne(ctx, s, b.typ, ids[0], b.lookups, b.changes, b.then)
	if err != nil {
		return zero, err
	}
	if withRelations {
		if err := loadRelations(ctx, s, spec, []T{node}, b.with); err != nil {
			return zero, err
		}
	}
	return node, nil
}

// updateOne resolves lookups, applies the change list to an empty draft,
// writes it to the row with the given key, runs the child operations and
// re-reads the row.
func updateOne[T Node](ctx context.Context, s *Session, typ *Type[T], id any, lookups []*Lookup, changes []Change, then []PostUpdate) (T, error) {
	var zero T
	d := NewDraft()
	if err := resolveLookups(ctx, s, typ.spec, d, lookups); err != nil {
		return zero, err
	}
	applyChanges(d, changes)
	if err := s.updateByID(ctx, typ.spec, id, d); err != nil {
		return zero, err
	}
	for _, op := range then {
		if err := op(ctx, s, id); err != nil {
			return zero, err
		}
	}
	return typ.get(ctx, s, id)
}

// SetChildren returns a post-update operation making ids the exact set of
// children of the updated record: fkField is cleared on the current
// children missing from ids and set to the record key on the listed ones.
// The ids must be distinct; a missing one fails with a not-found error.
func SetChildren(child *EntitySpec, fkField string, ids ...any) PostUpdate {
	return func(ctx context.Context, s *Session, parentID any) error {
		fk, err := child.Column(fkField)
		if err != nil {
			return err
		}
		if len(ids) > 0 {
			found, cond, err := s.selectIDs(ctx, child, []func(*sql.Selector){
				sql.FieldIn(child.ID.Column, ids...),
			}, 0)
			if err != nil {
				return err
			}
			if len(found) != len(ids) {
				return relq.NewNotFoundForCondition(child.Name, cond)
			}
		}
		detach := sql.EQ(fk, parentID)
		if len(ids) > 0 {
			detach = sql.And(detach, sql.NotIn(child.ID.Column, ids...))
		}
		upd := sql.Dialect(s.Dialect).Update(child.TableName()).SetNull(fk).Where(detach)
		if _, err := s.exec(ctx, upd); err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		upd = sql.Dialect(s.Dialect).Update(child.TableName()).Set(fk, parentID).Where(sql.In(child.ID.Column, ids...))
		_, err = s.exec(ctx, upd)
		return err
	}
}

// UpdateManyBuilder applies one change list to every record matching its
// filter, one record at a time. Lookups are resolved per record. A failure
// stops the loop; records updated before it stay updated unless the builder
// runs inside a batch.
type UpdateManyBuilder[T Node] struct {
	cfg     *Config
	typ     *Type[T]
	where   []func(*sql.Selector)
	changes []Change
	lookups []*Lookup
}

// NewUpdateMany returns a builder updating all records matching preds.
func NewUpdateMany[T Node](cfg *Config, typ *Type[T], preds ...func(*sql.Selector)) *UpdateManyBuilder[T] {
	return &UpdateManyBuilder[T]{cfg: cfg, typ: typ, where: preds}
}

// Where adds predicates to the filter.
func (b *UpdateManyBuilder[T]) Where(preds ...func(*sql.Selector)) *UpdateManyBuilder[T] {
	b.where = append(b.where, preds...)
	return b
}

// Apply appends changes to the change list.
func (b *UpdateManyBuilder[T]) Apply(changes ...Change) *UpdateManyBuilder[T] {
	b.changes = append(b.changes, changes...)
	return b
}

// Set appends a change setting field to v.
func (b *UpdateManyBuilder[T]) Set(field string, v any) *UpdateManyBuilder[T] {
	return b.Apply(SetField(field, v))
}

// Lookup attaches deferred lookups.
func (b *UpdateManyBuilder[T]) Lookup(lookups ...*Lookup) *UpdateManyBuilder[T] {
	b.lookups = append(b.lookups, lookups...)
	return b
}

// Exec runs the updates using the client driver and returns the number of
// updated records.
func (b *UpdateManyBuilder[T]) Exec(ctx context.Context) (int, error) {
	return b.execOn(ctx, b.cfg.Driver, false)
}

// ExecTx runs the updates on the given transaction.
func (b *UpdateManyBuilder[T]) ExecTx(ctx context.Context, tx dialect.ExecQuerier) (int, error) {
	return b.execOn(ctx, tx, true)
}

// Run implements Op.
func (b *UpdateManyBuilder[T]) Run(ctx context.Context, ex dialect.ExecQuerier) (any, error) {
	return b.ExecTx(ctx, ex)
}

func (b *UpdateManyBuilder[T]) execOn(ctx context.Context, ex dialect.ExecQuerier, tx bool) (n int, err error) {
	err = b.cfg.observe(ctx, "update_many", b.typ.spec.Name, tx, func(ctx context.Context) (int, error) {
		n, err = b.updateAll(ctx, b.cfg.Session(ex))
		return n, err
	})
	return n, err
}

func (b *UpdateManyBuilder[T]) updateAll(ctx context.Context, s *Session) (int, error) {
	ids, _, err := s.selectIDs(ctx, b.typ.spec, b.where, 0)
	if err != nil {
		return 0, err
	}
	var n int
	for _, id := range ids {
		d := NewDraft()
		if err := resolveLookups(ctx, s, b.typ.spec, d, b.lookups); err != nil {
			return n, err
		}
		applyChanges(d, b.changes)
		if err := s.updateByID(ctx, b.typ.spec, id, d); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
