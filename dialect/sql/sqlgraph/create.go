package sqlgraph

import (
	"context"

	"github.com/syssam/relq/dialect"
)

// PostInsert is a write that depends on the key of a freshly inserted
// parent, e.g. the creation of its children.
type PostInsert func(ctx context.Context, s *Session, parentID any) error

// CreateBuilder inserts one record. Lookups are resolved before the insert;
// post-insert operations run after it, in the order they were attached.
type CreateBuilder[T Node] struct {
	cfg     *Config
	typ     *Type[T]
	draft   *Draft
	lookups []*Lookup
	then    []PostInsert
	key     func(T) (any, error)
}

// NewCreate returns a builder inserting the given draft. A nil draft
// inserts a row of defaults.
func NewCreate[T Node](cfg *Config, typ *Type[T], d *Draft) *CreateBuilder[T] {
	if d == nil {
		d = NewDraft()
	}
	return &CreateBuilder[T]{cfg: cfg, typ: typ, draft: d}
}

// Set sets a field of the draft.
func (b *CreateBuilder[T]) Set(field string, v any) *CreateBuilder[T] {
	b.draft.Set(field, v)
	return b
}

// Lookup attaches deferred lookups.
func (b *CreateBuilder[T]) Lookup(lookups ...*Lookup) *CreateBuilder[T] {
	b.lookups = append(b.lookups, lookups...)
	return b
}

// Then attaches post-insert operations.
func (b *CreateBuilder[T]) Then(ops ...PostInsert) *CreateBuilder[T] {
	b.then = append(b.then, ops...)
	return b
}

// KeyFunc overrides how the parent key passed to post-insert operations is
// read from the inserted record. It defaults to the ID field.
func (b *CreateBuilder[T]) KeyFunc(fn func(T) (any, error)) *CreateBuilder[T] {
	b.key = fn
	return b
}

// Draft returns the draft of the builder.
func (b *CreateBuilder[T]) Draft() *Draft { return b.draft }

// Exec inserts the record using the client driver.
func (b *CreateBuilder[T]) Exec(ctx context.Context) (T, error) {
	return b.execOn(ctx, b.cfg.Driver, false)
}

// ExecTx inserts the record on the given transaction.
func (b *CreateBuilder[T]) ExecTx(ctx context.Context, tx dialect.ExecQuerier) (T, error) {
	return b.execOn(ctx, tx, true)
}

// Run implements Op.
func (b *CreateBuilder[T]) Run(ctx context.Context, ex dialect.ExecQuerier) (any, error) {
	return b.ExecTx(ctx, ex)
}

func (b *CreateBuilder[T]) execOn(ctx context.Context, ex dialect.ExecQuerier, tx bool) (node T, err error) {
	err = b.cfg.observe(ctx, "create", b.typ.spec.Name, tx, func(ctx context.Context) (int, error) {
		node, err = b.create(ctx, b.cfg.Session(ex))
		if err != nil {
			return 0, err
		}
		return 1, nil
	})
	return node, err
}

// create runs the whole create protocol on a copy of the draft, so the
// builder draft is never modified.
func (b *CreateBuilder[T]) create(ctx context.Context, s *Session) (T, error) {
	d := b.draft.Clone()
	if err := resolveLookups(ctx, s, b.typ.spec, d, b.lookups); err != nil {
		var zero T
		return zero, err
	}
	return b.insert(ctx, s, d)
}

// insert writes d, re-reads the row so unset fields carry store defaults,
// and runs the post-insert operations off the new key.
func (b *CreateBuilder[T]) insert(ctx context.Context, s *Session, d *Draft) (T, error) {
	var zero T
	id, err := s.insertDraft(ctx, b.typ.spec, d)
	if err != nil {
		return zero, err
	}
	node, err := b.typ.get(ctx, s, id)
	if err != nil {
		return zero, err
	}
	key := b.typ.keyOf
	if b.key != nil {
		key = b.key
	}
	parentID, err := key(node)
	if err != nil {
		return zero, err
	}
	for _, op := range b.then {
		if err := op(ctx, s, parentID); err != nil {
			return zero, err
		}
	}
	return node, nil
}

// CreateChildren returns a post-insert operation inserting one child row per
// draft, with fkField set to the parent key.
func CreateChildren(child *EntitySpec, fkField string, drafts ...*Draft) PostInsert {
	return func(ctx context.Context, s *Session, parentID any) error {
		for _, d := range drafts {
			if _, err := s.insertDraft(ctx, child, d.Clone().Set(fkField, parentID)); err != nil {
				return err
			}
		}
		return nil
	}
}

// Child returns a post-insert operation running a full create builder for a
// child record, with its own lookups and post-insert operations, after
// setting fkField to the parent key.
func Child[C Node](b *CreateBuilder[C], fkField string) PostInsert {
	return func(ctx context.Context, s *Session, parentID any) error {
		c := *b
		c.draft = b.draft.Clone().Set(fkField, parentID)
		_, err := c.create(ctx, s)
		return err
	}
}
