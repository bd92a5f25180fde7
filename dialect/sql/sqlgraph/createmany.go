package sqlgraph

import (
	"context"

	"github.com/syssam/relq/dialect"
)

// CreateManyBuilder inserts several records one after the other. Each item
// keeps its own draft, lookups and post-insert operations. A failing item
// stops the loop; items inserted before it stay inserted unless the builder
// runs inside a batch.
type CreateManyBuilder[T Node] struct {
	cfg   *Config
	typ   *Type[T]
	items []*CreateBuilder[T]
}

// NewCreateMany returns a builder inserting the given items.
func NewCreateMany[T Node](cfg *Config, typ *Type[T], items ...*CreateBuilder[T]) *CreateManyBuilder[T] {
	return &CreateManyBuilder[T]{cfg: cfg, typ: typ, items: items}
}

// Add appends items.
func (b *CreateManyBuilder[T]) Add(items ...*CreateBuilder[T]) *CreateManyBuilder[T] {
	b.items = append(b.items, items...)
	return b
}

// AddDrafts appends one plain item per draft.
func (b *CreateManyBuilder[T]) AddDrafts(drafts ...*Draft) *CreateManyBuilder[T] {
	for _, d := range drafts {
		b.items = append(b.items, NewCreate(b.cfg, b.typ, d))
	}
	return b
}

// Exec inserts the items using the client driver. It returns the number of
// inserted records, also when an item fails.
func (b *CreateManyBuilder[T]) Exec(ctx context.Context) (int, error) {
	return b.execOn(ctx, b.cfg.Driver, false)
}

// ExecTx inserts the items on the given transaction.
func (b *CreateManyBuilder[T]) ExecTx(ctx context.Context, tx dialect.ExecQuerier) (int, error) {
	return b.execOn(ctx, tx, true)
}

// Run implements Op.
func (b *CreateManyBuilder[T]) Run(ctx context.Context, ex dialect.ExecQuerier) (any, error) {
	return b.ExecTx(ctx, ex)
}

func (b *CreateManyBuilder[T]) execOn(ctx context.Context, ex dialect.ExecQuerier, tx bool) (n int, err error) {
	err = b.cfg.observe(ctx, "create_many", b.typ.spec.Name, tx, func(ctx context.Context) (int, error) {
		s := b.cfg.Session(ex)
		for _, item := range b.items {
			if _, err := item.create(ctx, s); err != nil {
				return n, err
			}
			n++
		}
		return n, nil
	})
	return n, err
}
