package client

import (
	"github.com/syssam/relq/dialect/sql"
	"github.com/syssam/relq/dialect/sql/sqlgraph"
)

// Entity hands out the builders of one entity type.
//
//	users := client.For(c, blog.UserType)
//	u, err := users.FindUnique(blog.UserEmail.EQ("a8m@example.com")).With("posts").Exec(ctx)
type Entity[T sqlgraph.Node] struct {
	c   *Client
	typ *sqlgraph.Type[T]
}

// For returns the builders of the entity type typ on c.
func For[T sqlgraph.Node](c *Client, typ *sqlgraph.Type[T]) *Entity[T] {
	return &Entity[T]{c: c, typ: typ}
}

// Spec returns the entity spec.
func (e *Entity[T]) Spec() *sqlgraph.EntitySpec { return e.typ.Spec() }

// FindUnique returns a query for the single record matching preds.
func (e *Entity[T]) FindUnique(preds ...func(*sql.Selector)) *sqlgraph.UniqueQuery[T] {
	return sqlgraph.NewUnique(e.c.cfg, e.typ, preds...)
}

// FindFirst returns a query for the first record matching preds.
func (e *Entity[T]) FindFirst(preds ...func(*sql.Selector)) *sqlgraph.FirstQuery[T] {
	return sqlgraph.NewFirst(e.c.cfg, e.typ, preds...)
}

// FindMany returns a query for all records matching preds.
func (e *Entity[T]) FindMany(preds ...func(*sql.Selector)) *sqlgraph.ManyQuery[T] {
	return sqlgraph.NewMany(e.c.cfg, e.typ, preds...)
}

// Create returns a builder inserting d.
func (e *Entity[T]) Create(d *sqlgraph.Draft) *sqlgraph.CreateBuilder[T] {
	return sqlgraph.NewCreate(e.c.cfg, e.typ, d)
}

// CreateMany returns a builder inserting one record per draft.
func (e *Entity[T]) CreateMany(drafts ...*sqlgraph.Draft) *sqlgraph.CreateManyBuilder[T] {
	return sqlgraph.NewCreateMany(e.c.cfg, e.typ).AddDrafts(drafts...)
}

// Update returns a builder updating the single record matching preds.
func (e *Entity[T]) Update(preds ...func(*sql.Selector)) *sqlgraph.UpdateBuilder[T] {
	return sqlgraph.NewUpdate(e.c.cfg, e.typ, preds...)
}

// UpdateMany returns a builder updating every record matching preds.
func (e *Entity[T]) UpdateMany(preds ...func(*sql.Selector)) *sqlgraph.UpdateManyBuilder[T] {
	return sqlgraph.NewUpdateMany(e.c.cfg, e.typ, preds...)
}

// Upsert returns a builder updating the record matching preds, or
// inserting create when none does.
func (e *Entity[T]) Upsert(create *sqlgraph.Draft, preds ...func(*sql.Selector)) *sqlgraph.UpsertBuilder[T] {
	return sqlgraph.NewUpsert(e.c.cfg, e.typ, e.Create(create), preds...)
}

// Delete returns a builder deleting the single record matching preds.
func (e *Entity[T]) Delete(preds ...func(*sql.Selector)) *sqlgraph.DeleteBuilder {
	return sqlgraph.NewDelete(e.c.cfg, e.typ.Spec(), preds...)
}

// DeleteMany returns a builder deleting every record matching preds.
func (e *Entity[T]) DeleteMany(preds ...func(*sql.Selector)) *sqlgraph.DeleteManyBuilder {
	return sqlgraph.NewDeleteMany(e.c.cfg, e.typ.Spec(), preds...)
}

// Count returns a count of the records matching preds.
func (e *Entity[T]) Count(preds ...func(*sql.Selector)) *sqlgraph.CountQuery {
	return sqlgraph.NewCount(e.c.cfg, e.typ.Spec(), preds...)
}

// Aggregate returns an aggregate over the records matching preds.
func (e *Entity[T]) Aggregate(preds ...func(*sql.Selector)) *sqlgraph.AggregateQuery {
	return sqlgraph.NewAggregate(e.c.cfg, e.typ.Spec(), preds...)
}

// GroupBy returns a grouping of the records matching preds by fields.
func (e *Entity[T]) GroupBy(fields ...string) *sqlgraph.GroupByQuery {
	return sqlgraph.NewGroupBy(e.c.cfg, e.typ.Spec(), fields)
}
