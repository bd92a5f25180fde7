package sqlgraph

import (
	"context"
	"fmt"

	"github.com/syssam/relq"
	"github.com/syssam/relq/dialect/sql"
)

// Type binds an entity spec to the Go type of its records. It is the unit
// generated code registers in a Registry.
//
//	var UserType = sqlgraph.NewType(UserSpec, func() *User { return &User{} })
type Type[T Node] struct {
	spec *EntitySpec
	new  func() T
}

// NewType returns the type of records produced by newNode.
func NewType[T Node](spec *EntitySpec, newNode func() T) *Type[T] {
	return &Type[T]{spec: spec, new: newNode}
}

// Spec implements Fetcher.
func (t *Type[T]) Spec() *EntitySpec { return t.spec }

// New returns an empty record.
func (t *Type[T]) New() T { return t.new() }

// FetchByForeignKey implements Fetcher.
func (t *Type[T]) FetchByForeignKey(ctx context.Context, s *Session, key any, column string, req *RelationRequest, many bool) (any, error) {
	if key == nil {
		if many {
			return []T{}, nil
		}
		var zero T
		return zero, nil
	}
	sel := s.selector(t.spec, nil, t.spec.Columns()...).Where(sql.EQ(column, key))
	if req != nil {
		for _, p := range req.Where {
			p(sel)
		}
		if err := orderBy(t.spec, sel, req.Order); err != nil {
			return nil, err
		}
		if req.Take != nil {
			sel.Limit(*req.Take)
		}
		if req.Skip != nil {
			sel.Offset(*req.Skip)
		}
	}
	if !many {
		sel.Limit(1)
	}
	nodes, err := t.selectNodes(ctx, s, sel)
	if err != nil {
		return nil, err
	}
	if req != nil {
		if err := loadRelations(ctx, s, t.spec, nodes, req.With); err != nil {
			return nil, err
		}
	}
	if many {
		if nodes == nil {
			nodes = []T{}
		}
		return nodes, nil
	}
	if len(nodes) == 0 {
		var zero T
		return zero, nil
	}
	return nodes[0], nil
}

func (t *Type[T]) selectNodes(ctx context.Context, s *Session, sel *sql.Selector) ([]T, error) {
	rows, err := s.query(ctx, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNodes(rows, t.new)
}

// get re-reads the row with the given key.
func (t *Type[T]) get(ctx context.Context, s *Session, id any) (T, error) {
	sel := s.selector(t.spec, nil, t.spec.Columns()...).Where(sql.EQ(t.spec.ID.Column, id)).Limit(1)
	nodes, err := t.selectNodes(ctx, s, sel)
	if err != nil {
		var zero T
		return zero, err
	}
	if len(nodes) == 0 {
		var zero T
		return zero, relq.NewNotFoundForCondition(t.spec.Name, condition(sel))
	}
	return nodes[0], nil
}

// keyOf reads the primary key of a record.
func (t *Type[T]) keyOf(n T) (any, error) {
	id, ok := n.Value(t.spec.ID.Name)
	if !ok || id == nil {
		return nil, fmt.Errorf("relq: %s record has no %s", t.spec.Name, t.spec.ID.Name)
	}
	return id, nil
}

// orderBy appends the ordering terms to sel, translating fields to columns.
func orderBy(spec *EntitySpec, sel *sql.Selector, terms []OrderTerm) error {
	for _, o := range terms {
		column, err := spec.Column(o.Field)
		if err != nil {
			return err
		}
		sel.OrderByNulls(column, o.Order, o.Nulls)
	}
	return nil
}
