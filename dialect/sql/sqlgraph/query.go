package sqlgraph

import (
	"context"
	"fmt"
	"slices"

	"github.com/syssam/relq"
	"github.com/syssam/relq/dialect"
	"github.com/syssam/relq/dialect/sql"
)

// CursorPart is one field of a pagination cursor.
type CursorPart struct {
	Field string
	Value any
}

// query holds the state shared by the read builders.
type query[T Node] struct {
	cfg      *Config
	typ      *Type[T]
	where    []func(*sql.Selector)
	with     []*RelationRequest
	fields   []string
	order    []OrderTerm
	take     *int
	skip     *int
	cursor   []CursorPart
	distinct bool
}

// plan is a rendered read: the selector and the fields selected only
// because a requested relation reads them.
type plan struct {
	sel     *sql.Selector
	phantom []string
	reverse bool
}

func (q *query[T]) build(s *Session) (*plan, error) {
	spec := q.typ.spec
	if err := validateRequests(s.Registry, spec, q.with); err != nil {
		return nil, err
	}
	if q.skip != nil && *q.skip < 0 {
		return nil, relq.NewValidationError("skip", fmt.Errorf("must be >= 0, got %d", *q.skip))
	}
	p := &plan{}
	columns := spec.Columns()
	if len(q.fields) > 0 {
		columns = make([]string, 0, len(q.fields))
		for _, f := range q.fields {
			c, err := spec.Column(f)
			if err != nil {
				return nil, err
			}
			columns = append(columns, c)
		}
		keys, err := requestKeys(spec, q.with)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			if slices.Contains(q.fields, k) || slices.Contains(p.phantom, k) {
				continue
			}
			c, err := spec.Column(k)
			if err != nil {
				return nil, err
			}
			columns = append(columns, c)
			p.phantom = append(p.phantom, k)
		}
	}
	p.sel = s.selector(spec, q.where, columns...)
	if q.distinct {
		p.sel.Distinct()
	}
	order := q.order
	if len(order) == 0 {
		for _, part := range q.cursor {
			order = append(order, Asc(part.Field))
		}
	}
	if q.take != nil && *q.take < 0 {
		if len(order) == 0 {
			order = []OrderTerm{Asc(spec.ID.Name)}
		}
		order = reversed(order)
		p.reverse = true
	}
	if len(q.cursor) > 0 {
		pred, err := cursorPredicate(spec, q.cursor, order)
		if err != nil {
			return nil, err
		}
		p.sel.Where(pred)
	}
	if err := orderBy(spec, p.sel, order); err != nil {
		return nil, err
	}
	if q.take != nil {
		n := *q.take
		if n < 0 {
			n = -n
		}
		p.sel.Limit(n)
	}
	if q.skip != nil {
		p.sel.Offset(*q.skip)
	}
	return p, nil
}

func reversed(terms []OrderTerm) []OrderTerm {
	out := make([]OrderTerm, len(terms))
	for i, o := range terms {
		o.Order = o.Order.Reverse()
		switch o.Nulls {
		case sql.NullsFirst:
			o.Nulls = sql.NullsLast
		case sql.NullsLast:
			o.Nulls = sql.NullsFirst
		}
		out[i] = o
	}
	return out
}

// cursorPredicate returns the condition selecting the rows strictly after the
// cursor in the given order, compared lexicographically over the parts:
// (a > va) OR (a = va AND b > vb) ...
func cursorPredicate(spec *EntitySpec, parts []CursorPart, order []OrderTerm) (*sql.Predicate, error) {
	ors := make([]*sql.Predicate, 0, len(parts))
	for i, part := range parts {
		ands := make([]*sql.Predicate, 0, i+1)
		for _, prev := range parts[:i] {
			c, err := spec.Column(prev.Field)
			if err != nil {
				return nil, err
			}
			ands = append(ands, sql.EQ(c, prev.Value))
		}
		c, err := spec.Column(part.Field)
		if err != nil {
			return nil, err
		}
		if direction(order, part.Field) == sql.OrderDesc {
			ands = append(ands, sql.LT(c, part.Value))
		} else {
			ands = append(ands, sql.GT(c, part.Value))
		}
		ors = append(ors, sql.And(ands...))
	}
	return sql.Or(ors...), nil
}

func direction(order []OrderTerm, field string) sql.Order {
	for _, o := range order {
		if o.Field == field {
			return o.Order
		}
	}
	return sql.OrderAsc
}

// run executes the plan, loads the requested relations and clears the
// phantom fields.
func (q *query[T]) run(ctx context.Context, s *Session, p *plan) ([]T, error) {
	nodes, err := q.typ.selectNodes(ctx, s, p.sel)
	if err != nil {
		return nil, err
	}
	if p.reverse {
		slices.Reverse(nodes)
	}
	if err := q.finish(ctx, s, p, nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (q *query[T]) observe(ctx context.Context, builder string, ex dialect.ExecQuerier, tx bool, fn func(context.Context, *Session) (int, error)) error {
	return q.cfg.observe(ctx, builder, q.typ.spec.Name, tx, func(ctx context.Context) (int, error) {
		return fn(ctx, q.cfg.Session(ex))
	})
}

// UniqueQuery reads exactly one record.
type UniqueQuery[T Node] struct {
	query[T]
}

// NewUnique returns a query for the one record matching preds.
func NewUnique[T Node](cfg *Config, typ *Type[T], preds ...func(*sql.Selector)) *UniqueQuery[T] {
	return &UniqueQuery[T]{query[T]{cfg: cfg, typ: typ, where: preds}}
}

// With requests relations by name.
func (q *UniqueQuery[T]) With(names ...string) *UniqueQuery[T] {
	q.with = append(q.with, requests(names)...)
	return q
}

// WithRelation requests relations with filters or nested loads.
func (q *UniqueQuery[T]) WithRelation(reqs ...*RelationRequest) *UniqueQuery[T] {
	q.with = append(q.with, reqs...)
	return q
}

// Select projects the given scalar fields only.
func (q *UniqueQuery[T]) Select(fields ...string) *UniqueQuery[T] {
	q.fields = append(q.fields, fields...)
	return q
}

// Exec runs the query using the client driver. It fails with
// *relq.NotFoundError when nothing matches and *relq.NotSingularError when
// more than one record does.
func (q *UniqueQuery[T]) Exec(ctx context.Context) (T, error) {
	return q.execOn(ctx, q.cfg.Driver, false)
}

// ExecTx runs the query on the given transaction.
func (q *UniqueQuery[T]) ExecTx(ctx context.Context, tx dialect.ExecQuerier) (T, error) {
	return q.execOn(ctx, tx, true)
}

func (q *UniqueQuery[T]) execOn(ctx context.Context, ex dialect.ExecQuerier, tx bool) (node T, err error) {
	err = q.observe(ctx, "find_unique", ex, tx, func(ctx context.Context, s *Session) (int, error) {
		p, err := q.build(s)
		if err != nil {
			return 0, err
		}
		p.sel.Limit(2)
		nodes, err := q.typ.selectNodes(ctx, s, p.sel)
		if err != nil {
			return 0, err
		}
		switch len(nodes) {
		case 0:
			return 0, relq.NewNotFoundForCondition(q.typ.spec.Name, condition(p.sel))
		case 1:
		default:
			return 0, relq.NewNotSingularError(q.typ.spec.Name)
		}
		if err := q.finish(ctx, s, p, nodes); err != nil {
			return 0, err
		}
		node = nodes[0]
		return 1, nil
	})
	return node, err
}

// finish loads relations and clears phantom fields of already fetched nodes.
func (q *query[T]) finish(ctx context.Context, s *Session, p *plan, nodes []T) error {
	if err := loadRelations(ctx, s, q.typ.spec, nodes, q.with); err != nil {
		return err
	}
	for _, n := range nodes {
		for _, f := range p.phantom {
			n.ClearValue(f)
		}
	}
	return nil
}

// FirstQuery reads the first record of an ordered query.
type FirstQuery[T Node] struct {
	query[T]
}

// NewFirst returns a query for the first record matching preds.
func NewFirst[T Node](cfg *Config, typ *Type[T], preds ...func(*sql.Selector)) *FirstQuery[T] {
	return &FirstQuery[T]{query[T]{cfg: cfg, typ: typ, where: preds}}
}

// With requests relations by name.
func (q *FirstQuery[T]) With(names ...string) *FirstQuery[T] {
	q.with = append(q.with, requests(names)...)
	return q
}

// WithRelation requests relations with filters or nested loads.
func (q *FirstQuery[T]) WithRelation(reqs ...*RelationRequest) *FirstQuery[T] {
	q.with = append(q.with, reqs...)
	return q
}

// Select projects the given scalar fields only.
func (q *FirstQuery[T]) Select(fields ...string) *FirstQuery[T] {
	q.fields = append(q.fields, fields...)
	return q
}

// OrderBy orders the candidates.
func (q *FirstQuery[T]) OrderBy(terms ...OrderTerm) *FirstQuery[T] {
	q.order = append(q.order, terms...)
	return q
}

// Skip skips n candidates.
func (q *FirstQuery[T]) Skip(n int) *FirstQuery[T] {
	q.skip = &n
	return q
}

// Exec runs the query using the client driver. It fails with
// *relq.NotFoundError when nothing matches.
func (q *FirstQuery[T]) Exec(ctx context.Context) (T, error) {
	return q.execOn(ctx, q.cfg.Driver, false)
}

// ExecTx runs the query on the given transaction.
func (q *FirstQuery[T]) ExecTx(ctx context.Context, tx dialect.ExecQuerier) (T, error) {
	return q.execOn(ctx, tx, true)
}

func (q *FirstQuery[T]) execOn(ctx context.Context, ex dialect.ExecQuerier, tx bool) (node T, err error) {
	err = q.observe(ctx, "find_first", ex, tx, func(ctx context.Context, s *Session) (int, error) {
		p, err := q.build(s)
		if err != nil {
			return 0, err
		}
		p.sel.Limit(1)
		nodes, err := q.typ.selectNodes(ctx, s, p.sel)
		if err != nil {
			return 0, err
		}
		if len(nodes) == 0 {
			return 0, relq.NewNotFoundForCondition(q.typ.spec.Name, condition(p.sel))
		}
		if err := q.finish(ctx, s, p, nodes); err != nil {
			return 0, err
		}
		node = nodes[0]
		return 1, nil
	})
	return node, err
}

// ManyQuery reads all records matching its filter.
type ManyQuery[T Node] struct {
	query[T]
}

// NewMany returns a query for all records matching preds.
func NewMany[T Node](cfg *Config, typ *Type[T], preds ...func(*sql.Selector)) *ManyQuery[T] {
	return &ManyQuery[T]{query[T]{cfg: cfg, typ: typ, where: preds}}
}

// Where adds predicates to the filter.
func (q *ManyQuery[T]) Where(preds ...func(*sql.Selector)) *ManyQuery[T] {
	q.where = append(q.where, preds...)
	return q
}

// With requests relations by name.
func (q *ManyQuery[T]) With(names ...string) *ManyQuery[T] {
	q.with = append(q.with, requests(names)...)
	return q
}

// WithRelation requests relations with filters or nested loads.
func (q *ManyQuery[T]) WithRelation(reqs ...*RelationRequest) *ManyQuery[T] {
	q.with = append(q.with, reqs...)
	return q
}

// Select projects the given scalar fields only.
func (q *ManyQuery[T]) Select(fields ...string) *ManyQuery[T] {
	q.fields = append(q.fields, fields...)
	return q
}

// OrderBy orders the results.
func (q *ManyQuery[T]) OrderBy(terms ...OrderTerm) *ManyQuery[T] {
	q.order = append(q.order, terms...)
	return q
}

// Take limits the number of results. A negative n takes the last |n|
// records of the ordering, still returned in that ordering.
func (q *ManyQuery[T]) Take(n int) *ManyQuery[T] {
	q.take = &n
	return q
}

// Skip skips n results. Negative values fail at execution.
func (q *ManyQuery[T]) Skip(n int) *ManyQuery[T] {
	q.skip = &n
	return q
}

// Cursor returns only records strictly after the cursor in the query
// ordering. Several parts compare lexicographically. Without OrderBy the
// records are ordered by the cursor fields, ascending.
func (q *ManyQuery[T]) Cursor(parts ...CursorPart) *ManyQuery[T] {
	q.cursor = append(q.cursor, parts...)
	return q
}

// Distinct removes duplicate rows.
func (q *ManyQuery[T]) Distinct() *ManyQuery[T] {
	q.distinct = true
	return q
}

// Exec runs the query using the client driver.
func (q *ManyQuery[T]) Exec(ctx context.Context) ([]T, error) {
	return q.execOn(ctx, q.cfg.Driver, false)
}

// ExecTx runs the query on the given transaction.
func (q *ManyQuery[T]) ExecTx(ctx context.Context, tx dialect.ExecQuerier) ([]T, error) {
	return q.execOn(ctx, tx, true)
}

func (q *ManyQuery[T]) execOn(ctx context.Context, ex dialect.ExecQuerier, tx bool) (nodes []T, err error) {
	err = q.observe(ctx, "find_many", ex, tx, func(ctx context.Context, s *Session) (int, error) {
		p, err := q.build(s)
		if err != nil {
			return 0, err
		}
		nodes, err = q.run(ctx, s, p)
		return len(nodes), err
	})
	if err != nil {
		return nil, err
	}
	if nodes == nil {
		nodes = []T{}
	}
	return nodes, nil
}
