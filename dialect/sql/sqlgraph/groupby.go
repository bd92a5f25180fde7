package sqlgraph

import (
	"context"
	"fmt"

	"github.com/syssam/relq"
	"github.com/syssam/relq/dialect"
	"github.com/syssam/relq/dialect/sql"
)

// GroupRow is one group of a GroupByQuery. Keys are keyed by field name and
// Aggregates by alias.
type GroupRow struct {
	Keys       map[string]any
	Aggregates map[string]any
}

// GroupByQuery groups the records matching its filter and computes
// aggregates per group.
type GroupByQuery struct {
	cfg    *Config
	spec   *EntitySpec
	where  []func(*sql.Selector)
	by     []string
	terms  []aggTerm
	having []*sql.Predicate
	order  []OrderTerm
	take   *int
	skip   *int
}

// NewGroupBy returns a grouping of the records matching preds by fields.
func NewGroupBy(cfg *Config, spec *EntitySpec, fields []string, preds ...func(*sql.Selector)) *GroupByQuery {
	return &GroupByQuery{cfg: cfg, spec: spec, by: fields, where: preds}
}

// Where adds predicates to the filter.
func (q *GroupByQuery) Where(preds ...func(*sql.Selector)) *GroupByQuery {
	q.where = append(q.where, preds...)
	return q
}

// By adds grouping fields.
func (q *GroupByQuery) By(fields ...string) *GroupByQuery {
	q.by = append(q.by, fields...)
	return q
}

// Count adds the number of records per group under alias.
func (q *GroupByQuery) Count(alias string) *GroupByQuery {
	q.terms = append(q.terms, aggTerm{fn: "COUNT", alias: alias})
	return q
}

// Sum adds the sum of field per group under alias.
func (q *GroupByQuery) Sum(field, alias string) *GroupByQuery { return q.add("SUM", field, alias) }

// Avg adds the average of field per group under alias.
func (q *GroupByQuery) Avg(field, alias string) *GroupByQuery { return q.add("AVG", field, alias) }

// Min adds the minimum of field per group under alias.
func (q *GroupByQuery) Min(field, alias string) *GroupByQuery { return q.add("MIN", field, alias) }

// Max adds the maximum of field per group under alias.
func (q *GroupByQuery) Max(field, alias string) *GroupByQuery { return q.add("MAX", field, alias) }

func (q *GroupByQuery) add(fn, field, alias string) *GroupByQuery {
	q.terms = append(q.terms, aggTerm{fn: fn, field: field, alias: alias})
	return q
}

// Having filters groups.
func (q *GroupByQuery) Having(p *sql.Predicate) *GroupByQuery {
	q.having = append(q.having, p)
	return q
}

// HavingCountGT keeps groups with more than n records.
func (q *GroupByQuery) HavingCountGT(n int) *GroupByQuery { return q.Having(sql.GT("COUNT(*)", n)) }

// HavingCountLT keeps groups with fewer than n records.
func (q *GroupByQuery) HavingCountLT(n int) *GroupByQuery { return q.Having(sql.LT("COUNT(*)", n)) }

// HavingCountEQ keeps groups with exactly n records.
func (q *GroupByQuery) HavingCountEQ(n int) *GroupByQuery { return q.Having(sql.EQ("COUNT(*)", n)) }

// OrderBy orders groups by a grouping field or an aggregate alias.
func (q *GroupByQuery) OrderBy(terms ...OrderTerm) *GroupByQuery {
	q.order = append(q.order, terms...)
	return q
}

// Take limits the number of groups.
func (q *GroupByQuery) Take(n int) *GroupByQuery {
	q.take = &n
	return q
}

// Skip skips n groups.
func (q *GroupByQuery) Skip(n int) *GroupByQuery {
	q.skip = &n
	return q
}

// Exec runs the grouping using the client driver.
func (q *GroupByQuery) Exec(ctx context.Context) ([]GroupRow, error) {
	return q.execOn(ctx, q.cfg.Driver, false)
}

// ExecTx runs the grouping on the given transaction.
func (q *GroupByQuery) ExecTx(ctx context.Context, tx dialect.ExecQuerier) ([]GroupRow, error) {
	return q.execOn(ctx, tx, true)
}

func (q *GroupByQuery) execOn(ctx context.Context, ex dialect.ExecQuerier, tx bool) (groups []GroupRow, err error) {
	err = q.cfg.observe(ctx, "group_by", q.spec.Name, tx, func(ctx context.Context) (int, error) {
		s := q.cfg.Session(ex)
		sel, err := q.build(s)
		if err != nil {
			return 0, err
		}
		rows, err := s.query(ctx, sel)
		if err != nil {
			return 0, err
		}
		defer rows.Close()
		values, err := sql.ScanValues(rows)
		if err != nil {
			return 0, err
		}
		groups = make([]GroupRow, 0, len(values))
		for _, row := range values {
			g := GroupRow{Keys: make(map[string]any, len(q.by)), Aggregates: make(map[string]any, len(q.terms))}
			for _, f := range q.by {
				column, _ := q.spec.Column(f)
				g.Keys[f] = row[column]
			}
			for _, t := range q.terms {
				g.Aggregates[t.alias] = row[t.alias]
			}
			groups = append(groups, g)
		}
		return len(groups), nil
	})
	return groups, err
}

func (q *GroupByQuery) build(s *Session) (*sql.Selector, error) {
	if len(q.by) == 0 {
		return nil, relq.NewValidationError("by", fmt.Errorf("group by on %s requires at least one field", q.spec.Name))
	}
	if q.skip != nil && *q.skip < 0 {
		return nil, relq.NewValidationError("skip", fmt.Errorf("must be >= 0, got %d", *q.skip))
	}
	columns := make([]string, 0, len(q.by))
	for _, f := range q.by {
		column, err := q.spec.Column(f)
		if err != nil {
			return nil, err
		}
		columns = append(columns, column)
	}
	sel := s.selector(q.spec, q.where, columns...).GroupBy(columns...)
	aliases := make(map[string]bool, len(q.terms))
	for _, t := range q.terms {
		if t.alias == "" {
			return nil, relq.NewValidationError(t.fn, fmt.Errorf("aggregate on %q requires an alias", t.field))
		}
		aliases[t.alias] = true
		if t.fn == "COUNT" {
			sel.AppendSelectExprAs("COUNT", "*", t.alias)
			continue
		}
		column, err := q.spec.Column(t.field)
		if err != nil {
			return nil, err
		}
		sel.AppendSelectExprAs(t.fn, column, t.alias)
	}
	for _, p := range q.having {
		sel.Having(p)
	}
	for _, o := range q.order {
		column := o.Field
		if !aliases[o.Field] {
			c, err := q.spec.Column(o.Field)
			if err != nil {
				return nil, err
			}
			column = c
		}
		sel.OrderByNulls(column, o.Order, o.Nulls)
	}
	if q.take != nil {
		sel.Limit(*q.take)
	}
	if q.skip != nil {
		sel.Offset(*q.skip)
	}
	return sel, nil
}
