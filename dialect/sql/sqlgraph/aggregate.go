package sqlgraph

import (
	"context"
	"fmt"
	"strconv"

	"github.com/syssam/relq"
	"github.com/syssam/relq/dialect"
	"github.com/syssam/relq/dialect/sql"
)

// CountQuery counts the records matching its filter.
type CountQuery struct {
	cfg   *Config
	spec  *EntitySpec
	where []func(*sql.Selector)
}

// NewCount returns a count of the records matching preds.
func NewCount(cfg *Config, spec *EntitySpec, preds ...func(*sql.Selector)) *CountQuery {
	return &CountQuery{cfg: cfg, spec: spec, where: preds}
}

// Where adds predicates to the filter.
func (q *CountQuery) Where(preds ...func(*sql.Selector)) *CountQuery {
	q.where = append(q.where, preds...)
	return q
}

// Exec runs the count using the client driver.
func (q *CountQuery) Exec(ctx context.Context) (int, error) {
	return q.execOn(ctx, q.cfg.Driver, false)
}

// ExecTx runs the count on the given transaction.
func (q *CountQuery) ExecTx(ctx context.Context, tx dialect.ExecQuerier) (int, error) {
	return q.execOn(ctx, tx, true)
}

func (q *CountQuery) execOn(ctx context.Context, ex dialect.ExecQuerier, tx bool) (n int, err error) {
	err = q.cfg.observe(ctx, "count", q.spec.Name, tx, func(ctx context.Context) (int, error) {
		s := q.cfg.Session(ex)
		sel := s.selector(q.spec, q.where).AppendSelectExprAs("COUNT", "*", "count")
		rows, err := s.query(ctx, sel)
		if err != nil {
			return 0, err
		}
		defer rows.Close()
		count, err := sql.ScanInt64(rows)
		if err != nil {
			return 0, err
		}
		n = int(count)
		return 1, nil
	})
	return n, err
}

// AggregateResult holds the aggregates of an AggregateQuery. Maps are keyed
// by field name; a nil Count means it was not requested.
type AggregateResult struct {
	Count *int64
	Sum   map[string]any
	Avg   map[string]any
	Min   map[string]any
	Max   map[string]any
}

type aggTerm struct {
	fn    string
	field string
	alias string
}

// AggregateQuery computes aggregates over the records matching its filter.
type AggregateQuery struct {
	cfg   *Config
	spec  *EntitySpec
	where []func(*sql.Selector)
	count bool
	terms []aggTerm
}

// NewAggregate returns an aggregate over the records matching preds.
func NewAggregate(cfg *Config, spec *EntitySpec, preds ...func(*sql.Selector)) *AggregateQuery {
	return &AggregateQuery{cfg: cfg, spec: spec, where: preds}
}

// Where adds predicates to the filter.
func (q *AggregateQuery) Where(preds ...func(*sql.Selector)) *AggregateQuery {
	q.where = append(q.where, preds...)
	return q
}

// Count requests the number of records.
func (q *AggregateQuery) Count() *AggregateQuery {
	q.count = true
	return q
}

// Sum requests the sum of each field.
func (q *AggregateQuery) Sum(fields ...string) *AggregateQuery { return q.add("SUM", fields) }

// Avg requests the average of each field.
func (q *AggregateQuery) Avg(fields ...string) *AggregateQuery { return q.add("AVG", fields) }

// Min requests the minimum of each field.
func (q *AggregateQuery) Min(fields ...string) *AggregateQuery { return q.add("MIN", fields) }

// Max requests the maximum of each field.
func (q *AggregateQuery) Max(fields ...string) *AggregateQuery { return q.add("MAX", fields) }

func (q *AggregateQuery) add(fn string, fields []string) *AggregateQuery {
	for _, f := range fields {
		q.terms = append(q.terms, aggTerm{fn: fn, field: f})
	}
	return q
}

// Exec runs the aggregate using the client driver.
func (q *AggregateQuery) Exec(ctx context.Context) (*AggregateResult, error) {
	return q.execOn(ctx, q.cfg.Driver, false)
}

// ExecTx runs the aggregate on the given transaction.
func (q *AggregateQuery) ExecTx(ctx context.Context, tx dialect.ExecQuerier) (*AggregateResult, error) {
	return q.execOn(ctx, tx, true)
}

func (q *AggregateQuery) execOn(ctx context.Context, ex dialect.ExecQuerier, tx bool) (res *AggregateResult, err error) {
	err = q.cfg.observe(ctx, "aggregate", q.spec.Name, tx, func(ctx context.Context) (int, error) {
		s := q.cfg.Session(ex)
		sel := s.selector(q.spec, q.where)
		if q.count {
			sel.AppendSelectExprAs("COUNT", "*", "_count")
		}
		for i, t := range q.terms {
			column, err := q.spec.Column(t.field)
			if err != nil {
				return 0, err
			}
			sel.AppendSelectExprAs(t.fn, column, "_agg"+strconv.Itoa(i))
		}
		if sel.SelectedColumns() == 0 {
			return 0, relq.NewValidationError("aggregate", fmt.Errorf("no aggregate requested on %s", q.spec.Name))
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
		if len(values) != 1 {
			return 0, fmt.Errorf("relq: aggregate on %s returned %d rows", q.spec.Name, len(values))
		}
		row := values[0]
		res = &AggregateResult{}
		if q.count {
			n, err := toInt64(row["_count"])
			if err != nil {
				return 0, err
			}
			res.Count = &n
		}
		for i, t := range q.terms {
			v := row["_agg"+strconv.Itoa(i)]
			m := res.target(t.fn)
			(*m)[t.field] = v
		}
		return 1, nil
	})
	return res, err
}

func (r *AggregateResult) target(fn string) *map[string]any {
	var m *map[string]any
	switch fn {
	case "SUM":
		m = &r.Sum
	case "AVG":
		m = &r.Avg
	case "MIN":
		m = &r.Min
	default:
		m = &r.Max
	}
	if *m == nil {
		*m = make(map[string]any)
	}
	return m
}

// toInt64 converts a scanned integer. Drivers differ in the integer type
// returned for COUNT.
func toInt64(v any) (int64, error) {
	switch v := v.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("relq: unexpected count type %T", v)
	}
}
