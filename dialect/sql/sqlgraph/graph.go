// Package sqlgraph is the query-execution and relation-resolution engine of
// relq. Generated code describes entities with EntitySpec and Relation values,
// binds them to record types with NewType, and builds the read and write
// builders of this package through the client package.
package sqlgraph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/relq"
	"github.com/syssam/relq/dialect"
	"github.com/syssam/relq/dialect/sql"
)

// Config is shared by all builders created from one client.
type Config struct {
	Driver    dialect.Driver
	Registry  *Registry
	Observers relq.Observers
}

// Session is the execution context of one builder invocation: a pooled
// driver or a transaction, the dialect statements are rendered for, and the
// registry used for relation reads.
type Session struct {
	dialect.ExecQuerier
	Dialect  string
	Registry *Registry
}

// Session returns a session running on ex.
func (c *Config) Session(ex dialect.ExecQuerier) *Session {
	return &Session{ExecQuerier: ex, Dialect: c.Driver.Dialect(), Registry: c.Registry}
}

// observe runs fn between the Before and After observer calls. fn reports
// the number of records returned or affected.
func (c *Config) observe(ctx context.Context, builder, entity string, tx bool, fn func(context.Context) (int, error)) error {
	if len(c.Observers) == 0 {
		_, err := fn(ctx)
		return err
	}
	e := relq.QueryEvent{ID: uuid.NewString(), Builder: builder, Entity: entity, Tx: tx}
	ctx = c.Observers.Before(ctx, e)
	start := time.Now()
	n, err := fn(ctx)
	c.Observers.After(ctx, e, relq.QueryResult{Rows: n, Err: err, Elapsed: time.Since(start)})
	return err
}

// Op is a write builder that can join a batch.
type Op interface {
	// Run executes the operation on ex and returns its result.
	Run(ctx context.Context, ex dialect.ExecQuerier) (any, error)
}

// selector returns a selector over the table of spec with the given
// predicates applied.
func (s *Session) selector(spec *EntitySpec, preds []func(*sql.Selector), columns ...string) *sql.Selector {
	sel := sql.Dialect(s.Dialect).Select(columns...).From(spec.TableName())
	for _, p := range preds {
		p(sel)
	}
	return sel
}

// condition renders the filter of sel for error messages.
func condition(sel *sql.Selector) string {
	if p := sel.P(); p != nil {
		return p.String()
	}
	return ""
}

func (s *Session) query(ctx context.Context, q sql.Querier) (*sql.Rows, error) {
	query, args := q.Query()
	rows := &sql.Rows{}
	if err := s.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Session) exec(ctx context.Context, q sql.Querier) (sql.Result, error) {
	query, args := q.Query()
	var res sql.Result
	if err := s.Exec(ctx, query, args, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// scanNodes converts every remaining row to a record.
func scanNodes[T Node](rows sql.ColumnScanner, newNode func() T) ([]T, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var nodes []T
	for rows.Next() {
		n := newNode()
		values, err := n.ScanValues(columns)
		if err != nil {
			return nil, err
		}
		if err := rows.Scan(values...); err != nil {
			return nil, err
		}
		if err := n.AssignValues(columns, values); err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// scanIDs reads the first column of every remaining row.
func scanIDs(rows sql.ColumnScanner) ([]any, error) {
	var ids []any
	for rows.Next() {
		var id any
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		if b, ok := id.([]byte); ok {
			id = string(b)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// selectIDs returns the primary keys of the rows matching preds.
func (s *Session) selectIDs(ctx context.Context, spec *EntitySpec, preds []func(*sql.Selector), limit int) ([]any, string, error) {
	sel := s.selector(spec, preds, spec.ID.Column)
	if limit > 0 {
		sel.Limit(limit)
	}
	rows, err := s.query(ctx, sel)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()
	ids, err := scanIDs(rows)
	return ids, condition(sel), err
}

// insertDraft inserts d into the table of spec and returns the new primary key.
func (s *Session) insertDraft(ctx context.Context, spec *EntitySpec, d *Draft) (any, error) {
	ins := sql.Dialect(s.Dialect).Insert(spec.TableName())
	for _, f := range d.Fields() {
		column, err := spec.Column(f)
		if err != nil {
			return nil, err
		}
		v, _ := d.Value(f)
		ins.Set(column, v)
	}
	id, hasID := d.Value(spec.ID.Name)
	if s.Dialect == dialect.Postgres {
		ins.Returning(spec.ID.Column)
		rows, err := s.query(ctx, ins)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		ids, err := scanIDs(rows)
		if err != nil {
			return nil, err
		}
		if len(ids) != 1 {
			return nil, fmt.Errorf("relq: insert into %s returned %d keys", spec.TableName(), len(ids))
		}
		return ids[0], nil
	}
	res, err := s.exec(ctx, ins)
	if err != nil {
		return nil, err
	}
	if hasID {
		return id, nil
	}
	return res.LastInsertId()
}

// updateByID writes d to the row with the given key. An empty draft issues
// no statement.
func (s *Session) updateByID(ctx context.Context, spec *EntitySpec, id any, d *Draft) error {
	if d.Len() == 0 {
		return nil
	}
	upd := sql.Dialect(s.Dialect).Update(spec.TableName())
	for _, f := range d.Fields() {
		if f == spec.ID.Name {
			return relq.NewValidationError(f, fmt.Errorf("primary key of %s cannot be updated", spec.Name))
		}
		column, err := spec.Column(f)
		if err != nil {
			return err
		}
		v, _ := d.Value(f)
		upd.Set(column, v)
	}
	_, err := s.exec(ctx, upd.Where(sql.EQ(spec.ID.Column, id)))
	return err
}
