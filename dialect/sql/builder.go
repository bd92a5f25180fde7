package sql

import (
	"strconv"
	"strings"

	"github.com/syssam/relq/dialect"
)

// Querier wraps the basic Query method that is implemented
// by the different builders in this file.
type Querier interface {
	// Query returns the query representation of the element
	// and its arguments (if any).
	Query() (string, []any)
}

// Builder is the base query builder for the sql dsl. It collects the
// statement text, its arguments, and numbers placeholders per dialect.
type Builder struct {
	sb      *strings.Builder
	args    []any
	dialect string
	total   int
}

// Quote quotes the given identifier with the characters based
// on the configured dialect. It defaults to "`".
func (b *Builder) Quote(ident string) string {
	quote := "`"
	if b.postgres() || b.dialect == dialect.SQLite {
		quote = `"`
	}
	return quote + ident + quote
}

// Ident appends the given string as an identifier. Qualified names such as
// "users.id" are quoted per part; "*" and expressions are written as is.
func (b *Builder) Ident(s string) *Builder {
	switch {
	case len(s) == 0:
	case s == "*" || !isIdent(s):
		b.WriteString(s)
	case strings.Contains(s, "."):
		parts := strings.Split(s, ".")
		for i, p := range parts {
			if i > 0 {
				b.WriteByte('.')
			}
			if p == "*" {
				b.WriteString(p)
			} else {
				b.WriteString(b.Quote(p))
			}
		}
	default:
		b.WriteString(b.Quote(s))
	}
	return b
}

// IdentComma calls Ident on all arguments and adds a comma between them.
func (b *Builder) IdentComma(s ...string) *Builder {
	for i := range s {
		if i > 0 {
			b.Comma()
		}
		b.Ident(s[i])
	}
	return b
}

// WriteString writes the given string to the builder.
func (b *Builder) WriteString(s string) *Builder {
	if b.sb == nil {
		b.sb = &strings.Builder{}
	}
	b.sb.WriteString(s)
	return b
}

// WriteByte writes the given byte to the builder.
func (b *Builder) WriteByte(c byte) *Builder {
	if b.sb == nil {
		b.sb = &strings.Builder{}
	}
	b.sb.WriteByte(c)
	return b
}

// WriteOp writes an operator padded with spaces.
func (b *Builder) WriteOp(op string) *Builder {
	return b.Pad().WriteString(op).Pad()
}

// Pad adds a space to the query.
func (b *Builder) Pad() *Builder {
	return b.WriteByte(' ')
}

// Comma adds a comma to the query.
func (b *Builder) Comma() *Builder {
	return b.WriteString(", ")
}

// Arg appends an input argument to the builder and writes its placeholder.
func (b *Builder) Arg(a any) *Builder {
	b.total++
	b.args = append(b.args, a)
	if b.postgres() {
		return b.WriteString("$" + strconv.Itoa(b.total))
	}
	return b.WriteByte('?')
}

// Args appends a list of arguments to the builder, separated by commas.
func (b *Builder) Args(a ...any) *Builder {
	for i := range a {
		if i > 0 {
			b.Comma()
		}
		b.Arg(a[i])
	}
	return b
}

// Wrap gets a callback, and wraps its result with parentheses.
func (b *Builder) Wrap(f func(*Builder)) *Builder {
	b.WriteByte('(')
	f(b)
	return b.WriteByte(')')
}

// Dialect returns the dialect of the builder.
func (b Builder) Dialect() string {
	return b.dialect
}

// SetDialect sets the builder dialect. It's used for garnering dialect specific queries.
func (b *Builder) SetDialect(dialect string) {
	b.dialect = dialect
}

// String returns the accumulated string.
func (b *Builder) String() string {
	if b.sb == nil {
		return ""
	}
	return b.sb.String()
}

// Query implements the Querier interface.
func (b *Builder) Query() (string, []any) {
	return b.String(), b.args
}

func (b *Builder) postgres() bool {
	return b.dialect == dialect.Postgres
}

// isIdent reports whether s is a plain (possibly qualified) identifier
// that should be quoted.
func isIdent(s string) bool {
	for _, r := range s {
		switch {
		case r == '_' || r == '.':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// DialectBuilder prefixes all root builders with the Dialect value.
type DialectBuilder struct {
	dialect string
}

// Dialect creates a new DialectBuilder with the given dialect name.
func Dialect(name string) *DialectBuilder {
	return &DialectBuilder{name}
}

// Select creates a Selector for the configured dialect.
//
//	Dialect(dialect.Postgres).
//		Select("id", "name").From("users")
func (d *DialectBuilder) Select(columns ...string) *Selector {
	s := Select(columns...)
	s.SetDialect(d.dialect)
	return s
}

// Insert creates an InsertBuilder for the configured dialect.
//
//	Dialect(dialect.Postgres).
//		Insert("users").Columns("age").Values(1)
func (d *DialectBuilder) Insert(table string) *InsertBuilder {
	b := Insert(table)
	b.SetDialect(d.dialect)
	return b
}

// Update creates an UpdateBuilder for the configured dialect.
//
//	Dialect(dialect.Postgres).
//		Update("users").Set("name", "foo")
func (d *DialectBuilder) Update(table string) *UpdateBuilder {
	b := Update(table)
	b.SetDialect(d.dialect)
	return b
}

// Delete creates a DeleteBuilder for the configured dialect.
//
//	Dialect(dialect.Postgres).
//		Delete("users").Where(EQ("id", 1))
func (d *DialectBuilder) Delete(table string) *DeleteBuilder {
	b := Delete(table)
	b.SetDialect(d.dialect)
	return b
}

// Order is a sort direction.
type Order int

// Sort directions.
const (
	OrderAsc Order = iota
	OrderDesc
)

// String implements fmt.Stringer.
func (o Order) String() string {
	if o == OrderDesc {
		return "DESC"
	}
	return "ASC"
}

// Reverse returns the opposite direction.
func (o Order) Reverse() Order {
	if o == OrderDesc {
		return OrderAsc
	}
	return OrderDesc
}

// Nulls controls where NULL values sort.
type Nulls int

// Null placements. NullsDefault leaves the database default in place.
const (
	NullsDefault Nulls = iota
	NullsFirst
	NullsLast
)

type orderTerm struct {
	column string
	order  Order
	nulls  Nulls
}

type selectTerm struct {
	expr  func(*Builder)
	alias string
}

// Selector is a builder for the `SELECT` statement.
type Selector struct {
	Builder
	table    string
	columns  []selectTerm
	distinct bool
	where    *Predicate
	group    []string
	having   *Predicate
	order    []orderTerm
	limit    *int
	offset   *int
}

// Select returns a new selector for the `SELECT` statement.
//
//	Select("id", "name").From("users").Where(EQ("age", 10))
func Select(columns ...string) *Selector {
	return (&Selector{}).Select(columns...)
}

// Select changes the columns selection of the SELECT statement.
// Empty selection means all columns *.
func (s *Selector) Select(columns ...string) *Selector {
	s.columns = s.columns[:0]
	return s.AppendSelect(columns...)
}

// AppendSelect appends additional columns to the SELECT statement.
func (s *Selector) AppendSelect(columns ...string) *Selector {
	for _, c := range columns {
		c := c
		s.columns = append(s.columns, selectTerm{expr: func(b *Builder) { b.Ident(c) }})
	}
	return s
}

// AppendSelectAs appends a column selection with an alias.
func (s *Selector) AppendSelectAs(column, as string) *Selector {
	s.columns = append(s.columns, selectTerm{expr: func(b *Builder) { b.Ident(column) }, alias: as})
	return s
}

// AppendSelectExprAs appends an aggregate or function call over a column,
// e.g. AppendSelectExprAs("SUM", "price", "sum_price"). A "*" column is
// written as is.
func (s *Selector) AppendSelectExprAs(fn, column, as string) *Selector {
	s.columns = append(s.columns, selectTerm{
		expr: func(b *Builder) {
			b.WriteString(fn).Wrap(func(b *Builder) { b.Ident(column) })
		},
		alias: as,
	})
	return s
}

// SelectedColumns returns the number of selected terms.
func (s *Selector) SelectedColumns() int {
	return len(s.columns)
}

// From sets the source table of the `FROM` clause.
func (s *Selector) From(table string) *Selector {
	s.table = table
	return s
}

// Table returns the selected table.
func (s *Selector) Table() string {
	return s.table
}

// Distinct adds the DISTINCT keyword to the `SELECT` statement.
func (s *Selector) Distinct() *Selector {
	s.distinct = true
	return s
}

// Where sets or appends the given predicate to the statement.
func (s *Selector) Where(p *Predicate) *Selector {
	if p == nil {
		return s
	}
	if s.where != nil {
		s.where = And(s.where, p)
	} else {
		s.where = p
	}
	return s
}

// P returns the predicate of a selector.
func (s *Selector) P() *Predicate {
	return s.where
}

// GroupBy appends the `GROUP BY` clause to the `SELECT` statement.
func (s *Selector) GroupBy(columns ...string) *Selector {
	s.group = append(s.group, columns...)
	return s
}

// Having appends a predicate for the `HAVING` clause.
func (s *Selector) Having(p *Predicate) *Selector {
	if s.having != nil {
		s.having = And(s.having, p)
	} else {
		s.having = p
	}
	return s
}

// OrderBy appends an ordering term to the `ORDER BY` clause.
func (s *Selector) OrderBy(column string, o Order) *Selector {
	return s.OrderByNulls(column, o, NullsDefault)
}

// OrderByNulls appends an ordering term with an explicit NULL placement.
func (s *Selector) OrderByNulls(column string, o Order, n Nulls) *Selector {
	s.order = append(s.order, orderTerm{column: column, order: o, nulls: n})
	return s
}

// HasOrder reports whether any ordering term was set.
func (s *Selector) HasOrder() bool {
	return len(s.order) > 0
}

// ReverseOrder flips the direction of every ordering term.
func (s *Selector) ReverseOrder() *Selector {
	for i := range s.order {
		s.order[i].order = s.order[i].order.Reverse()
	}
	return s
}

// Limit adds the `LIMIT` clause to the `SELECT` statement.
func (s *Selector) Limit(limit int) *Selector {
	s.limit = &limit
	return s
}

// Offset adds the `OFFSET` clause to the `SELECT` statement.
func (s *Selector) Offset(offset int) *Selector {
	s.offset = &offset
	return s
}

// Clone returns a duplicate of the selector, including all associated steps.
// Predicates are shared; they are immutable once built.
func (s *Selector) Clone() *Selector {
	if s == nil {
		return nil
	}
	c := &Selector{
		Builder:  Builder{dialect: s.dialect},
		table:    s.table,
		columns:  append([]selectTerm(nil), s.columns...),
		distinct: s.distinct,
		where:    s.where,
		group:    append([]string(nil), s.group...),
		having:   s.having,
		order:    append([]orderTerm(nil), s.order...),
	}
	if s.limit != nil {
		l := *s.limit
		c.limit = &l
	}
	if s.offset != nil {
		o := *s.offset
		c.offset = &o
	}
	return c
}

// Query returns query representation of a `SELECT` statement.
func (s *Selector) Query() (string, []any) {
	b := &Builder{dialect: s.dialect}
	b.WriteString("SELECT ")
	if s.distinct {
		b.WriteString("DISTINCT ")
	}
	if len(s.columns) == 0 {
		b.WriteByte('*')
	}
	for i, c := range s.columns {
		if i > 0 {
			b.Comma()
		}
		c.expr(b)
		if c.alias != "" {
			b.WriteString(" AS ").Ident(c.alias)
		}
	}
	b.WriteString(" FROM ").Ident(s.table)
	if s.where != nil {
		b.WriteString(" WHERE ")
		s.where.render(b)
	}
	if len(s.group) > 0 {
		b.WriteString(" GROUP BY ").IdentComma(s.group...)
	}
	if s.having != nil {
		b.WriteString(" HAVING ")
		s.having.render(b)
	}
	if len(s.order) > 0 {
		b.WriteString(" ORDER BY ")
		for i, o := range s.order {
			if i > 0 {
				b.Comma()
			}
			switch o.nulls {
			case NullsFirst:
				b.Ident(o.column).WriteString(" IS NULL DESC, ")
			case NullsLast:
				b.Ident(o.column).WriteString(" IS NULL ASC, ")
			}
			b.Ident(o.column).Pad().WriteString(o.order.String())
		}
	}
	switch {
	case s.limit != nil:
		b.WriteString(" LIMIT ").WriteString(strconv.Itoa(*s.limit))
	case s.offset != nil && b.dialect == dialect.MySQL:
		b.WriteString(" LIMIT 18446744073709551615")
	case s.offset != nil && b.dialect != dialect.Postgres:
		b.WriteString(" LIMIT -1")
	}
	if s.offset != nil {
		b.WriteString(" OFFSET ").WriteString(strconv.Itoa(*s.offset))
	}
	return b.Query()
}

// InsertBuilder is a builder for `INSERT INTO` statement.
type InsertBuilder struct {
	Builder
	table     string
	columns   []string
	values    [][]any
	returning []string
}

// Insert creates a builder for the `INSERT INTO` statement.
//
//	Insert("users").
//		Columns("name", "age").
//		Values("a8m", 10).
//		Values("foo", 20)
//
// Note: Insert inserts all values in one batch.
func Insert(table string) *InsertBuilder { return &InsertBuilder{table: table} }

// Columns appends columns to the INSERT statement.
func (i *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	i.columns = append(i.columns, columns...)
	return i
}

// Values append a value tuple for the insert statement.
func (i *InsertBuilder) Values(values ...any) *InsertBuilder {
	i.values = append(i.values, values)
	return i
}

// Set is a syntactic sugar API for inserting only one row.
func (i *InsertBuilder) Set(column string, v any) *InsertBuilder {
	i.columns = append(i.columns, column)
	if len(i.values) == 0 {
		i.values = append(i.values, []any{v})
	} else {
		i.values[0] = append(i.values[0], v)
	}
	return i
}

// Returning adds the `RETURNING` clause to the insert statement.
// Supported by SQLite and PostgreSQL.
func (i *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	i.returning = columns
	return i
}

// Query returns query representation of an `INSERT INTO` statement.
func (i *InsertBuilder) Query() (string, []any) {
	b := &Builder{dialect: i.dialect}
	b.WriteString("INSERT INTO ").Ident(i.table)
	if len(i.columns) == 0 {
		if b.dialect == dialect.MySQL {
			b.WriteString(" () VALUES ()")
		} else {
			b.WriteString(" DEFAULT VALUES")
		}
	} else {
		b.Pad().Wrap(func(b *Builder) { b.IdentComma(i.columns...) })
		b.WriteString(" VALUES ")
		for j, v := range i.values {
			if j > 0 {
				b.Comma()
			}
			b.Wrap(func(b *Builder) { b.Args(v...) })
		}
	}
	if len(i.returning) > 0 && b.dialect != dialect.MySQL {
		b.WriteString(" RETURNING ").IdentComma(i.returning...)
	}
	return b.Query()
}

// UpdateBuilder is a builder for `UPDATE` statement.
type UpdateBuilder struct {
	Builder
	table   string
	columns []string
	values  []any
	where   *Predicate
}

// Update creates a builder for the `UPDATE` statement.
//
//	Update("users").Set("name", "foo").Set("age", 10)
func Update(table string) *UpdateBuilder { return &UpdateBuilder{table: table} }

// Set sets a column to a given value.
func (u *UpdateBuilder) Set(column string, v any) *UpdateBuilder {
	u.columns = append(u.columns, column)
	u.values = append(u.values, v)
	return u
}

// SetNull sets a column as null value.
func (u *UpdateBuilder) SetNull(column string) *UpdateBuilder {
	return u.Set(column, nil)
}

// Empty reports whether this builder does not contain update changes.
func (u *UpdateBuilder) Empty() bool {
	return len(u.columns) == 0
}

// Where adds a where predicate for update statement.
func (u *UpdateBuilder) Where(p *Predicate) *UpdateBuilder {
	if u.where != nil {
		u.where = And(u.where, p)
	} else {
		u.where = p
	}
	return u
}

// Query returns query representation of an `UPDATE` statement.
func (u *UpdateBuilder) Query() (string, []any) {
	b := &Builder{dialect: u.dialect}
	b.WriteString("UPDATE ").Ident(u.table).WriteString(" SET ")
	for i, c := range u.columns {
		if i > 0 {
			b.Comma()
		}
		b.Ident(c).WriteString(" = ").Arg(u.values[i])
	}
	if u.where != nil {
		b.WriteString(" WHERE ")
		u.where.render(b)
	}
	return b.Query()
}

// DeleteBuilder is a builder for `DELETE` statement.
type DeleteBuilder struct {
	Builder
	table string
	where *Predicate
}

// Delete creates a builder for the `DELETE` statement.
//
//	Delete("users").
//		Where(
//			Or(
//				And(EQ("name", "foo"), EQ("age", 10)),
//				And(EQ("name", "bar"), EQ("age", 20)),
//			),
//		)
func Delete(table string) *DeleteBuilder { return &DeleteBuilder{table: table} }

// Where appends a where predicate to the `DELETE` statement.
func (d *DeleteBuilder) Where(p *Predicate) *DeleteBuilder {
	if d.where != nil {
		d.where = And(d.where, p)
	} else {
		d.where = p
	}
	return d
}

// Query returns query representation of a `DELETE` statement.
func (d *DeleteBuilder) Query() (string, []any) {
	b := &Builder{dialect: d.dialect}
	b.WriteString("DELETE FROM ").Ident(d.table)
	if d.where != nil {
		b.WriteString(" WHERE ")
		d.where.render(b)
	}
	return b.Query()
}
