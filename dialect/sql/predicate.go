package sql

import "strings"

// Predicate is a where-clause condition. It renders lazily so the same
// predicate can be placed into statements of any dialect.
type Predicate struct {
	fn func(*Builder)
}

// P creates a predicate from a render function.
func P(fn func(*Builder)) *Predicate {
	return &Predicate{fn: fn}
}

// ExprP creates a predicate from a raw SQL expression and its arguments.
// Each "?" in expr is replaced by the placeholder of the dialect.
//
//	ExprP("age > ? AND age < ?", 10, 20)
func ExprP(expr string, args ...any) *Predicate {
	return P(func(b *Builder) {
		parts := strings.Split(expr, "?")
		for i, part := range parts {
			b.WriteString(part)
			if i < len(parts)-1 && i < len(args) {
				b.Arg(args[i])
			}
		}
	})
}

func (p *Predicate) render(b *Builder) {
	p.fn(b)
}

// Query renders the predicate with "?" placeholders. It is used for
// describing conditions in errors and logs.
func (p *Predicate) Query() (string, []any) {
	b := &Builder{}
	p.render(b)
	return b.Query()
}

// String implements fmt.Stringer.
func (p *Predicate) String() string {
	s, _ := p.Query()
	return s
}

// And combines all given predicates with AND. Nil predicates are skipped.
func And(preds ...*Predicate) *Predicate {
	return join("AND", preds)
}

// Or combines all given predicates with OR. Nil predicates are skipped.
func Or(preds ...*Predicate) *Predicate {
	return join("OR", preds)
}

func join(op string, preds []*Predicate) *Predicate {
	ps := make([]*Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			ps = append(ps, p)
		}
	}
	if len(ps) == 1 {
		return ps[0]
	}
	return P(func(b *Builder) {
		if len(ps) == 0 {
			b.WriteString("TRUE")
			return
		}
		for i, p := range ps {
			if i > 0 {
				b.WriteOp(op)
			}
			b.Wrap(p.render)
		}
	})
}

// Not wraps the given predicate with NOT.
func Not(pred *Predicate) *Predicate {
	return P(func(b *Builder) {
		b.WriteString("NOT ").Wrap(pred.render)
	})
}

func binary(col, op string, v any) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteOp(op).Arg(v)
	})
}

// EQ returns a "=" predicate.
func EQ(col string, v any) *Predicate { return binary(col, "=", v) }

// NEQ returns a "<>" predicate.
func NEQ(col string, v any) *Predicate { return binary(col, "<>", v) }

// GT returns a ">" predicate.
func GT(col string, v any) *Predicate { return binary(col, ">", v) }

// GTE returns a ">=" predicate.
func GTE(col string, v any) *Predicate { return binary(col, ">=", v) }

// LT returns a "<" predicate.
func LT(col string, v any) *Predicate { return binary(col, "<", v) }

// LTE returns a "<=" predicate.
func LTE(col string, v any) *Predicate { return binary(col, "<=", v) }

// Like returns a LIKE predicate.
func Like(col, pattern string) *Predicate { return binary(col, "LIKE", pattern) }

// Contains returns a LIKE predicate matching a substring.
func Contains(col, sub string) *Predicate { return Like(col, "%"+escape(sub)+"%") }

// HasPrefix returns a LIKE predicate matching a prefix.
func HasPrefix(col, prefix string) *Predicate { return Like(col, escape(prefix)+"%") }

// HasSuffix returns a LIKE predicate matching a suffix.
func HasSuffix(col, suffix string) *Predicate { return Like(col, "%"+escape(suffix)) }

// ContainsFold is a case-insensitive Contains.
func ContainsFold(col, sub string) *Predicate {
	return P(func(b *Builder) {
		b.WriteString("LOWER(").Ident(col).WriteString(") LIKE ").Arg("%" + strings.ToLower(escape(sub)) + "%")
	})
}

// EqualFold is a case-insensitive EQ.
func EqualFold(col, v string) *Predicate {
	return P(func(b *Builder) {
		b.WriteString("LOWER(").Ident(col).WriteString(") = ").Arg(strings.ToLower(v))
	})
}

func escape(s string) string {
	return strings.NewReplacer("%", `\%`, "_", `\_`).Replace(s)
}

// In returns an IN predicate. An empty list matches nothing.
func In(col string, vs ...any) *Predicate {
	return P(func(b *Builder) {
		if len(vs) == 0 {
			b.WriteString("FALSE")
			return
		}
		b.Ident(col).WriteString(" IN ").Wrap(func(b *Builder) { b.Args(vs...) })
	})
}

// NotIn returns a NOT IN predicate. An empty list matches everything.
func NotIn(col string, vs ...any) *Predicate {
	return P(func(b *Builder) {
		if len(vs) == 0 {
			b.WriteString("TRUE")
			return
		}
		b.Ident(col).WriteString(" NOT IN ").Wrap(func(b *Builder) { b.Args(vs...) })
	})
}

// IsNull returns an IS NULL predicate.
func IsNull(col string) *Predicate {
	return P(func(b *Builder) { b.Ident(col).WriteString(" IS NULL") })
}

// NotNull returns an IS NOT NULL predicate.
func NotNull(col string) *Predicate {
	return P(func(b *Builder) { b.Ident(col).WriteString(" IS NOT NULL") })
}

// PredicateFunc is a constraint for entity predicate types. Generated
// packages declare `type User func(*sql.Selector)` and reuse the typed
// fields below.
type PredicateFunc interface {
	~func(*Selector)
}

// FieldEQ returns a selector option that filters column by equality.
func FieldEQ(col string, v any) func(*Selector) {
	return func(s *Selector) { s.Where(EQ(col, v)) }
}

// FieldNEQ is the inequality counterpart of FieldEQ.
func FieldNEQ(col string, v any) func(*Selector) {
	return func(s *Selector) { s.Where(NEQ(col, v)) }
}

// FieldGT filters column > v.
func FieldGT(col string, v any) func(*Selector) {
	return func(s *Selector) { s.Where(GT(col, v)) }
}

// FieldGTE filters column >= v.
func FieldGTE(col string, v any) func(*Selector) {
	return func(s *Selector) { s.Where(GTE(col, v)) }
}

// FieldLT filters column < v.
func FieldLT(col string, v any) func(*Selector) {
	return func(s *Selector) { s.Where(LT(col, v)) }
}

// FieldLTE filters column <= v.
func FieldLTE(col string, v any) func(*Selector) {
	return func(s *Selector) { s.Where(LTE(col, v)) }
}

// FieldIn filters column IN vs.
func FieldIn[T any](col string, vs ...T) func(*Selector) {
	return func(s *Selector) { s.Where(In(col, anys(vs)...)) }
}

// FieldNotIn filters column NOT IN vs.
func FieldNotIn[T any](col string, vs ...T) func(*Selector) {
	return func(s *Selector) { s.Where(NotIn(col, anys(vs)...)) }
}

// FieldIsNull filters column IS NULL.
func FieldIsNull(col string) func(*Selector) {
	return func(s *Selector) { s.Where(IsNull(col)) }
}

// FieldNotNull filters column IS NOT NULL.
func FieldNotNull(col string) func(*Selector) {
	return func(s *Selector) { s.Where(NotNull(col)) }
}

func anys[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i := range vs {
		out[i] = vs[i]
	}
	return out
}

// Field is a typed column that builds predicates of type P.
//
//	var Age = sql.Field[predicate.User, int]("age")
//	query.Where(user.Age.GT(30))
type Field[P PredicateFunc, T any] string

// Name returns the column name.
func (f Field[P, T]) Name() string { return string(f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f Field[P, T]) EQ(v T) P { return P(FieldEQ(string(f), v)) }

// NEQ returns a predicate that checks if the field does not equal the given value.
func (f Field[P, T]) NEQ(v T) P { return P(FieldNEQ(string(f), v)) }

// GT returns a predicate that checks if the field is greater than the given value.
func (f Field[P, T]) GT(v T) P { return P(FieldGT(string(f), v)) }

// GTE returns a predicate that checks if the field is greater than or equal to the given value.
func (f Field[P, T]) GTE(v T) P { return P(FieldGTE(string(f), v)) }

// LT returns a predicate that checks if the field is less than the given value.
func (f Field[P, T]) LT(v T) P { return P(FieldLT(string(f), v)) }

// LTE returns a predicate that checks if the field is less than or equal to the given value.
func (f Field[P, T]) LTE(v T) P { return P(FieldLTE(string(f), v)) }

// In returns a predicate that checks if the field value is in the given list.
func (f Field[P, T]) In(vs ...T) P { return P(FieldIn(string(f), vs...)) }

// NotIn returns a predicate that checks if the field value is not in the given list.
func (f Field[P, T]) NotIn(vs ...T) P { return P(FieldNotIn(string(f), vs...)) }

// IsNull returns a predicate that checks if the field is NULL.
func (f Field[P, T]) IsNull() P { return P(FieldIsNull(string(f))) }

// NotNull returns a predicate that checks if the field is not NULL.
func (f Field[P, T]) NotNull() P { return P(FieldNotNull(string(f))) }

// StringField is a string column with pattern predicates on top of Field.
type StringField[P PredicateFunc] string

// Name returns the column name.
func (f StringField[P]) Name() string { return string(f) }

func (f StringField[P]) field() Field[P, string] { return Field[P, string](f) }

// EQ returns a predicate that checks if the field equals the given value.
func (f StringField[P]) EQ(v string) P { return f.field().EQ(v) }

// NEQ returns a predicate that checks if the field does not equal the given value.
func (f StringField[P]) NEQ(v string) P { return f.field().NEQ(v) }

// GT returns a predicate that checks if the field sorts after the given value.
func (f StringField[P]) GT(v string) P { return f.field().GT(v) }

// LT returns a predicate that checks if the field sorts before the given value.
func (f StringField[P]) LT(v string) P { return f.field().LT(v) }

// In returns a predicate that checks if the field value is in the given list.
func (f StringField[P]) In(vs ...string) P { return f.field().In(vs...) }

// NotIn returns a predicate that checks if the field value is not in the given list.
func (f StringField[P]) NotIn(vs ...string) P { return f.field().NotIn(vs...) }

// IsNull returns a predicate that checks if the field is NULL.
func (f StringField[P]) IsNull() P { return f.field().IsNull() }

// NotNull returns a predicate that checks if the field is not NULL.
func (f StringField[P]) NotNull() P { return f.field().NotNull() }

// Contains returns a predicate that checks if the field contains the given substring.
func (f StringField[P]) Contains(v string) P {
	return P(func(s *Selector) { s.Where(Contains(string(f), v)) })
}

// ContainsFold is the case-insensitive form of Contains.
func (f StringField[P]) ContainsFold(v string) P {
	return P(func(s *Selector) { s.Where(ContainsFold(string(f), v)) })
}

// HasPrefix returns a predicate that checks if the field has the given prefix.
func (f StringField[P]) HasPrefix(v string) P {
	return P(func(s *Selector) { s.Where(HasPrefix(string(f), v)) })
}

// HasSuffix returns a predicate that checks if the field has the given suffix.
func (f StringField[P]) HasSuffix(v string) P {
	return P(func(s *Selector) { s.Where(HasSuffix(string(f), v)) })
}

// EqualFold returns a predicate that checks if the field equals the given value (case-insensitive).
func (f StringField[P]) EqualFold(v string) P {
	return P(func(s *Selector) { s.Where(EqualFold(string(f), v)) })
}

// Typed shorthands for common column types.
type (
	IntField[P PredicateFunc]     = Field[P, int]
	Int64Field[P PredicateFunc]   = Field[P, int64]
	Float64Field[P PredicateFunc] = Field[P, float64]
	BoolField[P PredicateFunc]    = Field[P, bool]
)

// AndP combines selector options with AND.
func AndP[P PredicateFunc](ps ...P) P {
	return P(func(s *Selector) {
		s.Where(collect(s, ps, And))
	})
}

// OrP combines selector options with OR.
func OrP[P PredicateFunc](ps ...P) P {
	return P(func(s *Selector) {
		s.Where(collect(s, ps, Or))
	})
}

// NotP negates a selector option.
func NotP[P PredicateFunc](p P) P {
	return P(func(s *Selector) {
		s.Where(Not(collect(s, []P{p}, And)))
	})
}

// collect applies each option to an empty selector of the same dialect and
// combines the resulting conditions.
func collect[P PredicateFunc](s *Selector, ps []P, combine func(...*Predicate) *Predicate) *Predicate {
	preds := make([]*Predicate, 0, len(ps))
	for _, p := range ps {
		tmp := Select().From(s.Table())
		tmp.SetDialect(s.Dialect())
		p(tmp)
		preds = append(preds, tmp.P())
	}
	return combine(preds...)
}
