package sqlgraph

import (
	"cmp"
	"context"
	dsql "database/sql"
	"errors"
	"reflect"

	"github.com/syssam/relq"
	"github.com/syssam/relq/dialect/sql"
)

// Lookup defers the resolution of a foreign key: the referenced row is
// identified by a unique business key, and its primary key is written to a
// draft field right before the write statement runs.
type Lookup struct {
	field   string
	target  *EntitySpec
	resolve func(context.Context, *Session) (any, error)
}

// Field returns the draft field the resolved key is written to.
func (l *Lookup) Field() string { return l.field }

// Target returns the entity the key is resolved against.
func (l *Lookup) Target() *EntitySpec { return l.target }

// LookupBy returns a lookup that resolves the primary key of the target row
// whose column equals value, and converts it to K. The column must identify
// one row: no match fails with a NotFoundError and several matches with a
// NotSingularError, both wrapped in a LookupError.
//
//	sqlgraph.LookupBy[int64]("author_id", blog.UserSpec, "email", "a8m@example.com")
func LookupBy[K comparable, V any](field string, target *EntitySpec, column string, value V) *Lookup {
	return &Lookup{
		field:  field,
		target: target,
		resolve: func(ctx context.Context, s *Session) (any, error) {
			ids, cond, err := s.selectIDs(ctx, target, []func(*sql.Selector){sql.FieldEQ(column, value)}, 2)
			if err != nil {
				return nil, err
			}
			switch len(ids) {
			case 0:
				return nil, relq.NewNotFoundForCondition(target.Name, cond)
			case 1:
				return convertKey[K](field, ids[0])
			default:
				return nil, relq.NewNotSingularError(target.Name)
			}
		},
	}
}

// LookupFunc returns a lookup with a custom resolver, e.g. for composite
// unique keys. It follows the same ordering and assignment rules as LookupBy.
func LookupFunc(field string, target *EntitySpec, fn func(context.Context, *Session) (any, error)) *Lookup {
	return &Lookup{field: field, target: target, resolve: fn}
}

// convertKey converts a scanned key to K. Drivers return integers as int64
// and strings as []byte, so numeric kinds convert between each other and
// types implementing sql.Scanner (e.g. uuid.UUID) scan themselves. A numeric
// conversion that changes the value fails with a TypeMismatchError.
func convertKey[K comparable](field string, v any) (K, error) {
	var k K
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	if kv, ok := v.(K); ok {
		return kv, nil
	}
	if sc, ok := any(&k).(dsql.Scanner); ok {
		if err := sc.Scan(v); err != nil {
			return k, relq.NewTypeMismatchError(field, k, v)
		}
		return k, nil
	}
	rv, kt := reflect.ValueOf(v), reflect.TypeOf(k)
	if rv.IsValid() && numeric(rv.Kind()) && numeric(kt.Kind()) {
		cv := rv.Convert(kt)
		if !sameNumber(rv, cv) {
			return k, relq.NewTypeMismatchError(field, k, v)
		}
		return cv.Interface().(K), nil
	}
	if rv.IsValid() && rv.Kind() == reflect.String && kt.Kind() == reflect.String {
		return rv.Convert(kt).Interface().(K), nil
	}
	return k, relq.NewTypeMismatchError(field, k, v)
}

// sameNumber reports whether the conversion cv of v kept its value: it
// converts back without loss and keeps the sign.
func sameNumber(v, cv reflect.Value) bool {
	if cv.Convert(v.Type()).Interface() != v.Interface() {
		return false
	}
	return sign(v) == sign(cv)
}

func sign(v reflect.Value) int {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(v.Int(), 0)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cmp.Compare(v.Uint(), 0)
	default:
		return cmp.Compare(v.Float(), 0)
	}
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// resolveLookups resolves every lookup in attachment order, one statement at
// a time, and assigns the results to d only after all of them succeeded.
func resolveLookups(ctx context.Context, s *Session, spec *EntitySpec, d *Draft, lookups []*Lookup) error {
	for _, l := range lookups {
		if l.field == spec.ID.Name {
			return relq.NewValidationError(l.field, errors.New("primary key cannot be assigned by a lookup"))
		}
		if _, err := spec.Column(l.field); err != nil {
			return err
		}
	}
	staged := make([]any, len(lookups))
	for i, l := range lookups {
		v, err := l.resolve(ctx, s)
		if err != nil {
			var lerr *relq.LookupError
			if errors.As(err, &lerr) {
				return err
			}
			return relq.NewLookupError(l.target.Name, l.field, err)
		}
		staged[i] = v
	}
	for i, l := range lookups {
		d.Set(l.field, staged[i])
	}
	return nil
}
