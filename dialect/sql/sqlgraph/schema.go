package sqlgraph

import (
	"fmt"

	"github.com/go-openapi/inflect"

	"github.com/syssam/relq"
)

// FieldSpec maps an entity field to its column.
type FieldSpec struct {
	Name   string
	Column string
}

// EntitySpec holds the static metadata of an entity: its table, primary key,
// scalar fields and relations. Specs are built once by generated code and
// never modified afterwards.
type EntitySpec struct {
	Name   string
	Table  string
	ID     *FieldSpec
	Fields []*FieldSpec
	Edges  []*Relation
}

// TableName returns Table, or the snake-cased plural of Name when unset.
func (s *EntitySpec) TableName() string {
	if s.Table != "" {
		return s.Table
	}
	return inflect.Underscore(inflect.Pluralize(s.Name))
}

// Columns returns the ID column followed by all field columns.
func (s *EntitySpec) Columns() []string {
	columns := make([]string, 0, len(s.Fields)+1)
	columns = append(columns, s.ID.Column)
	for _, f := range s.Fields {
		columns = append(columns, f.Column)
	}
	return columns
}

// Field returns the field with the given name, including the ID field.
func (s *EntitySpec) Field(name string) (*FieldSpec, bool) {
	if s.ID.Name == name {
		return s.ID, true
	}
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Column returns the column of a field, or a validation error for unknown
// field names.
func (s *EntitySpec) Column(field string) (string, error) {
	f, ok := s.Field(field)
	if !ok {
		return "", relq.NewValidationError(field, fmt.Errorf("unknown field on %s", s.Name))
	}
	return f.Column, nil
}

// Relation returns the descriptor of the named relation. Names are compared
// in snake case, so "authorPosts" and "author_posts" are the same relation.
func (s *EntitySpec) Relation(name string) (*Relation, error) {
	want := inflect.Underscore(name)
	for _, r := range s.Edges {
		if inflect.Underscore(r.Name) == want {
			return r, nil
		}
	}
	return nil, relq.NewRelationNotFoundError(s.Name, name)
}

// Relations returns all relation descriptors in declaration order.
func (s *EntitySpec) Relations() []*Relation {
	return s.Edges
}

// Relation describes one declared relationship of an entity.
//
// For a belongs-to relation the entity holds the foreign key: ForeignKeyField
// is read from the record and matched against TargetPrimaryKeyColumn. For
// has-many and has-one (Inverse) relations the target holds the key:
// PrimaryKeyField is read from the record and matched against
// ForeignKeyColumn on the target table.
type Relation struct {
	Name                   string
	Target                 string
	ForeignKeyField        string
	ForeignKeyColumn       string
	PrimaryKeyField        string
	TargetPrimaryKeyColumn string
	HasMany                bool
	Inverse                bool
	Nullable               bool
}

// KeyField returns the field of the current record that the relation joins on.
func (r *Relation) KeyField() string {
	if r.HasMany || r.Inverse {
		return r.PrimaryKeyField
	}
	return r.ForeignKeyField
}

// MatchColumn returns the target column compared against the key.
func (r *Relation) MatchColumn() string {
	if r.HasMany || r.Inverse {
		return r.ForeignKeyColumn
	}
	return r.TargetPrimaryKeyColumn
}

// ForeignKey reads the join key from n. It reports false when the key is
// absent or NULL.
func (r *Relation) ForeignKey(n Node) (any, bool) {
	v, ok := n.Value(r.KeyField())
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Set writes a fetched value into the relation slot of n.
func (r *Relation) Set(n Node, v any) error {
	return n.SetRelation(r.Name, v)
}

// Node is implemented by generated record types. Columns and values are
// converted by the record itself; the engine only moves them between rows
// and records.
type Node interface {
	// ScanValues returns the scan destinations for the given columns.
	ScanValues(columns []string) ([]any, error)
	// AssignValues assigns the scanned values to the record fields.
	AssignValues(columns []string, values []any) error
	// Value returns the value of a scalar field by field name.
	Value(field string) (any, bool)
	// ClearValue resets a scalar field to its zero value.
	ClearValue(field string)
	// SetRelation fills the named relation slot.
	SetRelation(name string, v any) error
}
