package blog

import (
	"fmt"

	"github.com/syssam/relq"
	"github.com/syssam/relq/dialect/sql"
)

// Profile is the model entity for the Profile schema.
type Profile struct {
	ID     int64        `json:"id,omitempty"`
	Bio    string       `json:"bio,omitempty"`
	UserID int64        `json:"user_id,omitempty"`
	Edges  ProfileEdges `json:"edges"`
}

// ProfileEdges holds the relations of a Profile.
type ProfileEdges struct {
	User        *User `json:"user,omitempty"`
	loadedTypes [1]bool
}

// UserOrErr returns the User value or an error if the edge
// was not loaded.
func (e ProfileEdges) UserOrErr() (*User, error) {
	if e.loadedTypes[0] {
		return e.User, nil
	}
	return nil, relq.NewNotLoadedError("user")
}

// ScanValues returns the types for scanning values from sql.Rows.
func (*Profile) ScanValues(columns []string) ([]any, error) {
	values := make([]any, len(columns))
	for i := range columns {
		switch columns[i] {
		case "id", "user_id":
			values[i] = new(sql.NullInt64)
		case "bio":
			values[i] = new(sql.NullString)
		default:
			return nil, fmt.Errorf("unexpected column %q for type Profile", columns[i])
		}
	}
	return values, nil
}

// AssignValues assigns the values that were returned from sql.Rows (after
// scanning) to the Profile fields.
func (p *Profile) AssignValues(columns []string, values []any) error {
	if m, n := len(values), len(columns); m < n {
		return fmt.Errorf("mismatch number of scan values: %d != %d", m, n)
	}
	for i := range columns {
		switch columns[i] {
		case "id", "user_id":
			value, ok := values[i].(*sql.NullInt64)
			if !ok {
				return fmt.Errorf("unexpected type %T for field %s", values[i], columns[i])
			}
			if columns[i] == "id" {
				p.ID = value.Int64
			} else {
				p.UserID = value.Int64
			}
		case "bio":
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field bio", values[i])
			} else if value.Valid {
				p.Bio = value.String
			}
		}
	}
	return nil
}

// Value returns the value of a scalar field.
func (p *Profile) Value(field string) (any, bool) {
	switch field {
	case "id":
		return p.ID, true
	case "bio":
		return p.Bio, true
	case "user_id":
		return p.UserID, true
	}
	return nil, false
}

// ClearValue resets a scalar field.
func (p *Profile) ClearValue(field string) {
	switch field {
	case "id":
		p.ID = 0
	case "bio":
		p.Bio = ""
	case "user_id":
		p.UserID = 0
	}
}

// SetRelation fills a relation slot of the profile.
func (p *Profile) SetRelation(name string, v any) error {
	if name != "user" {
		return relq.NewRelationNotFoundError(ProfileEntity, name)
	}
	u, ok := v.(*User)
	if !ok {
		return fmt.Errorf("unexpected type %T for relation user", v)
	}
	p.Edges.User, p.Edges.loadedTypes[0] = u, true
	return nil
}
