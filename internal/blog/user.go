package blog

import (
	"fmt"

	"github.com/syssam/relq"
	"github.com/syssam/relq/dialect/sql"
)

// User is the model entity for the User schema.
type User struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Age   int    `json:"age,omitempty"`
	Role  string `json:"role,omitempty"`
	// Edges holds the relations of the user. Only requested relations are
	// populated.
	Edges UserEdges `json:"edges"`
}

// UserEdges holds the relations of a User.
type UserEdges struct {
	Posts   []*Post  `json:"posts,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
	// loadedTypes holds the information for reporting if a
	// type was loaded (or requested) in a query.
	loadedTypes [2]bool
}

// PostsOrErr returns the Posts value or an error if the edge
// was not loaded.
func (e UserEdges) PostsOrErr() ([]*Post, error) {
	if e.loadedTypes[0] {
		return e.Posts, nil
	}
	return nil, relq.NewNotLoadedError("posts")
}

// ProfileOrErr returns the Profile value or an error if the edge was not
// loaded. A loaded but absent profile is returned as nil.
func (e UserEdges) ProfileOrErr() (*Profile, error) {
	if e.loadedTypes[1] {
		return e.Profile, nil
	}
	return nil, relq.NewNotLoadedError("profile")
}

// ScanValues returns the types for scanning values from sql.Rows.
func (*User) ScanValues(columns []string) ([]any, error) {
	values := make([]any, len(columns))
	for i := range columns {
		switch columns[i] {
		case "id", "age":
			values[i] = new(sql.NullInt64)
		case "name", "email", "role":
			values[i] = new(sql.NullString)
		default:
			return nil, fmt.Errorf("unexpected column %q for type User", columns[i])
		}
	}
	return values, nil
}

// AssignValues assigns the values that were returned from sql.Rows (after
// scanning) to the User fields.
func (u *User) AssignValues(columns []string, values []any) error {
	if m, n := len(values), len(columns); m < n {
		return fmt.Errorf("mismatch number of scan values: %d != %d", m, n)
	}
	for i := range columns {
		switch columns[i] {
		case "id":
			value, ok := values[i].(*sql.NullInt64)
			if !ok {
				return fmt.Errorf("unexpected type %T for field id", values[i])
			}
			u.ID = value.Int64
		case "age":
			if value, ok := values[i].(*sql.NullInt64); !ok {
				return fmt.Errorf("unexpected type %T for field age", values[i])
			} else if value.Valid {
				u.Age = int(value.Int64)
			}
		case "name":
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field name", values[i])
			} else if value.Valid {
				u.Name = value.String
			}
		case "email":
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field email", values[i])
			} else if value.Valid {
				u.Email = value.String
			}
		case "role":
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field role", values[i])
			} else if value.Valid {
				u.Role = value.String
			}
		}
	}
	return nil
}

// Value returns the value of a scalar field.
func (u *User) Value(field string) (any, bool) {
	switch field {
	case "id":
		return u.ID, true
	case "name":
		return u.Name, true
	case "email":
		return u.Email, true
	case "age":
		return u.Age, true
	case "role":
		return u.Role, true
	}
	return nil, false
}

// ClearValue resets a scalar field.
func (u *User) ClearValue(field string) {
	switch field {
	case "id":
		u.ID = 0
	case "name":
		u.Name = ""
	case "email":
		u.Email = ""
	case "age":
		u.Age = 0
	case "role":
		u.Role = ""
	}
}

// SetRelation fills a relation slot of the user.
func (u *User) SetRelation(name string, v any) error {
	switch name {
	case "posts":
		posts, ok := v.([]*Post)
		if !ok {
			return fmt.Errorf("unexpected type %T for relation posts", v)
		}
		u.Edges.Posts = posts
		u.Edges.loadedTypes[0] = true
	case "profile":
		profile, ok := v.(*Profile)
		if !ok {
			return fmt.Errorf("unexpected type %T for relation profile", v)
		}
		u.Edges.Profile = profile
		u.Edges.loadedTypes[1] = true
	default:
		return relq.NewRelationNotFoundError(UserEntity, name)
	}
	return nil
}

// String implements the fmt.Stringer.
func (u *User) String() string {
	return fmt.Sprintf("User(id=%d, name=%s, email=%s, age=%d, role=%s)", u.ID, u.Name, u.Email, u.Age, u.Role)
}
