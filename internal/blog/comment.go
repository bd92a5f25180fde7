package blog

import (
	"fmt"

	"github.com/syssam/relq"
	"github.com/syssam/relq/dialect/sql"
)

// Comment is the model entity for the Comment schema.
type Comment struct {
	ID     int64        `json:"id,omitempty"`
	Body   string       `json:"body,omitempty"`
	PostID int64        `json:"post_id,omitempty"`
	Edges  CommentEdges `json:"edges"`
}

// CommentEdges holds the relations of a Comment.
type CommentEdges struct {
	Post        *Post `json:"post,omitempty"`
	loadedTypes [1]bool
}

// PostOrErr returns the Post value or an error if the edge
// was not loaded.
func (e CommentEdges) PostOrErr() (*Post, error) {
	if e.loadedTypes[0] {
		return e.Post, nil
	}
	return nil, relq.NewNotLoadedError("post")
}

// ScanValues returns the types for scanning values from sql.Rows.
func (*Comment) ScanValues(columns []string) ([]any, error) {
	values := make([]any, len(columns))
	for i := range columns {
		switch columns[i] {
		case "id", "post_id":
			values[i] = new(sql.NullInt64)
		case "body":
			values[i] = new(sql.NullString)
		default:
			return nil, fmt.Errorf("unexpected column %q for type Comment", columns[i])
		}
	}
	return values, nil
}

// AssignValues assigns the values that were returned from sql.Rows (after
// scanning) to the Comment fields.
func (c *Comment) AssignValues(columns []string, values []any) error {
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
			c.ID = value.Int64
		case "post_id":
			if value, ok := values[i].(*sql.NullInt64); !ok {
				return fmt.Errorf("unexpected type %T for field post_id", values[i])
			} else if value.Valid {
				c.PostID = value.Int64
			}
		case "body":
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field body", values[i])
			} else if value.Valid {
				c.Body = value.String
			}
		}
	}
	return nil
}

// Value returns the value of a scalar field.
func (c *Comment) Value(field string) (any, bool) {
	switch field {
	case "id":
		return c.ID, true
	case "body":
		return c.Body, true
	case "post_id":
		return c.PostID, true
	}
	return nil, false
}

// ClearValue resets a scalar field.
func (c *Comment) ClearValue(field string) {
	switch field {
	case "id":
		c.ID = 0
	case "body":
		c.Body = ""
	case "post_id":
		c.PostID = 0
	}
}

// SetRelation fills a relation slot of the comment.
func (c *Comment) SetRelation(name string, v any) error {
	if name != "post" {
		return relq.NewRelationNotFoundError(CommentEntity, name)
	}
	p, ok := v.(*Post)
	if !ok {
		return fmt.Errorf("unexpected type %T for relation post", v)
	}
	c.Edges.Post, c.Edges.loadedTypes[0] = p, true
	return nil
}
