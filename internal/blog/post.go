package blog

import (
	"fmt"

	"github.com/syssam/relq"
	"github.com/syssam/relq/dialect/sql"
)

// Post is the model entity for the Post schema.
type Post struct {
	ID       int64  `json:"id,omitempty"`
	Title    string `json:"title,omitempty"`
	Views    int    `json:"views,omitempty"`
	AuthorID int64  `json:"author_id,omitempty"`
	// EditorID is nil for posts without an editor.
	EditorID *int64    `json:"editor_id,omitempty"`
	Edges    PostEdges `json:"edges"`
}

// PostEdges holds the relations of a Post.
type PostEdges struct {
	Author   *User      `json:"author,omitempty"`
	Editor   *User      `json:"editor,omitempty"`
	Comments []*Comment `json:"comments,omitempty"`
	// loadedTypes holds the information for reporting if a
	// type was loaded (or requested) in a query.
	loadedTypes [3]bool
}

// AuthorOrErr returns the Author value or an error if the edge
// was not loaded.
func (e PostEdges) AuthorOrErr() (*User, error) {
	if e.loadedTypes[0] {
		return e.Author, nil
	}
	return nil, relq.NewNotLoadedError("author")
}

// EditorOrErr returns the Editor value or an error if the edge
// was not loaded.
func (e PostEdges) EditorOrErr() (*User, error) {
	if e.loadedTypes[1] {
		return e.Editor, nil
	}
	return nil, relq.NewNotLoadedError("editor")
}

// CommentsOrErr returns the Comments value or an error if the edge
// was not loaded.
func (e PostEdges) CommentsOrErr() ([]*Comment, error) {
	if e.loadedTypes[2] {
		return e.Comments, nil
	}
	return nil, relq.NewNotLoadedError("comments")
}

// ScanValues returns the types for scanning values from sql.Rows.
func (*Post) ScanValues(columns []string) ([]any, error) {
	values := make([]any, len(columns))
	for i := range columns {
		switch columns[i] {
		case "id", "views", "author_id", "editor_id":
			values[i] = new(sql.NullInt64)
		case "title":
			values[i] = new(sql.NullString)
		default:
			return nil, fmt.Errorf("unexpected column %q for type Post", columns[i])
		}
	}
	return values, nil
}

// AssignValues assigns the values that were returned from sql.Rows (after
// scanning) to the Post fields.
func (p *Post) AssignValues(columns []string, values []any) error {
	if m, n := len(values), len(columns); m < n {
		return fmt.Errorf("mismatch number of scan values: %d != %d", m, n)
	}
	for i := range columns {
		switch columns[i] {
		case "title":
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field title", values[i])
			} else if value.Valid {
				p.Title = value.String
			}
		default:
			value, ok := values[i].(*sql.NullInt64)
			if !ok {
				return fmt.Errorf("unexpected type %T for field %s", values[i], columns[i])
			}
			switch columns[i] {
			case "id":
				p.ID = value.Int64
			case "views":
				p.Views = int(value.Int64)
			case "author_id":
				p.AuthorID = value.Int64
			case "editor_id":
				p.EditorID = nil
				if value.Valid {
					p.EditorID = new(int64)
					*p.EditorID = value.Int64
				}
			}
		}
	}
	return nil
}

// Value returns the value of a scalar field. A NULL editor_id is returned
// as an untyped nil.
func (p *Post) Value(field string) (any, bool) {
	switch field {
	case "id":
		return p.ID, true
	case "title":
		return p.Title, true
	case "views":
		return p.Views, true
	case "author_id":
		return p.AuthorID, true
	case "editor_id":
		if p.EditorID == nil {
			return nil, true
		}
		return *p.EditorID, true
	}
	return nil, false
}

// ClearValue resets a scalar field.
func (p *Post) ClearValue(field string) {
	switch field {
	case "id":
		p.ID = 0
	case "title":
		p.Title = ""
	case "views":
		p.Views = 0
	case "author_id":
		p.AuthorID = 0
	case "editor_id":
		p.EditorID = nil
	}
}

// SetRelation fills a relation slot of the post.
func (p *Post) SetRelation(name string, v any) error {
	switch name {
	case "author", "editor":
		u, ok := v.(*User)
		if !ok {
			return fmt.Errorf("unexpected type %T for relation %s", v, name)
		}
		if name == "author" {
			p.Edges.Author, p.Edges.loadedTypes[0] = u, true
		} else {
			p.Edges.Editor, p.Edges.loadedTypes[1] = u, true
		}
	case "comments":
		comments, ok := v.([]*Comment)
		if !ok {
			return fmt.Errorf("unexpected type %T for relation comments", v)
		}
		p.Edges.Comments, p.Edges.loadedTypes[2] = comments, true
	default:
		return relq.NewRelationNotFoundError(PostEntity, name)
	}
	return nil
}

// String implements the fmt.Stringer.
func (p *Post) String() string {
	editor := "<nil>"
	if p.EditorID != nil {
		editor = fmt.Sprint(*p.EditorID)
	}
	return fmt.Sprintf("Post(id=%d, title=%s, views=%d, author_id=%d, editor_id=%s)", p.ID, p.Title, p.Views, p.AuthorID, editor)
}
