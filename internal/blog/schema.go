// Package blog holds a small blog schema written the way the relq generator
// emits entity code: specs, record types implementing sqlgraph.Node, typed
// predicates and client accessors.
package blog

import (
	"github.com/syssam/relq/dialect"
	"github.com/syssam/relq/dialect/sql"
	"github.com/syssam/relq/dialect/sql/sqlgraph"
)

// Entity names.
const (
	UserEntity    = "User"
	PostEntity    = "Post"
	CommentEntity = "Comment"
	ProfileEntity = "Profile"
)

var (
	// UserSpec describes the users table.
	UserSpec = &sqlgraph.EntitySpec{
		Name: UserEntity,
		ID:   &sqlgraph.FieldSpec{Name: "id", Column: "id"},
		Fields: []*sqlgraph.FieldSpec{
			{Name: "name", Column: "name"},
			{Name: "email", Column: "email"},
			{Name: "age", Column: "age"},
			{Name: "role", Column: "role"},
		},
		Edges: []*sqlgraph.Relation{
			{
				Name:             "posts",
				Target:           PostEntity,
				ForeignKeyField:  "author_id",
				ForeignKeyColumn: "author_id",
				PrimaryKeyField:  "id",
				HasMany:          true,
			},
			{
				Name:             "profile",
				Target:           ProfileEntity,
				ForeignKeyField:  "user_id",
				ForeignKeyColumn: "user_id",
				PrimaryKeyField:  "id",
				Inverse:          true,
				Nullable:         true,
			},
		},
	}
	// PostSpec describes the posts table.
	PostSpec = &sqlgraph.EntitySpec{
		Name: PostEntity,
		ID:   &sqlgraph.FieldSpec{Name: "id", Column: "id"},
		Fields: []*sqlgraph.FieldSpec{
			{Name: "title", Column: "title"},
			{Name: "views", Column: "views"},
			{Name: "author_id", Column: "author_id"},
			{Name: "editor_id", Column: "editor_id"},
		},
		Edges: []*sqlgraph.Relation{
			{
				Name:                   "author",
				Target:                 UserEntity,
				ForeignKeyField:        "author_id",
				ForeignKeyColumn:       "author_id",
				PrimaryKeyField:        "id",
				TargetPrimaryKeyColumn: "id",
			},
			{
				Name:                   "editor",
				Target:                 UserEntity,
				ForeignKeyField:        "editor_id",
				ForeignKeyColumn:       "editor_id",
				PrimaryKeyField:        "id",
				TargetPrimaryKeyColumn: "id",
				Nullable:               true,
			},
			{
				Name:             "comments",
				Target:           CommentEntity,
				ForeignKeyField:  "post_id",
				ForeignKeyColumn: "post_id",
				PrimaryKeyField:  "id",
				HasMany:          true,
			},
		},
	}
	// CommentSpec describes the comments table.
	CommentSpec = &sqlgraph.EntitySpec{
		Name: CommentEntity,
		ID:   &sqlgraph.FieldSpec{Name: "id", Column: "id"},
		Fields: []*sqlgraph.FieldSpec{
			{Name: "body", Column: "body"},
			{Name: "post_id", Column: "post_id"},
		},
		Edges: []*sqlgraph.Relation{
			{
				Name:                   "post",
				Target:                 PostEntity,
				ForeignKeyField:        "post_id",
				ForeignKeyColumn:       "post_id",
				PrimaryKeyField:        "id",
				TargetPrimaryKeyColumn: "id",
			},
		},
	}
	// ProfileSpec describes the profiles table.
	ProfileSpec = &sqlgraph.EntitySpec{
		Name: ProfileEntity,
		ID:   &sqlgraph.FieldSpec{Name: "id", Column: "id"},
		Fields: []*sqlgraph.FieldSpec{
			{Name: "bio", Column: "bio"},
			{Name: "user_id", Column: "user_id"},
		},
		Edges: []*sqlgraph.Relation{
			{
				Name:                   "user",
				Target:                 UserEntity,
				ForeignKeyField:        "user_id",
				ForeignKeyColumn:       "user_id",
				PrimaryKeyField:        "id",
				TargetPrimaryKeyColumn: "id",
			},
		},
	}
)

// Record types bound to their specs.
var (
	UserType    = sqlgraph.NewType(UserSpec, func() *User { return &User{} })
	PostType    = sqlgraph.NewType(PostSpec, func() *Post { return &Post{} })
	CommentType = sqlgraph.NewType(CommentSpec, func() *Comment { return &Comment{} })
	ProfileType = sqlgraph.NewType(ProfileSpec, func() *Profile { return &Profile{} })
)

// Registry returns the fetcher registry of the blog entities.
func Registry() *sqlgraph.Registry {
	return sqlgraph.NewRegistry(UserType, PostType, CommentType, ProfileType)
}

// Predicate types.
type (
	UserPredicate    func(*sql.Selector)
	PostPredicate    func(*sql.Selector)
	CommentPredicate func(*sql.Selector)
	ProfilePredicate func(*sql.Selector)
)

// Typed fields.
var (
	UserID    = sql.Int64Field[UserPredicate]("id")
	UserName  = sql.StringField[UserPredicate]("name")
	UserEmail = sql.StringField[UserPredicate]("email")
	UserAge   = sql.IntField[UserPredicate]("age")
	UserRole  = sql.StringField[UserPredicate]("role")

	PostID       = sql.Int64Field[PostPredicate]("id")
	PostTitle    = sql.StringField[PostPredicate]("title")
	PostViews    = sql.IntField[PostPredicate]("views")
	PostAuthorID = sql.Int64Field[PostPredicate]("author_id")
	PostEditorID = sql.Int64Field[PostPredicate]("editor_id")

	CommentID     = sql.Int64Field[CommentPredicate]("id")
	CommentBody   = sql.StringField[CommentPredicate]("body")
	CommentPostID = sql.Int64Field[CommentPredicate]("post_id")

	ProfileID     = sql.Int64Field[ProfilePredicate]("id")
	ProfileUserID = sql.Int64Field[ProfilePredicate]("user_id")
)

// Tables returns the DDL creating the blog tables for the given dialect.
func Tables(name string) []string {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	switch name {
	case dialect.Postgres:
		pk = "BIGSERIAL PRIMARY KEY"
	case dialect.MySQL:
		pk = "BIGINT AUTO_INCREMENT PRIMARY KEY"
	}
	text := "TEXT"
	if name == dialect.MySQL {
		text = "VARCHAR(255)"
	}
	return []string{
		"CREATE TABLE IF NOT EXISTS users (id " + pk + ", name " + text + " NOT NULL, email " + text + " NOT NULL UNIQUE, age INTEGER NOT NULL DEFAULT 0, role " + text + " NOT NULL DEFAULT 'member')",
		"CREATE TABLE IF NOT EXISTS posts (id " + pk + ", title " + text + " NOT NULL, views INTEGER NOT NULL DEFAULT 0, author_id BIGINT NOT NULL REFERENCES users(id), editor_id BIGINT NULL REFERENCES users(id))",
		"CREATE TABLE IF NOT EXISTS comments (id " + pk + ", body " + text + " NOT NULL, post_id BIGINT NOT NULL REFERENCES posts(id))",
		"CREATE TABLE IF NOT EXISTS profiles (id " + pk + ", bio " + text + " NOT NULL DEFAULT '', user_id BIGINT NOT NULL UNIQUE REFERENCES users(id))",
	}
}
