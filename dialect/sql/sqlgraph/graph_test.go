package sqlgraph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/relq/client"
	"github.com/syssam/relq/dialect/sql"
	"github.com/syssam/relq/dialect/sql/sqlgraph"
	"github.com/syssam/relq/internal/blog"
)

// open returns a client on a fresh in-memory sqlite database with the blog
// tables created.
func open(t *testing.T, opts ...client.Option) *client.Client {
	t.Helper()
	drv, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	// One connection keeps the in-memory database alive and shared.
	drv.DB().SetMaxOpenConns(1)
	require.NoError(t, blog.CreateTables(context.Background(), drv))
	c, err := client.New(append([]client.Option{client.Driver(drv), client.Registry(blog.Registry())}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func draft(kv ...any) *sqlgraph.Draft {
	d := sqlgraph.NewDraft()
	for i := 0; i < len(kv); i += 2 {
		d.Set(kv[i].(string), kv[i+1])
	}
	return d
}

func createUser(t *testing.T, c *client.Client, name, email string, age int) *blog.User {
	t.Helper()
	u, err := blog.Users(c).Create(draft("name", name, "email", email, "age", age)).Exec(context.Background())
	require.NoError(t, err)
	return u
}

func createPost(t *testing.T, c *client.Client, title string, views int, author int64) *blog.Post {
	t.Helper()
	p, err := blog.Posts(c).Create(draft("title", title, "views", views, "author_id", author)).Exec(context.Background())
	require.NoError(t, err)
	return p
}

func countUsers(t *testing.T, c *client.Client) int {
	t.Helper()
	n, err := blog.Users(c).Count().Exec(context.Background())
	require.NoError(t, err)
	return n
}
