package sqlgraph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relq"
	"github.com/syssam/relq/client"
	"github.com/syssam/relq/dialect/sql"
	"github.com/syssam/relq/dialect/sql/sqlgraph"
	"github.com/syssam/relq/internal/blog"
)

// seed creates two authors with three posts, one of them edited, and two
// comments on the first post.
func seed(t *testing.T, c *client.Client) (a8m, nati *blog.User, posts []*blog.Post) {
	t.Helper()
	ctx := context.Background()
	a8m = createUser(t, c, "a8m", "a8m@example.com", 30)
	nati = createUser(t, c, "nati", "nati@example.com", 28)
	posts = append(posts,
		createPost(t, c, "go", 10, a8m.ID),
		createPost(t, c, "sql", 30, a8m.ID),
		createPost(t, c, "graph", 20, nati.ID),
	)
	_, err := blog.Posts(c).Update(blog.PostID.EQ(posts[2].ID)).Set("editor_id", a8m.ID).Exec(ctx)
	require.NoError(t, err)
	_, err = blog.Comments(c).CreateMany(
		draft("body", "first", "post_id", posts[0].ID),
		draft("body", "second", "post_id", posts[0].ID),
	).Exec(ctx)
	require.NoError(t, err)
	return a8m, nati, posts
}

func titles(posts []*blog.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Title
	}
	return out
}

func TestFindUnique(t *testing.T) {
	ctx := context.Background()
	c := open(t)
	a8m, _, _ := seed(t, c)

	u, err := blog.Users(c).FindUnique(blog.UserEmail.EQ("a8m@example.com")).Exec(ctx)
	require.NoError(t, err)
	assert.Equal(t, a8m.ID, u.ID)
	_, err = u.Edges.PostsOrErr()
	assert.True(t, relq.IsNotLoaded(err))

	_, err = blog.Users(c).FindUnique(blog.UserEmail.EQ("nobody@example.com")).Exec(ctx)
	assert.True(t, relq.IsNotFound(err))

	_, err = blog.Users(c).FindUnique(blog.UserAge.GT(0)).Exec(ctx)
	assert.True(t, relq.IsNotSingular(err))
}

func TestFindFirst(t *testing.T) {
	ctx := context.Background()
	c := open(t)
	seed(t, c)

	p, err := blog.Posts(c).FindFirst().OrderBy(sqlgraph.Desc("views")).Exec(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sql", p.Title)

	p, err = blog.Posts(c).FindFirst().OrderBy(sqlgraph.Desc("views")).Skip(1).Exec(ctx)
	require.NoError(t, err)
	assert.Equal(t, "graph", p.Title)

	_, err = blog.Posts(c).FindFirst(blog.PostViews.GT(100)).Exec(ctx)
	assert.True(t, relq.IsNotFound(err))
}

func TestFindMany(t *testing.T) {
	ctx := context.Background()
	c := open(t)
	a8m, _, _ := seed(t, c)

	posts, err := blog.Posts(c).FindMany(blog.PostAuthorID.EQ(a8m.ID)).OrderBy(sqlgraph.Asc("views")).Exec(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, titles(posts))

	posts, err = blog.Posts(c).FindMany(blog.PostViews.GT(1000)).Exec(ctx)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	posts, err = blog.Posts(c).FindMany(blog.PostTitle.Contains("r")).OrderBy(sqlgraph.Asc("title")).Exec(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"graph"}, titles(posts))

	t.Run("TakeSkip", func(t *testing.T) {
		posts, err := blog.Posts(c).FindMany().OrderBy(sqlgraph.Asc("views")).Take(2).Skip(1).Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"graph", "sql"}, titles(posts))

		posts, err = blog.Posts(c).FindMany().OrderBy(sqlgraph.Asc("views")).Skip(2).Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"sql"}, titles(posts))
	})

	t.Run("NegativeTake", func(t *testing.T) {
		posts, err := blog.Posts(c).FindMany().OrderBy(sqlgraph.Asc("views")).Take(-2).Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"graph", "sql"}, titles(posts), "last two, in query order")

		posts, err = blog.Posts(c).FindMany().OrderBy(sqlgraph.Desc("views")).Take(-2).Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"graph", "go"}, titles(posts))

		posts, err = blog.Posts(c).FindMany().Take(-2).Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"sql", "graph"}, titles(posts), "ordered by id without OrderBy")
	})

	t.Run("NegativeSkip", func(t *testing.T) {
		_, err := blog.Posts(c).FindMany().Skip(-1).Exec(ctx)
		require.Error(t, err)
		assert.True(t, relq.IsValidationError(err))
	})

	t.Run("Cursor", func(t *testing.T) {
		posts, err := blog.Posts(c).FindMany().
			OrderBy(sqlgraph.Asc("views")).
			Cursor(sqlgraph.CursorPart{Field: "views", Value: 10}).
			Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"graph", "sql"}, titles(posts))

		posts, err = blog.Posts(c).FindMany().
			OrderBy(sqlgraph.Desc("views")).
			Cursor(sqlgraph.CursorPart{Field: "views", Value: 30}).
			Take(1).
			Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"graph"}, titles(posts))
	})

	t.Run("CursorWithoutOrder", func(t *testing.T) {
		posts, err := blog.Posts(c).FindMany().
			Cursor(sqlgraph.CursorPart{Field: "views", Value: 10}).
			Take(1).
			Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"graph"}, titles(posts), "next page follows the cursor field")

		posts, err = blog.Posts(c).FindMany().
			Cursor(sqlgraph.CursorPart{Field: "views", Value: 10}).
			Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"graph", "sql"}, titles(posts))
	})

	t.Run("Nulls", func(t *testing.T) {
		posts, err := blog.Posts(c).FindMany().
			OrderBy(sqlgraph.Asc("editor_id").NullsFirst(), sqlgraph.Asc("views")).
			Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"go", "sql", "graph"}, titles(posts))

		posts, err = blog.Posts(c).FindMany().
			OrderBy(sqlgraph.Asc("editor_id").NullsLast(), sqlgraph.Asc("views")).
			Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"graph", "go", "sql"}, titles(posts))
	})

	t.Run("Distinct", func(t *testing.T) {
		posts, err := blog.Posts(c).FindMany().Select("author_id").Distinct().Exec(ctx)
		require.NoError(t, err)
		assert.Len(t, posts, 2)
	})

	t.Run("UnknownOrderField", func(t *testing.T) {
		_, err := blog.Posts(c).FindMany().OrderBy(sqlgraph.Asc("rank")).Exec(ctx)
		assert.True(t, relq.IsValidationError(err))
	})
}

func TestRelations(t *testing.T) {
	ctx := context.Background()
	c := open(t)
	a8m, nati, posts := seed(t, c)

	t.Run("Declared", func(t *testing.T) {
		var names []string
		for _, r := range blog.PostSpec.Relations() {
			names = append(names, r.Name)
		}
		assert.Equal(t, []string{"author", "editor", "comments"}, names)
		assert.Empty(t, (&sqlgraph.EntitySpec{Name: "Tag"}).Relations())
	})

	t.Run("BelongsTo", func(t *testing.T) {
		got, err := blog.Posts(c).FindMany().With("author", "editor").OrderBy(sqlgraph.Asc("id")).Exec(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, a8m.ID, got[0].Edges.Author.ID)
		assert.Equal(t, nati.ID, got[2].Edges.Author.ID)
		editor, err := got[0].Edges.EditorOrErr()
		require.NoError(t, err, "a NULL key loads an empty relation")
		assert.Nil(t, editor)
		require.NotNil(t, got[2].Edges.Editor)
		assert.Equal(t, a8m.ID, got[2].Edges.Editor.ID)
	})

	t.Run("HasMany", func(t *testing.T) {
		users, err := blog.Users(c).FindMany().
			WithRelation(sqlgraph.Rel("posts").OrderBy(sqlgraph.Desc("views"))).
			OrderBy(sqlgraph.Asc("id")).
			Exec(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, []string{"sql", "go"}, titles(users[0].Edges.Posts))
		assert.Equal(t, []string{"graph"}, titles(users[1].Edges.Posts))
	})

	t.Run("Filtered", func(t *testing.T) {
		u, err := blog.Users(c).FindUnique(blog.UserID.EQ(a8m.ID)).
			WithRelation(sqlgraph.Rel("posts").Filter(blog.PostViews.GT(15)).Limit(5)).
			Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"sql"}, titles(u.Edges.Posts))
	})

	t.Run("Nested", func(t *testing.T) {
		u, err := blog.Users(c).FindUnique(blog.UserID.EQ(a8m.ID)).
			WithRelation(sqlgraph.Rel("posts").OrderBy(sqlgraph.Asc("id")).Load(
				sqlgraph.Rel("comments").OrderBy(sqlgraph.Asc("id")),
			)).
			Exec(ctx)
		require.NoError(t, err)
		require.Len(t, u.Edges.Posts, 2)
		comments, err := u.Edges.Posts[0].Edges.CommentsOrErr()
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "first", comments[0].Body)
		assert.Equal(t, posts[0].ID, comments[0].PostID)
		comments, err = u.Edges.Posts[1].Edges.CommentsOrErr()
		require.NoError(t, err)
		assert.NotNil(t, comments)
		assert.Empty(t, comments)
	})

	t.Run("HasOneMissing", func(t *testing.T) {
		u, err := blog.Users(c).FindUnique(blog.UserID.EQ(nati.ID)).With("profile").Exec(ctx)
		require.NoError(t, err)
		profile, err := u.Edges.ProfileOrErr()
		require.NoError(t, err)
		assert.Nil(t, profile)
	})

	t.Run("SnakeCaseName", func(t *testing.T) {
		cm, err := blog.Comments(c).FindFirst().With("Post").Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, posts[0].ID, cm.Edges.Post.ID)
	})

	t.Run("UnknownRelation", func(t *testing.T) {
		_, err := blog.Users(c).FindMany().With("followers").Exec(ctx)
		require.Error(t, err)
		assert.True(t, relq.IsRelationNotFound(err))

		_, err = blog.Users(c).FindMany().WithRelation(sqlgraph.Rel("posts").Load(sqlgraph.Rel("likes"))).Exec(ctx)
		assert.True(t, relq.IsRelationNotFound(err), "nested requests are validated")
	})

	t.Run("UnknownRelationOrder", func(t *testing.T) {
		_, err := blog.Users(c).FindMany().WithRelation(sqlgraph.Rel("posts").OrderBy(sqlgraph.Asc("rank"))).Exec(ctx)
		assert.True(t, relq.IsValidationError(err))
	})
}

func TestRelations_FetcherMissing(t *testing.T) {
	ctx := context.Background()
	c := open(t, client.Registry(sqlgraph.NewRegistry(blog.UserType)))
	createUser(t, c, "a8m", "a8m@example.com", 30)
	_, err := blog.Users(c).FindMany().With("posts").Exec(ctx)
	require.Error(t, err)
	assert.True(t, relq.IsFetcherMissing(err))
	var ferr *relq.FetcherMissingError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "Post", ferr.Entity)
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	c := open(t)
	a8m, _, _ := seed(t, c)

	posts, err := blog.Posts(c).FindMany().Select("title").With("author").OrderBy(sqlgraph.Asc("title")).Exec(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	for _, p := range posts {
		assert.NotEmpty(t, p.Title)
		assert.Zero(t, p.ID)
		assert.Zero(t, p.AuthorID, "key fetched for the relation is not exposed")
		require.NotNil(t, p.Edges.Author)
	}
	assert.Equal(t, "go", posts[0].Title)
	assert.Equal(t, a8m.ID, posts[0].Edges.Author.ID)

	u, err := blog.Users(c).FindUnique(blog.UserID.EQ(a8m.ID)).Select("name").With("posts").Exec(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a8m", u.Name)
	assert.Zero(t, u.ID)
	assert.Len(t, u.Edges.Posts, 2)

	p, err := blog.Posts(c).FindFirst().Select("title", "author_id").With("author").OrderBy(sqlgraph.Asc("id")).Exec(ctx)
	require.NoError(t, err)
	assert.Equal(t, a8m.ID, p.AuthorID, "explicitly selected keys stay")

	_, err = blog.Posts(c).FindMany().Select("rank").Exec(ctx)
	assert.True(t, relq.IsValidationError(err))
}

func TestTx(t *testing.T) {
	ctx := context.Background()
	c := open(t)
	a8m := createUser(t, c, "a8m", "a8m@example.com", 30)
	createPost(t, c, "go", 1, a8m.ID)

	tx, err := c.Driver().Tx(ctx)
	require.NoError(t, err)
	u, err := blog.Users(c).Update(blog.UserID.EQ(a8m.ID)).Set("age", 31).With("posts").ExecTx(ctx, tx)
	require.NoError(t, err)
	_, err = u.Edges.PostsOrErr()
	assert.True(t, relq.IsNotLoaded(err), "ExecTx does not load relations")
	n, err := blog.Users(c).Count(blog.UserAge.EQ(31)).ExecTx(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, tx.Rollback())

	got, err := blog.Users(c).FindUnique(blog.UserID.EQ(a8m.ID)).Exec(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Age)
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	c := open(t)
	seed(t, c)
	n, err := blog.Posts(c).Count().Exec(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	n, err = blog.Posts(c).Count(blog.PostEditorID.NotNull()).Exec(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = blog.Posts(c).Count().Where(sql.FieldGT("views", 100)).Exec(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAggregate(t *testing.T) {
	ctx := context.Background()
	c := open(t)
	seed(t, c)

	res, err := blog.Posts(c).Aggregate().Count().Sum("views").Min("views").Max("views", "title").Avg("views").Exec(ctx)
	require.NoError(t, err)
	require.NotNil(t, res.Count)
	assert.EqualValues(t, 3, *res.Count)
	assert.EqualValues(t, 60, res.Sum["views"])
	assert.EqualValues(t, 10, res.Min["views"])
	assert.EqualValues(t, 30, res.Max["views"])
	assert.Equal(t, "sql", res.Max["title"])
	assert.EqualValues(t, 20.0, res.Avg["views"])

	res, err = blog.Posts(c).Aggregate(blog.PostViews.GT(1000)).Count().Sum("views").Exec(ctx)
	require.NoError(t, err)
	assert.Zero(t, *res.Count)
	assert.Nil(t, res.Sum["views"], "SUM over no rows is NULL")

	_, err = blog.Posts(c).Aggregate().Exec(ctx)
	assert.True(t, relq.IsValidationError(err))
	_, err = blog.Posts(c).Aggregate().Sum("rank").Exec(ctx)
	assert.True(t, relq.IsValidationError(err))
}

func TestGroupBy(t *testing.T) {
	ctx := context.Background()
	c := open(t)
	a8m, nati, _ := seed(t, c)

	groups, err := blog.Posts(c).GroupBy("author_id").
		Count("posts").
		Sum("views", "total").
		OrderBy(sqlgraph.Desc("total")).
		Exec(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.EqualValues(t, a8m.ID, groups[0].Keys["author_id"])
	assert.EqualValues(t, 2, groups[0].Aggregates["posts"])
	assert.EqualValues(t, 40, groups[0].Aggregates["total"])
	assert.EqualValues(t, nati.ID, groups[1].Keys["author_id"])

	groups, err = blog.Posts(c).GroupBy("author_id").Count("posts").HavingCountGT(1).Exec(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.EqualValues(t, a8m.ID, groups[0].Keys["author_id"])

	groups, err = blog.Posts(c).GroupBy("author_id").Max("views", "top").
		OrderBy(sqlgraph.Asc("author_id")).Take(1).Skip(1).Exec(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.EqualValues(t, 20, groups[0].Aggregates["top"])

	_, err = blog.Posts(c).GroupBy().Count("n").Exec(ctx)
	assert.True(t, relq.IsValidationError(err))
	_, err = blog.Posts(c).GroupBy("author_id").Count("").Exec(ctx)
	assert.True(t, relq.IsValidationError(err))
	_, err = blog.Posts(c).GroupBy("author_id").Skip(-1).Exec(ctx)
	assert.True(t, relq.IsValidationError(err))
}
