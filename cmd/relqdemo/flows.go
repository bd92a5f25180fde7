package main

import (
	"context"
	"fmt"

	"github.com/syssam/relq/client"
	"github.com/syssam/relq/dialect/sql/sqlgraph"
	"github.com/syssam/relq/internal/blog"
)

func draft(kv ...any) *sqlgraph.Draft {
	d := sqlgraph.NewDraft()
	for i := 0; i+1 < len(kv); i += 2 {
		d.Set(kv[i].(string), kv[i+1])
	}
	return d
}

// seed creates the demo users and posts. Users are upserted by email so the
// demo can run repeatedly against the same database.
func seed(ctx context.Context, c *client.Client) error {
	users := blog.Users(c)
	for _, u := range []struct {
		name, email string
		age         int
	}{
		{"a8m", "a8m@example.com", 30},
		{"nati", "nati@example.com", 28},
	} {
		_, err := users.Upsert(draft("name", u.name, "email", u.email, "age", u.age), blog.UserEmail.EQ(u.email)).
			Set("age", u.age).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("upserting %s: %w", u.email, err)
		}
	}

	n, err := blog.Posts(c).Count().Exec(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	posts := blog.Posts(c)
	_, err = c.Batch(ctx,
		posts.Create(draft("title", "Hello relq", "views", 10)).
			Lookup(sqlgraph.LookupBy[int64]("author_id", blog.UserSpec, "email", "a8m@example.com")).
			Then(sqlgraph.CreateChildren(blog.CommentSpec, "post_id",
				draft("body", "first"),
				draft("body", "second"),
			)),
		posts.Create(draft("title", "Lookups", "views", 30)).
			Lookup(
				sqlgraph.LookupBy[int64]("author_id", blog.UserSpec, "email", "nati@example.com"),
				sqlgraph.LookupBy[int64]("editor_id", blog.UserSpec, "email", "a8m@example.com"),
			),
		blog.Profiles(c).Create(draft("bio", "writes the engine")).
			Lookup(sqlgraph.LookupBy[int64]("user_id", blog.UserSpec, "email", "a8m@example.com")),
	)
	if err != nil {
		return fmt.Errorf("seeding posts: %w", err)
	}
	return nil
}

// report prints the blog through the read builders.
func report(ctx context.Context, c *client.Client) error {
	users, err := blog.Users(c).FindMany().
		OrderBy(sqlgraph.Asc("name")).
		WithRelation(
			sqlgraph.Rel("posts").OrderBy(sqlgraph.Desc("views")).Load(sqlgraph.Rel("comments")),
			sqlgraph.Rel("profile"),
		).
		Exec(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Println(u)
		if p, err := u.Edges.ProfileOrErr(); err == nil && p != nil {
			fmt.Printf("  bio: %s\n", p.Bio)
		}
		posts, err := u.Edges.PostsOrErr()
		if err != nil {
			return err
		}
		for _, p := range posts {
			comments, _ := p.Edges.CommentsOrErr()
			fmt.Printf("  %s (%d views, %d comments)\n", p.Title, p.Views, len(comments))
		}
	}

	agg, err := blog.Posts(c).Aggregate().Count().Sum("views").Max("views").Exec(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("posts: %d, views: %v, most viewed: %v\n", *agg.Count, agg.Sum["views"], agg.Max["views"])

	groups, err := blog.Posts(c).GroupBy("author_id").Count("posts").Sum("views", "total_views").Exec(ctx)
	if err != nil {
		return err
	}
	for _, g := range groups {
		fmt.Printf("author %v: %v posts, %v views\n", g.Keys["author_id"], g.Aggregates["posts"], g.Aggregates["total_views"])
	}
	return nil
}
