package blog

import (
	"context"
	"fmt"

	"github.com/syssam/relq/client"
	"github.com/syssam/relq/dialect"
)

// Users returns the builders of the User entity.
func Users(c *client.Client) *client.Entity[*User] { return client.For(c, UserType) }

// Posts returns the builders of the Post entity.
func Posts(c *client.Client) *client.Entity[*Post] { return client.For(c, PostType) }

// Comments returns the builders of the Comment entity.
func Comments(c *client.Client) *client.Entity[*Comment] { return client.For(c, CommentType) }

// Profiles returns the builders of the Profile entity.
func Profiles(c *client.Client) *client.Entity[*Profile] { return client.For(c, ProfileType) }

// CreateTables creates the blog tables on drv.
func CreateTables(ctx context.Context, drv dialect.Driver) error {
	for _, stmt := range Tables(drv.Dialect()) {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("blog: creating tables: %w", err)
		}
	}
	return nil
}
