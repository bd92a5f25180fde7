package client_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relq"
	"github.com/syssam/relq/client"
	"github.com/syssam/relq/internal/blog"
)

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := open(t, client.WithObserver(client.LogObserver(logger)))
	ctx := context.Background()

	_, err := blog.Users(c).Create(user("a8m")).Exec(ctx)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `msg="relq: query"`)
	assert.Contains(t, buf.String(), "builder=create")
	assert.Contains(t, buf.String(), "entity=User")

	buf.Reset()
	_, err = blog.Users(c).FindUnique(blog.UserEmail.EQ("nobody@example.com")).Exec(ctx)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "kind=not_found")
}

func TestErrorKind(t *testing.T) {
	notFound := relq.NewNotFoundError("User")
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{notFound, "not_found"},
		{fmt.Errorf("wrapped: %w", notFound), "not_found"},
		{relq.NewLookupError("User", "author_id", notFound), "lookup"},
		{relq.NewNotSingularError("User"), "not_singular"},
		{relq.NewValidationError("take", errors.New("negative")), "validation"},
		{relq.NewRelationNotFoundError("User", "followers"), "relation_not_found"},
		{relq.NewFetcherMissingError("Post"), "fetcher_missing"},
		{relq.NewTypeMismatchError("author_id", int64(0), true), "type_mismatch"},
		{errors.New("UNIQUE constraint failed: users.email"), "unique_constraint"},
		{errors.New("FOREIGN KEY constraint failed"), "foreign_key_constraint"},
		{errors.New("CHECK constraint failed: age"), "constraint"},
		{errors.New("connection refused"), "store"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, client.ErrorKind(tt.err), "%v", tt.err)
	}
}
