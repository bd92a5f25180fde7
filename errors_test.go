package relq_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/relq"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := relq.NewNotFoundError("User")
		assert.Equal(t, "relq: User not found", err.Error())
	})

	t.Run("Condition", func(t *testing.T) {
		err := relq.NewNotFoundForCondition("User", "email = 'a@b.c'")
		assert.Equal(t, "relq: User not found for condition email = 'a@b.c'", err.Error())
		assert.Equal(t, "email = 'a@b.c'", err.Condition())
		assert.Equal(t, "User", err.Label())
	})

	t.Run("IsNotFound", func(t *testing.T) {
		err := relq.NewNotFoundError("Comment")
		assert.True(t, relq.IsNotFound(err))
		assert.True(t, errors.Is(err, relq.ErrNotFound))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, relq.IsNotFound(wrapped))

		assert.True(t, relq.IsNotFound(relq.ErrNotFound))
		assert.False(t, relq.IsNotFound(errors.New("other error")))
		assert.False(t, relq.IsNotFound(nil))
	})
}

func TestNotSingularError(t *testing.T) {
	err := relq.NewNotSingularError("Post")
	assert.Equal(t, "relq: Post not singular", err.Error())
	assert.True(t, errors.Is(err, relq.ErrNotSingular))
	assert.True(t, relq.IsNotSingular(fmt.Errorf("wrapper: %w", err)))
	assert.False(t, relq.IsNotSingular(nil))
}

func TestNotLoadedError(t *testing.T) {
	err := relq.NewNotLoadedError("posts")
	assert.Equal(t, `relq: relation "posts" was not loaded`, err.Error())
	assert.True(t, relq.IsNotLoaded(err))
	assert.False(t, relq.IsNotLoaded(errors.New("other error")))
}

func TestRelationNotFoundError(t *testing.T) {
	err := relq.NewRelationNotFoundError("user", "pets")
	assert.Equal(t, `relq: relation "pets" not found on user`, err.Error())
	assert.True(t, relq.IsRelationNotFound(fmt.Errorf("wrapper: %w", err)))
	assert.False(t, relq.IsRelationNotFound(relq.ErrNotFound))
}

func TestFetcherMissingError(t *testing.T) {
	err := relq.NewFetcherMissingError("post")
	assert.Equal(t, "relq: fetcher missing for entity post", err.Error())
	assert.True(t, relq.IsFetcherMissing(err))
	assert.False(t, relq.IsFetcherMissing(nil))
}

func TestLookupError(t *testing.T) {
	cause := relq.NewNotFoundError("user")
	err := relq.NewLookupError("user", "author_id", cause)
	assert.Contains(t, err.Error(), `resolving user for field "author_id"`)
	assert.True(t, relq.IsLookupError(err))
	assert.True(t, relq.IsNotFound(err), "lookup errors unwrap to their cause")
}

func TestTypeMismatchError(t *testing.T) {
	err := relq.NewTypeMismatchError("author_id", int64(0), "x")
	assert.Equal(t, `relq: type mismatch for "author_id": expected int64, got string`, err.Error())
	assert.True(t, relq.IsTypeMismatch(fmt.Errorf("wrapper: %w", err)))
}

func TestValidationError(t *testing.T) {
	underlying := errors.New("must be >= 0")
	err := relq.NewValidationError("skip", underlying)
	assert.Equal(t, `relq: validator failed for "skip": must be >= 0`, err.Error())
	assert.True(t, errors.Is(err, underlying))
	assert.True(t, relq.IsValidationError(err))
	assert.False(t, relq.IsValidationError(nil))
}

func TestRollbackError(t *testing.T) {
	underlying := errors.New("connection lost")
	err := &relq.RollbackError{Err: underlying}
	assert.Equal(t, "relq: rollback failed: connection lost", err.Error())
	assert.True(t, errors.Is(err, underlying))
}

func TestSentinelErrors(t *testing.T) {
	assert.Contains(t, relq.ErrNotFound.Error(), "not found")
	assert.Contains(t, relq.ErrNotSingular.Error(), "not singular")
	assert.Contains(t, relq.ErrTxStarted.Error(), "transaction")
}

func BenchmarkErrors(b *testing.B) {
	b.Run("NewNotFoundError", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = relq.NewNotFoundError("User")
		}
	})

	b.Run("IsNotFound", func(b *testing.B) {
		err := relq.NewNotFoundError("User")
		for i := 0; i < b.N; i++ {
			_ = relq.IsNotFound(err)
		}
	})
}
