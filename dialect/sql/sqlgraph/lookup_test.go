package sqlgraph

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relq"
)

func TestConvertKey(t *testing.T) {
	t.Run("Int64", func(t *testing.T) {
		k, err := convertKey[int64]("id", int64(42))
		require.NoError(t, err)
		assert.Equal(t, int64(42), k)

		i, err := convertKey[int]("id", int64(42))
		require.NoError(t, err)
		assert.Equal(t, 42, i)

		u, err := convertKey[uint32]("id", int64(42))
		require.NoError(t, err)
		assert.Equal(t, uint32(42), u)
	})
	t.Run("IntegralFloat", func(t *testing.T) {
		k, err := convertKey[int64]("id", float64(7))
		require.NoError(t, err)
		assert.Equal(t, int64(7), k)
	})
	t.Run("String", func(t *testing.T) {
		s, err := convertKey[string]("code", []byte("a8m"))
		require.NoError(t, err)
		assert.Equal(t, "a8m", s)
	})
	t.Run("Scanner", func(t *testing.T) {
		id := uuid.New()
		k, err := convertKey[uuid.UUID]("id", id.String())
		require.NoError(t, err)
		assert.Equal(t, id, k)
	})

	lossy := []struct {
		name string
		conv func() error
	}{
		{"Overflow", func() error { _, err := convertKey[int8]("id", int64(300)); return err }},
		{"Int32Overflow", func() error { _, err := convertKey[int32]("id", int64(math.MaxInt32)+1); return err }},
		{"NegativeToUnsigned", func() error { _, err := convertKey[uint64]("id", int64(-1)); return err }},
		{"UnsignedToNegative", func() error { _, err := convertKey[int64]("id", uint64(math.MaxUint64)); return err }},
		{"Fraction", func() error { _, err := convertKey[int64]("id", 3.5); return err }},
		{"NaN", func() error { _, err := convertKey[int64]("id", math.NaN()); return err }},
		{"Bool", func() error { _, err := convertKey[bool]("id", int64(1)); return err }},
		{"Nil", func() error { _, err := convertKey[int64]("id", nil); return err }},
	}
	for _, tt := range lossy {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conv()
			require.Error(t, err)
			assert.True(t, relq.IsTypeMismatch(err))
		})
	}
}
