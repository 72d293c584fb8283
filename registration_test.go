package promptdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormat(t *testing.T) {
	t.Run("encode wraps function", func(t *testing.T) {
		r, err := NewRegistry(NewFormat("const", func([]Node, ...Option) ([]byte, error) { return []byte("11"), nil }, nil))
		require.NoError(t, err)

		got, err := r.Encode("const", nil)
		require.NoError(t, err)
		assert.Equal(t, "11", string(got))
	})

	t.Run("error bubbles up", func(t *testing.T) {
		r, err := NewRegistry(NewFormat("err", nil, func([]byte, ...Option) ([]Node, error) { return nil, assert.AnError }))
		require.NoError(t, err)

		got, err := r.Decode("err", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, got)
	})
}

func TestGroup(t *testing.T) {
	t.Run("empty bundle succeeds", func(t *testing.T) {
		r, err := NewRegistry(Group())
		require.NoError(t, err)
		assert.NotNil(t, r)
	})

	t.Run("combines multiple formats", func(t *testing.T) {
		r, err := NewRegistry(Group(
			NewFormat("a", func([]Node, ...Option) ([]byte, error) { return []byte("A"), nil }, nil),
			NewFormat("b", func([]Node, ...Option) ([]byte, error) { return []byte("B"), nil }, nil),
		))
		require.NoError(t, err)

		gotA, err := r.Encode("a", nil)
		require.NoError(t, err)
		assert.Equal(t, "A", string(gotA))

		gotB, err := r.Encode("b", nil)
		require.NoError(t, err)
		assert.Equal(t, "B", string(gotB))
	})

	t.Run("registration error stops processing", func(t *testing.T) {
		called := false
		_, err := NewRegistry(Group(
			Registration(func(r *Registry) error { return assert.AnError }),
			Registration(func(r *Registry) error { called = true; return nil }),
		))
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.False(t, called, "later registration ran after error")
	})
}

func TestApply(t *testing.T) {
	t.Run("empty registration list succeeds", func(t *testing.T) {
		r := newRegistry()
		err := Apply(r)
		assert.NoError(t, err)
	})

	t.Run("applies all registrations", func(t *testing.T) {
		count := 0
		r := newRegistry()
		err := Apply(r,
			Registration(func(r *Registry) error { count++; return nil }),
			Registration(func(r *Registry) error { count++; return nil }),
		)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("duplicate builtin registration fails", func(t *testing.T) {
		r := newRegistry()
		err := Apply(r, TOONFormat, TOONFormat)
		require.Error(t, err)
	})
}

func TestNewRegistry(t *testing.T) {
	t.Run("empty build creates empty registry", func(t *testing.T) {
		r, err := NewRegistry()
		require.NoError(t, err)
		assert.NotNil(t, r)

		got, err := r.Encode("missing", nil)
		require.Error(t, err)
		assert.Nil(t, got)
	})

	t.Run("registration error returns error", func(t *testing.T) {
		r, err := NewRegistry(Registration(func(r *Registry) error { return assert.AnError }))
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, r)
	})
}
