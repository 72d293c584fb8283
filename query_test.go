package promptdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	nodes := sampleTree()

	t.Run("leaf value", func(t *testing.T) {
		got, err := Select(nodes, "$.role")
		require.NoError(t, err)
		assert.Equal(t, []any{"assistant"}, got)
	})

	t.Run("array element by index", func(t *testing.T) {
		got, err := Select(nodes, "$.examples.positive[1]")
		require.NoError(t, err)
		assert.Equal(t, []any{"b"}, got)
	})

	t.Run("whole array", func(t *testing.T) {
		got, err := Select(nodes, "$.examples.positive")
		require.NoError(t, err)
		assert.Equal(t, []any{[]any{"a", "b"}}, got)
	})

	t.Run("missing path matches nothing", func(t *testing.T) {
		got, err := Select(nodes, "$.nope")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("invalid expression", func(t *testing.T) {
		_, err := Select(nodes, "$.a[?(")
		require.Error(t, err)
	})
}

func TestToPlain(t *testing.T) {
	got := ToPlain(Document{
		{Key: "a", Value: []string{"x"}},
		{Key: "b", Value: Document{{Key: "c", Value: Array{Document{}}}}},
	})
	assert.Equal(t, map[string]any{
		"a": []any{"x"},
		"b": map[string]any{"c": []any{map[string]any{}}},
	}, got)
}
