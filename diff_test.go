package promptdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	t.Run("changed line is replaced", func(t *testing.T) {
		out, err := Diff(
			[]Node{NewString("role", "a"), NewStringArray("tags", "x")},
			[]Node{NewString("role", "b"), NewStringArray("tags", "x")},
		)
		require.NoError(t, err)
		assert.Equal(t, "- role: a\n+ role: b\n  tags[1]: x", out)
	})

	t.Run("identical trees have no marks", func(t *testing.T) {
		out, err := Diff(sampleTree(), sampleTree())
		require.NoError(t, err)
		assert.NotContains(t, out, "- ")
		assert.NotContains(t, out, "+ ")
	})

	t.Run("added node", func(t *testing.T) {
		out, err := Diff(nil, []Node{NewString("k", "v")})
		require.NoError(t, err)
		assert.Equal(t, "+ k: v", out)
	})
}
