package promptdoc

import (
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, src string) any {
	t.Helper()
	v, err := DecodeJSON([]byte(src))
	require.NoError(t, err)
	return v
}

func TestDecodeJSON(t *testing.T) {
	t.Run("empty object -> empty Document", func(t *testing.T) {
		d, ok := decode(t, `{}`).(Document)
		require.True(t, ok)
		require.Len(t, d, 0)
	})

	t.Run("empty array -> empty Array", func(t *testing.T) {
		a, ok := decode(t, `[]`).(Array)
		require.True(t, ok)
		require.Len(t, a, 0)
	})

	t.Run("object ordering preserved", func(t *testing.T) {
		d := decode(t, `{"b":1,"a":2}`)
		require.Equal(t, Document{{Key: "b", Value: float64(1)}, {Key: "a", Value: float64(2)}}, d)
	})

	t.Run("nested array wraps objects", func(t *testing.T) {
		a, ok := decode(t, `[1,{"x":2}]`).(Array)
		require.True(t, ok)
		require.Len(t, a, 2)
		require.Equal(t, float64(1), a[0])
		require.Equal(t, Document{{Key: "x", Value: float64(2)}}, a[1])
	})

	t.Run("primitive value bypassed", func(t *testing.T) {
		require.Equal(t, float64(123), decode(t, `123`))
		require.Equal(t, "s", decode(t, `"s"`))
	})

	t.Run("syntax error wraps ErrMalformedInput", func(t *testing.T) {
		_, err := DecodeJSON([]byte(`{"a":}`))
		require.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("decodes directly into *Document", func(t *testing.T) {
		var d Document
		err := json.Unmarshal([]byte(`{"k":[true]}`), &d, json.WithUnmarshalers(Unmarshalers()))
		require.NoError(t, err)
		require.Equal(t, Document{{Key: "k", Value: Array{true}}}, d)
	})
}

func TestEncodeJSON(t *testing.T) {
	t.Run("document order is kept", func(t *testing.T) {
		out, err := EncodeJSON(Document{
			{Key: "z", Value: "1"},
			{Key: "a", Value: []string{"x"}},
			{Key: "m", Value: Document{{Key: "k", Value: "v"}}},
		}, false)
		require.NoError(t, err)
		assert.Equal(t, `{"z":"1","a":["x"],"m":{"k":"v"}}`, string(out))
	})

	t.Run("plain maps are sorted", func(t *testing.T) {
		out, err := EncodeJSON(map[string]any{"b": 1, "a": 2}, false)
		require.NoError(t, err)
		assert.Equal(t, `{"a":2,"b":1}`, string(out))
	})

	t.Run("indent spans lines", func(t *testing.T) {
		out, err := EncodeJSON(Document{{Key: "a", Value: "1"}}, true)
		require.NoError(t, err)
		assert.Contains(t, string(out), "\n  \"a\":")
	})

	t.Run("decode then encode is stable", func(t *testing.T) {
		src := `{"q":{"b":[1,"two",{"c":null}]},"a":false}`
		out, err := EncodeJSON(decode(t, src), false)
		require.NoError(t, err)
		assert.Equal(t, src, string(out))
	})
}
