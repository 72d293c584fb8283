package promptdoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToXML(t *testing.T) {
	t.Run("wraps output in a prompt root", func(t *testing.T) {
		out, err := ToXML([]Node{
			NewString("role", "writer"),
			NewObject("rules", NewStringArray("must", "cite", "be brief")),
		})
		require.NoError(t, err)
		assert.Equal(t, strings.Join([]string{
			"<prompt>",
			"  <role>writer</role>",
			"  <rules>",
			"    <must>",
			"      <item>cite</item>",
			"      <item>be brief</item>",
			"    </must>",
			"  </rules>",
			"</prompt>",
		}, "\n"), out)
	})

	t.Run("text content is escaped", func(t *testing.T) {
		out, err := ToXML([]Node{NewString("expr", `a < b && c > "d" 'e'`)})
		require.NoError(t, err)
		assert.Contains(t, out, "<expr>a &lt; b &amp;&amp; c &gt; &quot;d&quot; &apos;e&apos;</expr>")
	})

	t.Run("empty containers", func(t *testing.T) {
		out, err := ToXML([]Node{NewObject("o"), NewStringArray("a")})
		require.NoError(t, err)
		assert.Equal(t, "<prompt>\n  <o></o>\n  <a></a>\n</prompt>", out)

		out, err = ToXML(nil)
		require.NoError(t, err)
		assert.Equal(t, "<prompt></prompt>", out)
	})

	t.Run("root element is configurable", func(t *testing.T) {
		out, err := ToXML([]Node{NewString("k", "v")}, RootElement("system"))
		require.NoError(t, err)
		assert.Equal(t, "<system>\n  <k>v</k>\n</system>", out)
	})

	t.Run("invalid names are sanitized", func(t *testing.T) {
		var warns []Warning
		out, err := ToXML([]Node{
			NewString("items[0]", "a"),
			NewString("2nd", "b"),
			NewString("with space", "c"),
		}, CollectWarnings(&warns))
		require.NoError(t, err)
		assert.Contains(t, out, "<items_0_>a</items_0_>")
		assert.Contains(t, out, "<_2nd>b</_2nd>")
		assert.Contains(t, out, "<with_space>c</with_space>")
		require.Len(t, warns, 3)
		assert.Equal(t, KeyRenamed, warns[0].Kind)
	})

	t.Run("carriage returns survive a round trip", func(t *testing.T) {
		out, err := ToXML([]Node{NewString("a", "x\ry\r\nz")})
		require.NoError(t, err)
		assert.Contains(t, out, "<a>x&#xD;y&#xD;\nz</a>")

		got, err := XMLToJSON([]byte(out))
		require.NoError(t, err)
		assert.Equal(t, Document{{Key: "a", Value: "x\ry\r\nz"}}, got)
	})

	t.Run("control characters are replaced", func(t *testing.T) {
		var warns []Warning
		out, err := ToXML([]Node{NewString("c", "ctl\x01\x1f\tok")}, CollectWarnings(&warns))
		require.NoError(t, err)
		require.Len(t, warns, 1)
		assert.Equal(t, CharReplaced, warns[0].Kind)
		assert.Equal(t, "c", warns[0].Path)

		got, err := XMLToJSON([]byte(out))
		require.NoError(t, err)
		assert.Equal(t, Document{{Key: "c", Value: "ctl\uFFFD\uFFFD\tok"}}, got)

		_, err = ToXML([]Node{NewString("c", "\x00")}, Strict(true))
		require.ErrorIs(t, err, ErrLossyConversion)
	})

	t.Run("object of item members is reported as ambiguous", func(t *testing.T) {
		var warns []Warning
		_, err := ToXML([]Node{
			NewObject("o", NewString("item", "v")),
			NewObject("mixed", NewString("item", "v"), NewString("other", "w")),
		}, CollectWarnings(&warns))
		require.NoError(t, err)
		require.Len(t, warns, 1)
		assert.Equal(t, ItemAmbiguous, warns[0].Kind)
		assert.Equal(t, "o", warns[0].Path)

		_, err = ToXML([]Node{NewObject("o", NewString("item", "v"))}, Strict(true))
		require.ErrorIs(t, err, ErrLossyConversion)
	})

	t.Run("top-level item key is not ambiguous", func(t *testing.T) {
		var warns []Warning
		out, err := ToXML([]Node{NewString("item", "v")}, CollectWarnings(&warns))
		require.NoError(t, err)
		assert.Empty(t, warns)

		got, err := XMLToJSON([]byte(out))
		require.NoError(t, err)
		assert.Equal(t, Document{{Key: "item", Value: "v"}}, got)
	})

	t.Run("strict mode rejects renamed keys", func(t *testing.T) {
		_, err := ToXML([]Node{NewString("a b", "c")}, Strict(true))
		require.ErrorIs(t, err, ErrLossyConversion)
	})
}

func TestXMLFromJSON(t *testing.T) {
	t.Run("array of objects nests under item", func(t *testing.T) {
		out, err := XMLFromJSON(Document{
			{Key: "examples", Value: Array{Document{{Key: "in", Value: "hi"}}, "plain"}},
		})
		require.NoError(t, err)
		assert.Equal(t, strings.Join([]string{
			"<prompt>",
			"  <examples>",
			"    <item>",
			"      <in>hi</in>",
			"    </item>",
			"    <item>plain</item>",
			"  </examples>",
			"</prompt>",
		}, "\n"), out)
	})

	t.Run("non-object root is malformed", func(t *testing.T) {
		_, err := XMLFromJSON(Array{"x"})
		require.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("deep nesting does not recurse", func(t *testing.T) {
		var v any = "leaf"
		for i := 0; i < 1000; i++ {
			v = Document{{Key: "n", Value: v}}
		}
		out, err := XMLFromJSON(v)
		require.NoError(t, err)
		assert.Contains(t, out, "<n>leaf</n>")
	})
}

func TestXMLToJSON(t *testing.T) {
	t.Run("inverts the writer", func(t *testing.T) {
		nodes := []Node{
			NewString("role", "a & b"),
			NewObject("rules", NewStringArray("must", "x<y", "z")),
		}
		out, err := ToXML(nodes)
		require.NoError(t, err)

		got, err := XMLToJSON([]byte(out))
		require.NoError(t, err)
		require.Equal(t, ToJSON(nodes), got)
	})

	t.Run("items holding objects become an Array", func(t *testing.T) {
		got, err := XMLToJSON([]byte("<prompt><ex><item><in>hi</in></item><item>plain</item></ex></prompt>"))
		require.NoError(t, err)
		require.Equal(t, Document{
			{Key: "ex", Value: Array{Document{{Key: "in", Value: "hi"}}, "plain"}},
		}, got)
	})

	t.Run("empty root", func(t *testing.T) {
		got, err := XMLToJSON([]byte("<prompt></prompt>"))
		require.NoError(t, err)
		require.Len(t, got, 0)
	})

	t.Run("no root element is malformed", func(t *testing.T) {
		_, err := XMLToJSON([]byte("  "))
		require.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("broken markup is malformed", func(t *testing.T) {
		_, err := XMLToJSON([]byte("<prompt><a></prompt>"))
		require.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("parsed document converts to nodes", func(t *testing.T) {
		d, err := XMLToJSON([]byte("<prompt><tone>calm</tone></prompt>"))
		require.NoError(t, err)
		nodes, err := FromJSON(d)
		require.NoError(t, err)
		require.Equal(t, []Node{StringNode{Key: "tone", Value: "calm"}}, nodes)
	})
}
