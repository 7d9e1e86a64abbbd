package dom

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseBody(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := ParseString("<html><body>" + src + "</body></html>")
	require.NoError(t, err)
	body := Select(doc, "body")
	require.Len(t, body, 1)
	return body[0]
}

func TestInnerTrim(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", InnerTrim("  a \t\n b\r\n\n  c  "))
	assert.Equal(t, "", InnerTrim(" \n\t "))
}

func TestText(t *testing.T) {
	t.Parallel()

	t.Run("joins text nodes with a space", func(t *testing.T) {
		t.Parallel()
		body := parseBody(t, "<p>Hello <b>big</b>   world</p>")
		assert.Equal(t, "Hello big world", Text(body))
	})

	t.Run("splits words broken by inline tags", func(t *testing.T) {
		t.Parallel()
		body := parseBody(t, "<p>wor<i>ld</i></p>")
		assert.Equal(t, "wor ld", Text(body))
	})

	t.Run("ignores comments", func(t *testing.T) {
		t.Parallel()
		body := parseBody(t, "<p>a<!-- hidden -->b</p>")
		assert.Equal(t, "a b", Text(body))
	})
}

func TestRemoveKeepsFollowingText(t *testing.T) {
	t.Parallel()

	body := parseBody(t, "<div>before <span>gone</span> after</div>")
	span := Select(body, "span")[0]
	Remove(span)

	div := Select(body, "div")[0]
	assert.Equal(t, "before after", Text(div))
	assert.Len(t, ChildNodes(div), 1, "adjacent text runs are merged")
}

func TestRemoveIgnoresDocumentChildren(t *testing.T) {
	t.Parallel()

	doc, err := ParseString("<html><body><p>x</p></body></html>")
	require.NoError(t, err)
	root := FirstElement(doc)
	Remove(root)
	assert.Equal(t, doc, root.Parent)
}

func TestDropTag(t *testing.T) {
	t.Parallel()

	body := parseBody(t, "<p>one <span>two <b>three</b></span> four</p>")
	DropTag(Select(body, "span")[0])

	assert.Empty(t, Select(body, "span"))
	assert.Len(t, Select(body, "p > b"), 1)
	assert.Equal(t, "one two three four", Text(body))
}

func TestDropTagJoinsLiftedText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		tags []string
		want string
	}{
		{"leading letter", `<p><span>T</span>he fox</p>`, []string{"span"}, "The fox"},
		{"inside a word", `<p>the sum<b>mer</b> days</p>`, []string{"b"}, "the summer days"},
		{"before a suffix", `<p>to the <a>garden</a>s.</p>`, []string{"a"}, "to the gardens."},
		{"nested", `<p>a<a>b<b>c</b>d</a>e</p>`, []string{"a", "b"}, "abcde"},
		{"empty element", `<p>one<br>two</p>`, []string{"br"}, "onetwo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			body := parseBody(t, tt.html)
			StripTags(body, tt.tags...)
			p := Select(body, "p")[0]

			assert.Equal(t, tt.want, Text(p))
			require.NotNil(t, p.FirstChild)
			assert.Nil(t, p.FirstChild.NextSibling, "text is merged into a single node")
		})
	}
}

func TestStripTags(t *testing.T) {
	t.Parallel()

	body := parseBody(t, "<div><a href='#'>link <b>bold</b></a><i>it</i><br></div>")
	StripTags(body, "a", "b", "i", "br")

	assert.Equal(t, "<div>link boldit</div>", InnerHTML(body))
}

func TestElementsByTags(t *testing.T) {
	t.Parallel()

	body := parseBody(t, "<div><p>1</p><pre>2</pre><table><tr><td>3</td></tr></table><p>4</p></div>")
	got := ElementsByTags(body, "p", "pre", "td")
	require.Len(t, got, 4)
	assert.Equal(t, []string{"1", "2", "3", "4"}, []string{Text(got[0]), Text(got[1]), Text(got[2]), Text(got[3])})

	div := Select(body, "div")[0]
	assert.NotContains(t, ElementsByTag(div, "*"), div)
}

func TestElementsByAttr(t *testing.T) {
	t.Parallel()

	body := parseBody(t, `<div class="Footer-Wrap"><p class="footer">x</p><span id="footer">y</span></div>`)
	re := regexp.MustCompile(`(?i)footer`)

	all := ElementsByAttr(body, "", "class", re)
	assert.Len(t, all, 2)

	onlyP := ElementsByAttr(body, "p", "class", re)
	require.Len(t, onlyP, 1)
	assert.Equal(t, "p", Tag(onlyP[0]))
}

func TestInsertAtAndClone(t *testing.T) {
	t.Parallel()

	body := parseBody(t, "<div><p>a</p><p>b</p></div>")
	div := Select(body, "div")[0]
	c := Clone(Select(div, "p")[1])
	InsertAt(div, c, 0)

	kids := Children(div)
	require.Len(t, kids, 3)
	assert.Equal(t, "b", Text(kids[0]))
	assert.Equal(t, "a", Text(kids[1]))
	assert.Nil(t, Clone(nil))
}

func TestAttrHelpers(t *testing.T) {
	t.Parallel()

	n := NewElement("div", "")
	SetAttr(n, "class", "x")
	SetAttr(n, "class", "y")
	v, ok := Attr(n, "class")
	assert.True(t, ok)
	assert.Equal(t, "y", v)
	DelAttr(n, "class")
	assert.Equal(t, "none", AttrOr(n, "class", "none"))

	SetTag(n, "P")
	assert.Equal(t, "p", Tag(n))
}

func TestNormalizeDocument(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "é\n", NormalizeDocument("é\u0000\n"))
}
