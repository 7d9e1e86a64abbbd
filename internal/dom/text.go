package dom

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRegex = regexp.MustCompile(`[\s\t]+`)
	retainedChars   = map[rune]bool{
		'\t': true,
		'\n': true,
		'\r': true,
		'\f': true,
	}
)

// InnerTrim collapses whitespace runs to one space, drops line breaks and
// trims both ends.
func InnerTrim(s string) string {
	s = whitespaceRegex.ReplaceAllString(s, " ")
	s = strings.NewReplacer("\r\n", "", "\n", "", "\r", "").Replace(s)
	return strings.TrimSpace(s)
}

// Text joins every text node below n with a single space, then applies
// InnerTrim. A text node passed directly returns its own trimmed data.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return InnerTrim(n.Data)
	}
	var parts []string
	Walk(n, func(x *html.Node) bool {
		if x.Type == html.TextNode {
			parts = append(parts, x.Data)
		}
		return x.Type != html.CommentNode
	})
	return InnerTrim(strings.Join(parts, " "))
}

// Unescape decodes HTML entities left in already extracted text.
func Unescape(s string) string {
	return html.UnescapeString(s)
}

// StripControlChars removes Unicode control characters except the usual
// whitespace ones.
func StripControlChars(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if !unicode.IsControl(r) || retainedChars[r] {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeDocument prepares decoded page text for parsing: control
// characters are dropped and the text is put into NFC form.
func NormalizeDocument(text string) string {
	return norm.NFC.String(StripControlChars(text))
}

// Parse parses an HTML document and returns the document node.
func Parse(r io.Reader) (*html.Node, error) {
	return html.Parse(r)
}

// ParseString parses an HTML document held in a string.
func ParseString(s string) (*html.Node, error) {
	return html.Parse(strings.NewReader(s))
}

// OuterHTML renders n including its own tag.
func OuterHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}
