// Package dom holds the tree helpers shared by the extraction stages.
//
// Everything works on golang.org/x/net/html nodes. Text is a first-class
// node in that tree, so the text that trails an element is simply its next
// sibling: detaching the element leaves that text where it was.
package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// Tag returns the lower-case tag name of an element, or "" for any other node.
func Tag(n *html.Node) string {
	if !IsElement(n) {
		return ""
	}
	return strings.ToLower(n.Data)
}

// SetTag renames an element in place, keeping its attributes and children.
func SetTag(n *html.Node, tag string) {
	if !IsElement(n) {
		return
	}
	tag = strings.ToLower(tag)
	n.Data = tag
	n.DataAtom = atom.Lookup([]byte(tag))
}

// Attr returns the value of the named attribute and whether it was present.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute or def when it is missing.
func AttrOr(n *html.Node, key, def string) string {
	if v, ok := Attr(n, key); ok {
		return v
	}
	return def
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, val string) {
	if n == nil {
		return
	}
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// DelAttr removes every occurrence of an attribute.
func DelAttr(n *html.Node, key string) {
	if n == nil {
		return
	}
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

// Parent returns the parent element, or nil when the parent is the document
// itself (or there is none).
func Parent(n *html.Node) *html.Node {
	if n == nil || !IsElement(n.Parent) {
		return nil
	}
	return n.Parent
}

// Children returns the direct element children of n in order.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	if n == nil {
		return out
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// ChildNodes returns the direct element and text children of n in order.
// Comments and other node kinds are skipped.
func ChildNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	if n == nil {
		return out
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode || c.Type == html.TextNode {
			out = append(out, c)
		}
	}
	return out
}

// PrevElement returns the nearest preceding element sibling.
func PrevElement(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// PrevElements returns the preceding element siblings, nearest first.
func PrevElements(n *html.Node) []*html.Node {
	var out []*html.Node
	for s := PrevElement(n); s != nil; s = PrevElement(s) {
		out = append(out, s)
	}
	return out
}

// HasDescendant reports whether any descendant of n (n excluded) has one of
// the given tags.
func HasDescendant(n *html.Node, tags ...string) bool {
	return len(ElementsByTags(n, tags...)) > 0
}

// Root walks up to the outermost element ancestor of n.
func Root(n *html.Node) *html.Node {
	for n != nil && n.Type == html.DocumentNode {
		n = FirstElement(n)
	}
	for p := Parent(n); p != nil; p = Parent(n) {
		n = p
	}
	return n
}

// FirstElement returns the first element child of n.
func FirstElement(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}
