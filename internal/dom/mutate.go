package dom

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Remove detaches n from its parent. The text that followed n stays in the
// tree; when n sat between two text runs they are joined with a space so the
// surrounding words do not run together. Nodes whose parent is the document
// node are left alone.
func Remove(n *html.Node) {
	if n == nil || n.Parent == nil || n.Parent.Type == html.DocumentNode {
		return
	}
	prev, next := n.PrevSibling, n.NextSibling
	n.Parent.RemoveChild(n)
	if prev != nil && next != nil && prev.Type == html.TextNode && next.Type == html.TextNode {
		prev.Data += " " + next.Data
		next.Parent.RemoveChild(next)
	}
}

// DropTag replaces n by its children, keeping their order. Lifted text is
// joined to the neighbouring text without a separator, so "sum<b>mer</b>"
// stays one word.
func DropTag(n *html.Node) {
	if n == nil || n.Parent == nil || n.Parent.Type == html.DocumentNode {
		return
	}
	parent := n.Parent
	prev, next := n.PrevSibling, n.NextSibling
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)

	start := prev
	if start == nil {
		start = parent.FirstChild
	}
	mergeText(start, next)
}

// mergeText joins adjacent text siblings from start up to and including stop.
// A nil stop runs to the last sibling.
func mergeText(start, stop *html.Node) {
	for c := start; c != nil && c != stop; {
		nx := c.NextSibling
		if nx == nil {
			return
		}
		if c.Type == html.TextNode && nx.Type == html.TextNode {
			c.Data += nx.Data
			c.Parent.RemoveChild(nx)
			if nx == stop {
				return
			}
			continue
		}
		c = nx
	}
}

// StripTags unwraps every descendant of root carrying one of the given tags.
// Their children are kept in place.
func StripTags(root *html.Node, tags ...string) {
	for _, n := range ElementsByTags(root, tags...) {
		DropTag(n)
	}
}

// Clear detaches all children of n.
func Clear(n *html.Node) {
	if n == nil {
		return
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

// Detach unlinks n from wherever it sits, without touching its neighbours.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertAt inserts child as the idx-th element child of parent. An index past
// the last element appends.
func InsertAt(parent, child *html.Node, idx int) {
	if parent == nil || child == nil {
		return
	}
	Detach(child)
	kids := Children(parent)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(kids) {
		parent.AppendChild(child)
		return
	}
	parent.InsertBefore(child, kids[idx])
}

// Clone returns a deep copy of n that is not attached to any tree.
func Clone(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	for k := n.FirstChild; k != nil; k = k.NextSibling {
		c.AppendChild(Clone(k))
	}
	return c
}

// NewElement creates a detached element, with a single text child when text
// is not empty.
func NewElement(tag, text string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if text != "" {
		n.AppendChild(NewText(text))
	}
	return n
}

// NewText creates a detached text node.
func NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}
