package dom

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Walk visits n and its descendants in document order. Returning false from
// fn skips the subtree of the current node.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		Walk(c, fn)
		c = next
	}
}

// Descendants returns every element below n in document order, n excluded.
func Descendants(n *html.Node) []*html.Node {
	var out []*html.Node
	if n == nil {
		return out
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, func(x *html.Node) bool {
			if x.Type == html.ElementNode {
				out = append(out, x)
			}
			return true
		})
	}
	return out
}

// ElementsByTag returns descendants of root with the given tag in document
// order. The tag "*" matches every element. root itself is never returned.
func ElementsByTag(root *html.Node, tag string) []*html.Node {
	return ElementsByTags(root, tag)
}

// ElementsByTags is ElementsByTag for a set of tags.
func ElementsByTags(root *html.Node, tags ...string) []*html.Node {
	want := make(map[string]bool, len(tags))
	all := false
	for _, t := range tags {
		if t == "*" {
			all = true
		}
		want[strings.ToLower(t)] = true
	}
	var out []*html.Node
	for _, n := range Descendants(root) {
		if all || want[Tag(n)] {
			out = append(out, n)
		}
	}
	return out
}

// ElementsByAttr returns the elements whose attribute matches re, searching
// root and its descendants. When tag is not empty only that tag is matched and
// root is excluded from the result.
func ElementsByAttr(root *html.Node, tag, attr string, re *regexp.Regexp) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode && n.Type != html.DocumentNode {
			return false
		}
		if n.Type == html.DocumentNode {
			return true
		}
		if tag != "" && (n == root || Tag(n) != tag) {
			return true
		}
		if v, ok := Attr(n, attr); ok && re.MatchString(v) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// ElementByID returns the first element below root whose id equals id.
func ElementByID(root *html.Node, id string) *html.Node {
	var found *html.Node
	Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode {
			if v, ok := Attr(n, "id"); ok && v == id {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

// Comments returns every comment node below root.
func Comments(root *html.Node) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) bool {
		if n.Type == html.CommentNode {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Select runs a CSS selector against the descendants of root.
func Select(root *html.Node, selector string) []*html.Node {
	if root == nil {
		return nil
	}
	return goquery.NewDocumentFromNode(root).Find(selector).Nodes
}

// MustCompile parses a CSS selector group once, for selectors applied on every
// document.
func MustCompile(selector string) cascadia.Matcher {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		panic(err)
	}
	return sel
}

// SelectCompiled runs a parsed selector against the descendants of root.
func SelectCompiled(root *html.Node, sel cascadia.Matcher) []*html.Node {
	if root == nil {
		return nil
	}
	return cascadia.QueryAll(root, sel)
}
