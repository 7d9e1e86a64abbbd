// Package cleaner strips boilerplate from a parsed page and normalises divs
// and spans into paragraph structure before scoring.
package cleaner

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/mrjoshuak/gravigo/internal/dom"
)

var tabLines = strings.NewReplacer("\n", "\n\n", "\t", "")

// Cleaner prepares a working document for the content scorer.
type Cleaner struct {
	log zerolog.Logger
}

// New returns a Cleaner that reports what it removes to log.
func New(log zerolog.Logger) *Cleaner {
	return &Cleaner{log: log}
}

// Clean mutates doc in place and returns it. Running it again on its own
// output changes nothing.
func (c *Cleaner) Clean(doc *html.Node) *html.Node {
	if doc == nil {
		return nil
	}
	c.cleanEmTags(doc)
	c.removeDropCaps(doc)
	c.removeScriptsStyles(doc)
	c.cleanBadTags(doc)
	for _, re := range extraPatterns {
		c.removeNodesRegex(doc, re)
	}
	c.cleanParaSpans(doc)
	c.divToPara(doc, "div")
	c.divToPara(doc, "span")
	return doc
}

// cleanEmTags unwraps em elements that hold no image.
func (c *Cleaner) cleanEmTags(doc *html.Node) {
	for _, em := range dom.ElementsByTag(doc, "em") {
		if !dom.HasDescendant(em, "img") {
			dom.DropTag(em)
		}
	}
}

func (c *Cleaner) removeDropCaps(doc *html.Node) {
	for _, n := range dom.SelectCompiled(doc, dropCapSelector) {
		dom.DropTag(n)
	}
}

func (c *Cleaner) removeScriptsStyles(doc *html.Node) {
	removed := 0
	for _, n := range dom.ElementsByTags(doc, "script", "style") {
		dom.Remove(n)
		removed++
	}
	for _, n := range dom.Comments(doc) {
		dom.Detach(n)
		removed++
	}
	c.log.Debug().Int("removed", removed).Msg("removed scripts, styles and comments")
}

// cleanBadTags removes nodes whose id, class or name looks like boilerplate.
func (c *Cleaner) cleanBadTags(doc *html.Node) {
	removed := 0
	for _, attr := range boilerplateAttrs {
		for _, n := range dom.ElementsByAttr(doc, "", attr, RegexpBoilerplate) {
			dom.Remove(n)
			removed++
		}
	}
	c.log.Debug().Int("removed", removed).Msg("removed boilerplate nodes")
}

func (c *Cleaner) removeNodesRegex(doc *html.Node, re *regexp.Regexp) {
	for _, attr := range []string{"id", "class"} {
		for _, n := range dom.ElementsByAttr(doc, "", attr, re) {
			dom.Remove(n)
		}
	}
}

func (c *Cleaner) cleanParaSpans(doc *html.Node) {
	for _, n := range dom.SelectCompiled(doc, paraSpanSelector) {
		dom.DropTag(n)
	}
}

// divToPara makes every element of the given tag paragraph-like: leaf-ish
// elements are retagged to p, the rest get their loose text gathered into
// synthetic paragraphs.
func (c *Cleaner) divToPara(doc *html.Node, tag string) {
	retagged, rebuilt := 0, 0
	for _, el := range dom.ElementsByTag(doc, tag) {
		if !dom.HasDescendant(el, blockTags...) {
			dom.SetTag(el, "p")
			retagged++
			continue
		}
		replaceChildren(el, replacementNodes(el))
		rebuilt++
	}
	c.log.Debug().Str("tag", tag).Int("retagged", retagged).Int("rebuilt", rebuilt).Msg("normalised to paragraphs")
}

// pending is one child of a rebuilt element: either an existing node or a
// run of nodes that becomes a new paragraph.
type pending struct {
	node *html.Node
	run  []*html.Node
}

// replacementNodes computes the new child list of el without touching the
// tree. Text runs absorb the anchors touching them: every anchor directly
// before the text, and the one anchor directly after it.
func replacementNodes(el *html.Node) []pending {
	var (
		out      []pending
		run      []*html.Node
		consumed = make(map[*html.Node]bool)
	)
	flush := func() {
		if len(run) > 0 {
			out = append(out, pending{run: run})
			run = nil
		}
	}

	for _, kid := range dom.ChildNodes(el) {
		if consumed[kid] {
			continue
		}
		switch {
		case dom.Tag(kid) == "p":
			flush()
			out = append(out, pending{node: kid})
		case kid.Type == html.TextNode:
			text := tabLines.Replace(kid.Data)
			if len(text) <= 1 || strings.TrimSpace(text) == "" {
				continue
			}
			var leading []*html.Node
			for prev := kid.PrevSibling; prev != nil && dom.Tag(prev) == "a" && !consumed[prev]; prev = prev.PrevSibling {
				leading = append([]*html.Node{prev}, leading...)
				consumed[prev] = true
			}
			out = withoutNodes(out, consumed)
			run = append(run, leading...)
			kid.Data = text
			run = append(run, kid)
			if next := kid.NextSibling; next != nil && dom.Tag(next) == "a" && !consumed[next] {
				consumed[next] = true
				run = append(run, next)
			}
		default:
			out = append(out, pending{node: kid})
		}
	}
	flush()
	return out
}

// withoutNodes drops standalone entries for nodes that a text run has since
// absorbed.
func withoutNodes(out []pending, consumed map[*html.Node]bool) []pending {
	kept := out[:0]
	for _, p := range out {
		if p.node != nil && consumed[p.node] {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

func replaceChildren(el *html.Node, items []pending) {
	dom.Clear(el)
	for _, it := range items {
		if it.node != nil {
			el.AppendChild(it.node)
			continue
		}
		p := dom.NewElement("p", "")
		for _, n := range it.run {
			dom.Detach(n)
			p.AppendChild(n)
		}
		el.AppendChild(p)
	}
}
