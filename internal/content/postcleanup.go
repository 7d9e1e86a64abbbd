package content

import (
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/mrjoshuak/gravigo/internal/dom"
)

const (
	defaultSiblingBaseline = 100000
	siblingBaselineRatio   = 0.30
	minTableParagraphLen   = 25
	childScoreThreshold    = 0.08
)

// IsArticleBody reports whether n is marked up as the article body itself:
// itemprop=articleBody, class=post-content or an article element.
func IsArticleBody(n *html.Node) bool {
	if v, ok := dom.Attr(n, "itemprop"); ok && v == "articleBody" {
		return true
	}
	if v, ok := dom.Attr(n, "class"); ok && v == "post-content" {
		return true
	}
	return dom.Tag(n) == "article"
}

// PostCleanup pulls qualifying paragraphs from the preceding siblings of top
// into it, then drops non-paragraph children that look like link lists,
// paragraph-free tables or low scorers. top is modified in place.
func (s *Scorer) PostCleanup(top *html.Node, scores *Scores) *html.Node {
	if top == nil {
		return nil
	}
	s.addSiblings(top)

	removed := 0
	for _, e := range dom.Children(top) {
		if dom.Tag(e) == "p" {
			continue
		}
		if IsHighLinkDensity(e) || isTableAndNoParaExist(e) || !isNodeScoreThresholdMet(scores, top, e) {
			dom.Remove(e)
			removed++
		}
	}
	s.log.Debug().Int("removed", removed).Msg("post cleanup")
	return top
}

func (s *Scorer) addSiblings(top *html.Node) {
	if IsArticleBody(top) {
		return
	}
	baseline := s.siblingsBaseline(top)

	var kept []*html.Node
	for _, sib := range dom.PrevElements(top) {
		kept = append(kept, s.siblingContent(sib, baseline)...)
	}
	for i, n := range kept {
		dom.InsertAt(top, n, i)
	}
	if len(kept) > 0 {
		s.log.Debug().Int("paragraphs", len(kept)).Msg("reattached sibling content")
	}
}

// siblingContent returns the nodes worth taking from one sibling: a copy of
// the sibling itself when it is a non-empty paragraph, otherwise fresh
// paragraphs for its strong inner paragraphs.
func (s *Scorer) siblingContent(sib *html.Node, baseline int) []*html.Node {
	if dom.Tag(sib) == "p" && len(dom.Text(sib)) > 0 {
		return []*html.Node{dom.Clone(sib)}
	}

	var out []*html.Node
	threshold := float64(baseline) * siblingBaselineRatio
	for _, p := range dom.ElementsByTag(sib, "p") {
		text := dom.Text(p)
		if len(text) == 0 {
			continue
		}
		score := s.words.Count(text, s.lang).StopWordCount
		if threshold < float64(score) && !IsHighLinkDensity(p) {
			out = append(out, dom.NewElement("p", text))
		}
	}
	return out
}

// siblingsBaseline is the mean stopword count of the qualifying paragraphs
// inside top, so long articles are not judged against their total.
func (s *Scorer) siblingsBaseline(top *html.Node) int {
	number, total := 0, 0
	for _, p := range dom.ElementsByTag(top, "p") {
		count := s.stopwordCount(p)
		if count > minCandidateStopwords && !IsHighLinkDensity(p) {
			number++
			total += count
		}
	}
	if number == 0 {
		return defaultSiblingBaseline
	}
	return total / number
}

// isTableAndNoParaExist removes short paragraphs from e and reports whether
// none are left. Table cells never qualify.
func isTableAndNoParaExist(e *html.Node) bool {
	for _, p := range dom.ElementsByTag(e, "p") {
		if utf8.RuneCountInString(dom.Text(p)) < minTableParagraphLen {
			dom.Remove(p)
		}
	}
	return len(dom.ElementsByTag(e, "p")) == 0 && dom.Tag(e) != "td"
}

func isNodeScoreThresholdMet(scores *Scores, top, e *html.Node) bool {
	threshold := float64(scores.Score(top)) * childScoreThreshold
	if float64(scores.Score(e)) < threshold && dom.Tag(e) != "td" {
		return false
	}
	return true
}
