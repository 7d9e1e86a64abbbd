// Package formatter turns the top node into plain article text.
package formatter

import (
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/mrjoshuak/gravigo/internal/content"
	"github.com/mrjoshuak/gravigo/internal/dom"
	"github.com/mrjoshuak/gravigo/internal/stopwords"
)

const minParagraphStopwords = 3

// Formatter produces the cleaned text of an article.
type Formatter struct {
	words stopwords.Provider
	lang  string
	log   zerolog.Logger
}

// New returns a Formatter counting stopwords of lang with words.
func New(words stopwords.Provider, lang string, log zerolog.Logger) *Formatter {
	return &Formatter{words: words, lang: lang, log: log}
}

// Format strips top of low scoring nodes, inline markup and short fragments,
// then joins the text of its direct children with blank lines. top is
// modified in place.
func (f *Formatter) Format(top *html.Node, scores *content.Scores) string {
	if top == nil {
		return ""
	}
	f.removeNodesWithNegativeScores(top, scores)
	dom.StripTags(top, "a")
	dom.StripTags(top, "b", "strong", "i", "br")
	f.removeParagraphsWithFewWords(top)
	return convertToText(top)
}

func (f *Formatter) removeNodesWithNegativeScores(top *html.Node, scores *content.Scores) {
	for _, n := range dom.Descendants(top) {
		if scores.Has(n) && scores.Score(n) < 1 {
			dom.Remove(n)
		}
	}
}

// removeParagraphsWithFewWords walks every descendant deepest-last-first and
// drops those with too few stopwords, unless they hold embedded media, and
// those wrapped entirely in parentheses.
func (f *Formatter) removeParagraphsWithFewWords(top *html.Node) {
	all := dom.Descendants(top)
	removed := 0
	for i := len(all) - 1; i >= 0; i-- {
		el := all[i]
		text := dom.Text(el)
		if f.words.Count(text, f.lang).StopWordCount < minParagraphStopwords && !dom.HasDescendant(el, "object", "embed") {
			dom.Remove(el)
			removed++
			continue
		}
		if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
			dom.Remove(el)
			removed++
		}
	}
	f.log.Debug().Int("removed", removed).Msg("removed short paragraphs")
}

// convertToText keeps only element children of top; loose text directly
// under it is not part of the output.
func convertToText(top *html.Node) string {
	var txts []string
	for _, n := range dom.Children(top) {
		txt := dom.Text(n)
		if txt == "" {
			continue
		}
		if txt = dom.InnerTrim(dom.Unescape(txt)); txt != "" {
			txts = append(txts, txt)
		}
	}
	return strings.Join(txts, "\n\n")
}
