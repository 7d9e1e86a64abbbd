// Package content finds the node that holds the article body and tidies it
// up before formatting.
package content

import (
	"math"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/mrjoshuak/gravigo/internal/dom"
	"github.com/mrjoshuak/gravigo/internal/stopwords"
)

const (
	minCandidateStopwords = 2
	boostMinStopwords     = 5
	boostMaxStepsAway     = 3
	bottomQuartile        = 0.25
	tailPenaltyMinNodes   = 15
	tailPenaltyCap        = 40
	tailPenaltyRescue     = 5
)

// candidateTags are scored in document order.
var candidateTags = []string{"p", "pre", "td"}

// Scorer scores paragraph-like nodes and picks the top node.
type Scorer struct {
	words stopwords.Provider
	lang  string
	log   zerolog.Logger
}

// NewScorer returns a Scorer counting stopwords of lang with words.
func NewScorer(words stopwords.Provider, lang string, log zerolog.Logger) *Scorer {
	return &Scorer{words: words, lang: lang, log: log}
}

func (s *Scorer) stopwordCount(n *html.Node) int {
	return s.words.Count(dom.Text(n), s.lang).StopWordCount
}

// BestNode scores the candidates of a cleaned document and returns the
// highest scoring parent, along with the scores it computed. The top node is
// nil when no candidate qualified.
func (s *Scorer) BestNode(doc *html.Node) (*html.Node, *Scores) {
	scores := NewScores()

	var withText []*html.Node
	for _, n := range dom.ElementsByTags(doc, candidateTags...) {
		if s.stopwordCount(n) > minCandidateStopwords && !IsHighLinkDensity(n) {
			withText = append(withText, n)
		}
	}

	total := len(withText)
	bottom := float64(total) * bottomQuartile
	// Penalties are never accumulated, the rescue check compares against 0.
	negativeScoring := 0.0
	startingBoost := 1.0

	for i, n := range withText {
		boost := 0.0
		if s.isBoostable(n) {
			boost = (1.0 / startingBoost) * 50
			startingBoost++
		}
		if total > tailPenaltyMinNodes && float64(total-i) <= bottom {
			booster := bottom - float64(total-i)
			boost = -math.Pow(booster, 2)
			if math.Abs(boost)+negativeScoring > tailPenaltyCap {
				boost = tailPenaltyRescue
			}
		}

		upscore := int(float64(s.stopwordCount(n)) + boost)

		parent := dom.Parent(n)
		if parent == nil {
			continue
		}
		scores.AddScore(parent, upscore)
		scores.AddNodes(parent, 1)

		if grand := dom.Parent(parent); grand != nil {
			scores.AddNodes(grand, 1)
			scores.AddScore(grand, floorDiv(upscore, 2))
		}
	}

	var top *html.Node
	topScore := 0
	for _, n := range scores.Scored() {
		if score := scores.Score(n); score > topScore {
			top, topScore = n, score
		}
		if top == nil {
			top = n
		}
	}

	ev := s.log.Debug().Int("candidates", total).Int("scored", scores.Len())
	if top != nil {
		ev = ev.Str("top", dom.Tag(top)).Int("score", topScore)
	}
	ev.Msg("calculated best node")
	return top, scores
}

// isBoostable reports whether one of the nearest preceding paragraphs carries
// real text, so that a lone caption paragraph is not boosted.
func (s *Scorer) isBoostable(n *html.Node) bool {
	steps := 0
	for _, sib := range dom.PrevElements(n) {
		if dom.Tag(sib) != "p" {
			continue
		}
		if steps >= boostMaxStepsAway {
			return false
		}
		if s.stopwordCount(sib) > boostMinStopwords {
			return true
		}
		steps++
	}
	return false
}

// IsHighLinkDensity reports whether links make up most of n. Anchor texts are
// concatenated without a separator before counting their words. A node
// without anchors is never link-dense.
func IsHighLinkDensity(n *html.Node) bool {
	links := dom.ElementsByTag(n, "a")
	if len(links) == 0 {
		return false
	}
	words := float64(len(strings.Split(dom.Text(n), " ")))

	var sb strings.Builder
	for _, a := range links {
		sb.WriteString(dom.Text(a))
	}
	linkWords := float64(len(strings.Split(sb.String(), " ")))

	score := linkWords / words * float64(len(links))
	return score >= 1.0
}

// floorDiv divides rounding towards negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
