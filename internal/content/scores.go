package content

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/mrjoshuak/gravigo/internal/dom"
)

// Attribute names used when scores are written onto the tree for debugging.
const (
	AttrGravityScore = "gravityScore"
	AttrGravityNodes = "gravityNodes"
)

// Gravity is the accumulated score of one node.
type Gravity struct {
	Score int
	Nodes int
}

// Scores is the side table of gravity scores for one extraction. Nodes that
// were never scored read as zero.
type Scores struct {
	byNode map[*html.Node]*Gravity
	order  []*html.Node
}

// NewScores returns an empty table.
func NewScores() *Scores {
	return &Scores{byNode: make(map[*html.Node]*Gravity)}
}

// entry returns the gravity of n, creating it on first use. A page that
// already carries a gravityScore attribute starts from that value.
func (s *Scores) entry(n *html.Node) *Gravity {
	g, ok := s.byNode[n]
	if !ok {
		g = &Gravity{Score: AnnotatedScore(n)}
		s.byNode[n] = g
		s.order = append(s.order, n)
	}
	return g
}

// AddScore adds delta to the score of n.
func (s *Scores) AddScore(n *html.Node, delta int) {
	if n == nil {
		return
	}
	s.entry(n).Score += delta
}

// AddNodes adds delta to the node count of n.
func (s *Scores) AddNodes(n *html.Node, delta int) {
	if n == nil {
		return
	}
	s.entry(n).Nodes += delta
}

// Score returns the score of n, 0 when it was never scored.
func (s *Scores) Score(n *html.Node) int {
	if s == nil {
		return 0
	}
	if g, ok := s.byNode[n]; ok {
		return g.Score
	}
	return 0
}

// NodeCount returns how many scored paragraphs contributed to n.
func (s *Scores) NodeCount(n *html.Node) int {
	if s == nil {
		return 0
	}
	if g, ok := s.byNode[n]; ok {
		return g.Nodes
	}
	return 0
}

// Has reports whether n was scored at all.
func (s *Scores) Has(n *html.Node) bool {
	if s == nil {
		return false
	}
	_, ok := s.byNode[n]
	return ok
}

// Scored returns the scored nodes in the order they were first touched.
func (s *Scores) Scored() []*html.Node {
	if s == nil {
		return nil
	}
	return s.order
}

// Len returns the number of scored nodes.
func (s *Scores) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Annotate writes gravityScore and gravityNodes attributes onto every scored
// node.
func (s *Scores) Annotate() {
	for _, n := range s.Scored() {
		g := s.byNode[n]
		dom.SetAttr(n, AttrGravityScore, strconv.Itoa(g.Score))
		dom.SetAttr(n, AttrGravityNodes, strconv.Itoa(g.Nodes))
	}
}

// StripAnnotations removes gravity attributes from n and its descendants.
func StripAnnotations(n *html.Node) {
	dom.Walk(n, func(x *html.Node) bool {
		if x.Type == html.ElementNode {
			dom.DelAttr(x, AttrGravityScore)
			dom.DelAttr(x, AttrGravityNodes)
		}
		return true
	})
}

// AnnotatedScore reads a gravityScore attribute. Missing or non-numeric values
// read as 0.
func AnnotatedScore(n *html.Node) int {
	v, ok := dom.Attr(n, AttrGravityScore)
	if !ok {
		return 0
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return i
}
