package searcher

import (
	"gomoku/meta"
	"math"

	"golang.org/x/exp/rand"
)

// policy scores the children of one parent during selection
type policy struct {
	selection   Selection
	exploration float64
	biasK       float64
	lnN         float64
}

func newPolicy(c *config, parentVisits int) policy {
	// A parent can be fully expanded before its own first backup lands when
	// several workers share the tree, treat it as visited once.
	return policy{
		selection:   c.selection,
		exploration: c.exploration,
		biasK:       c.biasK,
		lnN:         math.Log(float64(max(parentVisits, 1))),
	}
}

// score is exploitation + c*sqrt(ln(N)/n), where exploitation is the mean
// reward q, or (1-beta)*q + beta*h with beta = k/(k+n) under progressive bias.
func (p policy) score(s Stats, heuristic float64) float64 {
	if s.Visits == 0 { // Explore unvisited children first
		return math.Inf(1)
	}

	n := float64(s.Visits)
	q := s.Rewards / n
	exploitation := q
	if p.selection == ProgressiveBias {
		beta := p.biasK / (p.biasK + n)
		exploitation = (1-beta)*q + beta*heuristic
	}
	return exploitation + p.exploration*math.Sqrt(p.lnN/n)
}

// pick returns the child with the highest score, choosing uniformly at random
// among children whose scores are within meta.TieEpsilon of the best.
func (p policy) pick(children []*node, rng *rand.Rand) *node {
	if len(children) == 0 {
		panic("node has no children")
	}

	best := math.Inf(-1)
	tied := make([]*node, 0, len(children))
	for _, child := range children {
		score := p.score(child.stats(), child.heuristic)
		switch {
		case score == best || math.Abs(score-best) <= meta.TieEpsilon:
			tied = append(tied, child)
		case score > best:
			best = score
			tied = append(tied[:0], child)
		}
	}
	return tied[rng.Intn(len(tied))]
}
