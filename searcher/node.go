package searcher

import (
	"fmt"
	"gomoku/game"
	"gomoku/utils"
	"slices"
	"sync"
)

// Stats are the accumulated search statistics of one move.
type Stats struct {
	Visits  int
	Rewards float64
}

func (s Stats) Mean() float64 {
	if s.Visits == 0 {
		return 0
	}
	return s.Rewards / float64(s.Visits)
}

type MoveStats struct {
	Move game.Cell
	Stats
}

// noLock guards nodes of trees searched by a single goroutine
type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

// node rewards are kept from the perspective of the player who made node.move,
// so a parent maximizes its children's mean reward directly.
type node struct {
	mu        sync.Locker
	position  game.Position
	move      game.Cell
	parent    *node
	moves     []game.Cell // candidate moves, moves[i] produced children[i] for i < len(children)
	children  []*node
	visits    int
	rewards   float64
	heuristic float64 // static score of position for the player who made move
}

func newNode(parent *node, move game.Cell, position game.Position, heuristic float64, radius int, locked bool) *node {
	var moves []game.Cell
	if !position.Terminal() {
		moves = position.LegalMoves(radius)
	}

	var mu sync.Locker = noLock{}
	if locked {
		mu = &sync.Mutex{}
	}

	return &node{
		mu:        mu,
		position:  position,
		move:      move,
		parent:    parent,
		moves:     moves,
		children:  make([]*node, 0, len(moves)),
		heuristic: heuristic,
	}
}

func (n *node) update(reward float64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.visits++
	n.rewards += reward
}

func (n *node) stats() Stats {
	n.mu.Lock()
	defer n.mu.Unlock()

	return Stats{Visits: n.visits, Rewards: n.rewards}
}

func (n *node) fullyExpanded() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.children) == len(n.moves)
}

// snapshot returns a copy of the candidate moves without a child yet, or the
// current children when the node is fully expanded, together with the node's
// visit count. Children are append-only, so the returned slice stays valid.
func (n *node) snapshot() (untried []game.Cell, children []*node, visits int) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.children) < len(n.moves) {
		return slices.Clone(n.moves[len(n.children):]), nil, n.visits
	}
	return nil, n.children, n.visits
}

// attach adds child unless another worker expanded the same move first or
// the node filled up meanwhile.
func (n *node) attach(child *node) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	k := len(n.children)
	if k == len(n.moves) {
		return false
	}
	i := utils.FindIndex(n.moves[k:], child.move)
	if i < 0 { // Already expanded
		return false
	}
	n.moves[k], n.moves[k+i] = n.moves[k+i], n.moves[k]
	n.children = append(n.children, child)
	return true
}

// childStats lists the statistics of every child in expansion order.
func (n *node) childStats() []MoveStats {
	n.mu.Lock()
	children := n.children
	n.mu.Unlock()

	result := make([]MoveStats, len(children))
	for i, child := range children {
		result[i] = MoveStats{Move: child.move, Stats: child.stats()}
	}
	return result
}

// mostVisited returns the move with the highest visit count, the earliest such
// move on ties.
func mostVisited(stats []MoveStats) game.Cell {
	if len(stats) == 0 {
		panic("node has no children")
	}

	best := 0
	for i := 1; i < len(stats); i++ {
		if stats[i].Visits > stats[best].Visits {
			best = i
		}
	}
	return stats[best].Move
}

func (n *node) String() string {
	s := n.stats()
	return fmt.Sprintf("node{move=%v, visits=%d, rewards=%.3f}", n.move, s.Visits, s.Rewards)
}
