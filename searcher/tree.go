package searcher

import (
	"context"
	"fmt"
	"gomoku/experiments/metrics"
	"gomoku/game"
	"math"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

type tree struct {
	cfg     *config
	root    *node
	locked  bool
	metrics metrics.Collector
}

func newTree(position game.Position, cfg *config, locked bool, collector metrics.Collector) *tree {
	heuristic := cfg.evaluator.Evaluate(position, position.Mover())
	return &tree{
		cfg:     cfg,
		root:    newNode(nil, game.NoCell, position, heuristic, cfg.expansionRadius, locked),
		locked:  locked,
		metrics: collector,
	}
}

// simulate runs one select, expand, evaluate, backpropagate cycle
func (t *tree) simulate(rng *rand.Rand) error {
	leaf, err := t.selectThenExpand(rng)
	if err != nil {
		return err
	}
	reward, err := t.evaluate(leaf, rng)
	if err != nil {
		return err
	}
	backup(leaf, reward)
	t.metrics.AddEpisode()
	return nil
}

// run simulates until b runs out or an iteration fails.
func (t *tree) run(b *budget, rng *rand.Rand) error {
	for b.next() {
		if err := t.simulate(rng); err != nil {
			return err
		}
	}
	return nil
}

// selectThenExpand descends from the root to a terminal node or to a newly
// expanded child.
func (t *tree) selectThenExpand(rng *rand.Rand) (*node, error) {
	current := t.root
	for !current.position.Terminal() {
		untried, children, visits := current.snapshot()
		if len(untried) == 0 {
			current = newPolicy(t.cfg, visits).pick(children, rng)
			continue
		}

		child, err := t.expand(current, untried, rng)
		if err != nil || child != nil {
			return child, err
		}
		// Lost the expansion race to another worker, look at the node again
	}
	return current, nil
}

// expand creates a child for one of the untried moves, sampled uniformly among
// the topK moves whose resulting positions score best for the player to move.
// It returns a nil child when another worker attached the move or filled the
// node first.
func (t *tree) expand(parent *node, untried []game.Cell, rng *rand.Rand) (*node, error) {
	if len(untried) == 0 {
		panic("expand on fully expanded node")
	}

	type candidate struct {
		move     game.Cell
		position game.Position
		score    float64
	}

	player := parent.position.ToMove()
	candidates := make([]candidate, len(untried))
	for i, move := range untried {
		position := parent.position
		if err := position.Play(move); err != nil {
			return nil, fmt.Errorf("expand %v: %w", parent.move, err)
		}
		candidates[i] = candidate{move: move, position: position, score: t.cfg.evaluator.Evaluate(position, player)}
	}

	k := len(candidates)
	if t.cfg.topK > 0 && t.cfg.topK < k {
		slices.SortStableFunc(candidates, func(a, b candidate) int {
			switch {
			case a.score > b.score:
				return -1
			case a.score < b.score:
				return 1
			}
			return 0
		})
		k = t.cfg.topK
	}

	chosen := candidates[rng.Intn(k)]
	child := newNode(parent, chosen.move, chosen.position, chosen.score, t.cfg.expansionRadius, t.locked)
	if !parent.attach(child) {
		return nil, nil
	}
	return child, nil
}

// evaluate values leaf for the player who moved into it
func (t *tree) evaluate(leaf *node, rng *rand.Rand) (float64, error) {
	if leaf.position.Terminal() {
		return terminalValue(leaf.position, leaf.position.Mover()), nil
	}
	if game.IsDecisive(leaf.heuristic) || t.cfg.rollouts == 0 {
		return leaf.heuristic, nil
	}

	average, err := t.rolloutAverage(leaf.position, rng)
	if err != nil {
		return 0, err
	}
	alpha := t.cfg.blendK / (t.cfg.blendK + float64(t.cfg.rollouts))
	return (1-alpha)*average + alpha*leaf.heuristic, nil
}

func (t *tree) rolloutAverage(start game.Position, rng *rand.Rand) (float64, error) {
	total := 0.0
	for i := 0; i < t.cfg.rollouts; i++ {
		value, err := t.rollout(start, start.Mover(), rng)
		if err != nil {
			return 0, err
		}
		total += value
	}
	return total / float64(t.cfg.rollouts), nil
}

// rollout plays random moves from start until the game ends or the depth cap
// is reached, then scores the final position for player.
func (t *tree) rollout(start game.Position, player game.Player, rng *rand.Rand) (float64, error) {
	position := start
	for depth := 0; depth < t.cfg.rolloutDepth && !position.Terminal(); depth++ {
		radius := t.cfg.rolloutRadius
		if depth < t.cfg.widePlies {
			radius = 0
		}
		move := randomMove(position, radius, rng)
		if err := position.Play(move); err != nil {
			return 0, fmt.Errorf("rollout: %w", err)
		}
	}

	if position.Terminal() {
		t.metrics.AddFullPlayout()
		return terminalValue(position, player), nil
	}
	return t.cfg.evaluator.Evaluate(position, player), nil
}

// randomMove samples a legal move. Whole-board samples probe random cells first,
// which avoids building the move list on sparse boards.
func randomMove(position game.Position, radius int, rng *rand.Rand) game.Cell {
	if radius == 0 {
		occupied := position.Occupied()
		for tries := 0; tries < 8; tries++ {
			if i := rng.Intn(game.Cells); !occupied.Has(i) {
				return game.CellAt(i)
			}
		}
	}
	moves := position.LegalMoves(radius)
	return moves[rng.Intn(len(moves))]
}

// terminalValue is +1 when player won, -1 when player lost and 0 on a draw
func terminalValue(position game.Position, player game.Player) float64 {
	switch position.Winner() {
	case game.NoPlayer:
		return 0
	case player:
		return game.WinScore
	}
	return -game.WinScore
}

// backup adds reward to node and every ancestor, flipping its sign at each ply.
func backup(n *node, reward float64) {
	for n != nil {
		n.update(reward)
		reward = -reward
		n = n.parent
	}
}

// budget hands out iterations until the iteration cap, the deadline or the
// context stops the search. The first call always succeeds so that the root
// gains a child. Safe for concurrent use.
type budget struct {
	ctx      context.Context
	deadline time.Time // zero without a time limit
	capped   bool
	tickets  atomic.Int64
	started  atomic.Bool
}

func newBudget(ctx context.Context, cfg *config) *budget {
	b := &budget{ctx: ctx, capped: cfg.iterations > 0}
	if cfg.duration > 0 {
		b.deadline = time.Now().Add(cfg.duration)
	}
	b.tickets.Store(int64(cfg.iterations))
	return b
}

func (b *budget) next() bool {
	first := b.started.CompareAndSwap(false, true)
	if !first {
		if b.ctx.Err() != nil {
			return false
		}
		if !b.deadline.IsZero() && !time.Now().Before(b.deadline) {
			return false
		}
	}
	return !b.capped || b.tickets.Add(-1) >= 0
}

// newRand returns the generator of one worker
func newRand(cfg *config, worker int) *rand.Rand {
	seed := cfg.seed
	if seed == 0 {
		seed = frand.Uint64n(math.MaxUint64)
	} else {
		seed += uint64(worker)
	}
	return rand.New(rand.NewSource(seed))
}
