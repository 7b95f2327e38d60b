package searcher

import (
	"context"
	"fmt"
	"gomoku/experiments/metrics"
	"gomoku/game"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Mode selects how a search is distributed over workers
type Mode string

const (
	ModeNone Mode = "none" // One tree, one goroutine
	ModeRoot Mode = "root" // Independent trees merged by summed root statistics
	ModeTree Mode = "tree" // One tree shared by all workers under per-node locks
)

func ParseMode(s string) (Mode, error) {
	switch mode := Mode(strings.ToLower(strings.TrimSpace(s))); mode {
	case ModeNone, ModeRoot, ModeTree:
		return mode, nil
	}
	return "", fmt.Errorf("parallel mode %q: %w", s, ErrUnknownMode)
}

// strategy builds search trees for position and reduces them to the statistics
// of the root's children.
type strategy interface {
	search(ctx context.Context, position game.Position, collector metrics.Collector) ([]MoveStats, error)
	workers() int
}

func newStrategy(mode Mode, cfg *config) (strategy, error) {
	switch mode {
	case ModeNone:
		return sequential{cfg: cfg}, nil
	case ModeRoot:
		return rootParallel{cfg: cfg}, nil
	case ModeTree:
		return treeParallel{cfg: cfg}, nil
	}
	return nil, fmt.Errorf("parallel mode %q: %w", mode, ErrUnknownMode)
}

type sequential struct {
	cfg *config
}

func (s sequential) workers() int { return 1 }

func (s sequential) search(ctx context.Context, position game.Position, collector metrics.Collector) ([]MoveStats, error) {
	t := newTree(position, s.cfg, false, collector)
	if err := t.run(newBudget(ctx, s.cfg), newRand(s.cfg, 0)); err != nil {
		return nil, err
	}
	return t.root.childStats(), nil
}

// rootParallel gives every worker its own tree and budget. Workers share
// nothing until their root statistics are merged, except that a failing
// worker stops the others.
type rootParallel struct {
	cfg *config
}

func (s rootParallel) workers() int { return s.cfg.workers }

func (s rootParallel) search(ctx context.Context, position game.Position, collector metrics.Collector) ([]MoveStats, error) {
	results := make([][]MoveStats, s.cfg.workers)

	g, gctx := errgroup.WithContext(ctx)
	for i := range results {
		i := i
		g.Go(func() error {
			t := newTree(position, s.cfg, false, collector)
			if err := t.run(newBudget(gctx, s.cfg), newRand(s.cfg, i)); err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}
			results[i] = t.root.childStats()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return merge(results...), nil
}

// merge sums visits and rewards per move, keeping moves in first-seen order.
func merge(results ...[]MoveStats) []MoveStats {
	index := make(map[game.Cell]int)
	merged := []MoveStats{}
	for _, result := range results {
		for _, ms := range result {
			i, ok := index[ms.Move]
			if !ok {
				index[ms.Move] = len(merged)
				merged = append(merged, ms)
				continue
			}
			merged[i].Visits += ms.Visits
			merged[i].Rewards += ms.Rewards
		}
	}
	return merged
}

// treeParallel lets every worker run complete iterations on one shared tree.
// Nodes lock only around their own counters and child list; there is no
// virtual loss, so workers may pile into the same frontier node.
type treeParallel struct {
	cfg *config
}

func (s treeParallel) workers() int { return s.cfg.workers }

func (s treeParallel) search(ctx context.Context, position game.Position, collector metrics.Collector) ([]MoveStats, error) {
	t := newTree(position, s.cfg, true, collector)
	if err := s.build(ctx, t); err != nil {
		return nil, err
	}
	return t.root.childStats(), nil
}

// build runs the workers on t under one shared budget. The first failing
// worker cancels the budget of the others.
func (s treeParallel) build(ctx context.Context, t *tree) error {
	g, gctx := errgroup.WithContext(ctx)
	b := newBudget(gctx, s.cfg)
	for i := 0; i < s.cfg.workers; i++ {
		i := i
		g.Go(func() error {
			if err := t.run(b, newRand(s.cfg, i)); err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}
			return nil
		})
	}
	return g.Wait()
}
