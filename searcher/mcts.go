package searcher

import (
	"context"
	"fmt"
	"gomoku/experiments/metrics"
	"gomoku/game"
)

// Result of one move search
type Result struct {
	Move     game.Cell
	Children []MoveStats // Root children statistics, summed over trees in root-parallel mode
	Metric   metrics.SearchMetric
}

// MCTS runs Monte Carlo tree searches with a strategy fixed at construction.
type MCTS struct {
	mode     Mode
	cfg      *config
	strategy strategy
}

var _ MoveFinder = (*MCTS)(nil)

func NewMCTS(mode Mode, options ...Option) (*MCTS, error) {
	cfg := defaultConfig()
	for _, option := range options {
		option(cfg)
	}
	if cfg.iterations <= 0 && cfg.duration <= 0 {
		return nil, ErrNoBudget
	}
	if mode == ModeNone {
		cfg.workers = 1
	}

	s, err := newStrategy(mode, cfg)
	if err != nil {
		return nil, err
	}
	return &MCTS{mode: mode, cfg: cfg, strategy: s}, nil
}

func (m *MCTS) Mode() Mode {
	return m.mode
}

// Search builds a fresh tree for position and returns its most visited root
// move. The budget and ctx are checked between iterations only, so a search
// may overrun by up to one iteration.
func (m *MCTS) Search(ctx context.Context, position game.Position) (Result, error) {
	if position.Terminal() {
		return Result{}, ErrTerminalPosition
	}

	collector := metrics.NewDummyCollector()
	if m.cfg.metrics {
		collector = metrics.NewCollector()
	}
	collector.Start(string(m.mode), m.strategy.workers(), m.cfg.rolloutDepth)

	children, err := m.strategy.search(ctx, position, collector)
	if err != nil {
		return Result{}, fmt.Errorf("%s search: %w", m.mode, err)
	}
	move := mostVisited(children)
	metric := collector.Complete()

	m.cfg.logger.Debug().
		Str("mode", string(m.mode)).
		Int("workers", m.strategy.workers()).
		Int("children", len(children)).
		Int("episodes", metric.Episodes).
		Dur("elapsed", metric.Duration).
		Stringer("move", move).
		Msg("search complete")

	return Result{Move: move, Children: children, Metric: metric}, nil
}

func (m *MCTS) FindNextMove(ctx context.Context, position game.Position) (game.Cell, error) {
	result, err := m.Search(ctx, position)
	if err != nil {
		return game.NoCell, err
	}
	return result.Move, nil
}
