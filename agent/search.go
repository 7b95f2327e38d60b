package agent

import (
	"context"
	"gomoku/experiments/metrics"
	"gomoku/game"
	"gomoku/searcher"
)

type searchAgent struct {
	mcts *searcher.MCTS
}

// NewSearchAgent returns an agent that builds a fresh search tree every turn.
func NewSearchAgent(mcts *searcher.MCTS) Agent {
	return searchAgent{mcts: mcts}
}

func (a searchAgent) FindMove(ctx context.Context, position game.Position) (game.Cell, metrics.SearchMetric, error) {
	result, err := a.mcts.Search(ctx, position)
	if err != nil {
		return game.NoCell, metrics.SearchMetric{}, err
	}
	return result.Move, result.Metric, nil
}
