package agent

import (
	"context"
	"errors"
	"gomoku/experiments/metrics"
	"gomoku/game"
)

type humanAgent struct {
	console Console
}

// NewHumanAgent returns an agent that asks console for moves until it gets a
// legal one.
func NewHumanAgent(console Console) Agent {
	return humanAgent{console: console}
}

func (a humanAgent) FindMove(ctx context.Context, position game.Position) (game.Cell, metrics.SearchMetric, error) {
	a.console.Show(position)
	for {
		if err := ctx.Err(); err != nil {
			return game.NoCell, metrics.SearchMetric{}, err
		}

		cell, err := a.console.ReadCell(position.ToMove())
		if err == nil {
			trial := position
			err = trial.Play(cell)
		}
		switch {
		case err == nil:
			return cell, metrics.SearchMetric{Mode: "human", Workers: 1}, nil
		case errors.Is(err, game.ErrBadCell), errors.Is(err, game.ErrOutOfBounds), errors.Is(err, game.ErrOccupied):
			a.console.Warn(err)
		default:
			return game.NoCell, metrics.SearchMetric{}, err
		}
	}
}
