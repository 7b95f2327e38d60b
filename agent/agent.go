package agent

import (
	"context"
	"gomoku/experiments/metrics"
	"gomoku/game"
)

type Agent interface {
	// FindMove returns a move for the side to move and the search metrics, if collected
	FindMove(ctx context.Context, position game.Position) (game.Cell, metrics.SearchMetric, error)
}

// Console is the interactive surface a human plays through
type Console interface {
	Show(position game.Position)
	ReadCell(player game.Player) (game.Cell, error)
	Warn(err error)
}
