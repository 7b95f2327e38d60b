package engine

import (
	"context"
	"gomoku/experiments/metrics"
	"gomoku/game"
)

// MaxTurns caps local games. A board holds at most one stone per cell.
const MaxTurns = game.Cells

type Engine interface {
	// Run plays a game till there's a winner, the board is full or the turn cap is reached
	Run(ctx context.Context) (winner game.Player, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
