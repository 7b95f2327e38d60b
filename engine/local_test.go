package engine

import (
	"context"
	"errors"
	"gomoku/agent"
	"gomoku/experiments/metrics"
	"gomoku/game"
	"gomoku/searcher"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// scripted plays its moves in order
type scripted struct {
	moves []game.Cell
	err   error
}

func (a *scripted) FindMove(ctx context.Context, position game.Position) (game.Cell, metrics.SearchMetric, error) {
	if a.err != nil {
		return game.NoCell, metrics.SearchMetric{}, a.err
	}
	move := a.moves[0]
	a.moves = a.moves[1:]
	return move, metrics.SearchMetric{Mode: "scripted", Episodes: 1}, nil
}

func row(y int, xs ...int) []game.Cell {
	cells := make([]game.Cell, len(xs))
	for i, x := range xs {
		cells[i] = game.Cell{X: x, Y: y}
	}
	return cells
}

func TestLocalEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("requires two agents", func(t *testing.T) {
		require.Panics(t, func() { LocalEngine([]agent.Agent{&scripted{}}, game.Black) })
	})

	t.Run("plays until five in a row", func(t *testing.T) {
		black := &scripted{moves: row(7, 3, 4, 5, 6, 7)}
		white := &scripted{moves: row(9, 3, 4, 5, 6)}
		e := LocalEngine([]agent.Agent{black, white}, game.Black)

		observed := 0
		e.OnMove = func(game.Position) { observed++ }

		winner, gameMetric, moveMetrics, err := e.Run(ctx)
		require.NoError(t, err)
		require.Equal(t, game.Black, winner)
		require.Equal(t, "black", gameMetric.Winner)
		require.Equal(t, "black", gameMetric.StartingPlayer)
		require.Equal(t, 9, gameMetric.TotalMoves)
		require.Equal(t, 9, observed)
		require.Len(t, moveMetrics, 9)
		require.Equal(t, 1, moveMetrics[0].Step)
		require.Equal(t, "white", moveMetrics[1].Player)
		require.Equal(t, game.Cell{X: 7, Y: 7}.String(), moveMetrics[8].Move)
		require.Equal(t, "scripted", moveMetrics[8].Mode)
		require.True(t, e.Position.Terminal())
	})

	t.Run("white can start", func(t *testing.T) {
		black := &scripted{moves: row(9, 3, 4, 5, 6)}
		white := &scripted{moves: row(7, 3, 4, 5, 6, 7)}
		winner, gameMetric, _, err := LocalEngine([]agent.Agent{black, white}, game.White).Run(ctx)

		require.NoError(t, err)
		require.Equal(t, game.White, winner)
		require.Equal(t, "white", gameMetric.StartingPlayer)
	})

	t.Run("illegal move aborts the game", func(t *testing.T) {
		black := &scripted{moves: row(7, 3, 4)}
		white := &scripted{moves: row(7, 3)}
		_, _, moveMetrics, err := LocalEngine([]agent.Agent{black, white}, game.Black).Run(ctx)

		require.ErrorIs(t, err, game.ErrOccupied)
		require.Len(t, moveMetrics, 1)
	})

	t.Run("agent errors are returned", func(t *testing.T) {
		failure := errors.New("agent crashed")
		e := LocalEngine([]agent.Agent{&scripted{err: failure}, &scripted{}}, game.Black)
		_, _, _, err := e.Run(ctx)
		require.ErrorIs(t, err, failure)
	})

	t.Run("cancelled context stops the game", func(t *testing.T) {
		newAgent := func() agent.Agent {
			mcts, err := searcher.NewMCTS(searcher.ModeNone, searcher.WithIterations(0), searcher.WithDuration(time.Hour))
			require.NoError(t, err)
			return agent.NewSearchAgent(mcts)
		}
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		e := LocalEngine([]agent.Agent{newAgent(), newAgent()}, game.Black)
		_, _, moveMetrics, err := e.Run(cancelled)

		require.ErrorIs(t, err, context.Canceled)
		require.Empty(t, moveMetrics)
		require.Zero(t, e.Position.StoneCount())
	})

	t.Run("cancellation between turns keeps the moves played", func(t *testing.T) {
		cancellable, cancel := context.WithCancel(ctx)
		defer cancel()

		e := LocalEngine([]agent.Agent{&scripted{moves: row(7, 3, 4, 5)}, &scripted{moves: row(9, 3, 4, 5)}}, game.Black)
		e.OnMove = func(position game.Position) {
			if position.StoneCount() == 3 {
				cancel()
			}
		}
		_, _, moveMetrics, err := e.Run(cancellable)

		require.ErrorIs(t, err, context.Canceled)
		require.Len(t, moveMetrics, 3)
	})

	t.Run("full board ends in a draw within the turn cap", func(t *testing.T) {
		var black, white []game.Cell
		for i := 0; i < game.Cells; i++ {
			// Colours cycle BBWW along x+2y, so no line holds five of one colour
			c := game.CellAt(i)
			if (c.X+2*c.Y)%4 < 2 {
				black = append(black, c)
			} else {
				white = append(white, c)
			}
		}

		e := LocalEngine([]agent.Agent{&scripted{moves: black}, &scripted{moves: white}}, game.Black)
		winner, gameMetric, _, err := e.Run(ctx)

		require.NoError(t, err)
		require.Equal(t, game.NoPlayer, winner)
		require.Equal(t, "none", gameMetric.Winner)
		require.Equal(t, MaxTurns, gameMetric.TotalMoves)
		require.True(t, e.Position.Terminal())
	})

	t.Run("search agents finish a game", func(t *testing.T) {
		newAgent := func(mode searcher.Mode) agent.Agent {
			mcts, err := searcher.NewMCTS(mode, searcher.WithIterations(40), searcher.WithDuration(0),
				searcher.WithWorkers(2), searcher.WithRollouts(1), searcher.WithRolloutDepth(6))
			require.NoError(t, err)
			return agent.NewSearchAgent(mcts)
		}

		e := LocalEngine([]agent.Agent{newAgent(searcher.ModeRoot), newAgent(searcher.ModeTree)}, game.Black)
		_, gameMetric, moveMetrics, err := e.Run(ctx)
		require.NoError(t, err)
		require.True(t, e.Position.Terminal())
		require.Equal(t, e.Position.StoneCount(), gameMetric.TotalMoves)
		require.Len(t, moveMetrics, gameMetric.TotalMoves)
	})
}
