package agent

import (
	"context"
	"fmt"
	"gomoku/game"
	"gomoku/searcher"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type scriptedConsole struct {
	inputs   []string
	warnings []error
	shown    int
}

func (c *scriptedConsole) Show(game.Position) { c.shown++ }

func (c *scriptedConsole) ReadCell(game.Player) (game.Cell, error) {
	if len(c.inputs) == 0 {
		return game.NoCell, io.EOF
	}
	input := c.inputs[0]
	c.inputs = c.inputs[1:]
	return game.ParseCell(input)
}

func (c *scriptedConsole) Warn(err error) { c.warnings = append(c.warnings, err) }

func TestHumanAgent(t *testing.T) {
	position := game.NewPosition(game.Black)
	require.NoError(t, position.Play(game.Cell{X: 7, Y: 7}))

	t.Run("retries until the move is legal", func(t *testing.T) {
		console := &scriptedConsole{inputs: []string{"seven seven", "7 7", "15 0", "8 8"}}
		move, metric, err := NewHumanAgent(console).FindMove(context.Background(), position)

		require.NoError(t, err)
		require.Equal(t, game.Cell{X: 8, Y: 8}, move)
		require.Equal(t, "human", metric.Mode)
		require.Equal(t, 1, console.shown)
		require.Len(t, console.warnings, 3)
		require.ErrorIs(t, console.warnings[0], game.ErrBadCell)
		require.ErrorIs(t, console.warnings[1], game.ErrOccupied)
		require.ErrorIs(t, console.warnings[2], game.ErrOutOfBounds)
	})

	t.Run("end of input ends the game", func(t *testing.T) {
		_, _, err := NewHumanAgent(&scriptedConsole{}).FindMove(context.Background(), position)
		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := NewHumanAgent(&scriptedConsole{inputs: []string{"1 1"}}).FindMove(ctx, position)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSearchAgent(t *testing.T) {
	for _, mode := range []searcher.Mode{searcher.ModeNone, searcher.ModeRoot, searcher.ModeTree} {
		t.Run(fmt.Sprintf("mode %s plays a legal move", mode), func(t *testing.T) {
			mcts, err := searcher.NewMCTS(mode, searcher.WithIterations(30), searcher.WithDuration(0),
				searcher.WithWorkers(2), searcher.WithRollouts(1), searcher.WithMetrics())
			require.NoError(t, err)

			position := game.NewPosition(game.Black)
			require.NoError(t, position.Play(game.Cell{X: 7, Y: 7}))

			move, metric, err := NewSearchAgent(mcts).FindMove(context.Background(), position)
			require.NoError(t, err)
			require.True(t, position.Empty(move))
			require.Equal(t, string(mode), metric.Mode)
			require.Positive(t, metric.Episodes)
		})
	}

	t.Run("terminal position", func(t *testing.T) {
		mcts, err := searcher.NewMCTS(searcher.ModeNone, searcher.WithIterations(5))
		require.NoError(t, err)

		position := game.NewPosition(game.Black)
		for i := 0; i < 4; i++ {
			require.NoError(t, position.Play(game.Cell{X: i, Y: 0}))
			require.NoError(t, position.Play(game.Cell{X: i, Y: 1}))
		}
		require.NoError(t, position.Play(game.Cell{X: 4, Y: 0}))

		_, _, err = NewSearchAgent(mcts).FindMove(context.Background(), position)
		require.ErrorIs(t, err, searcher.ErrTerminalPosition)
	})
}
