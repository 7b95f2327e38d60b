package searcher

import (
	"context"
	"gomoku/experiments/metrics"
	"gomoku/game"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for input, expected := range map[string]Mode{"none": ModeNone, "Root": ModeRoot, " tree ": ModeTree} {
		mode, err := ParseMode(input)
		require.NoError(t, err)
		require.Equal(t, expected, mode)
	}

	_, err := ParseMode("leaf")
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestMerge(t *testing.T) {
	a := game.Cell{X: 7, Y: 7}
	b := game.Cell{X: 8, Y: 8}
	c := game.Cell{X: 6, Y: 6}

	t.Run("sums statistics per move", func(t *testing.T) {
		merged := merge(
			[]MoveStats{{Move: a, Stats: Stats{Visits: 3, Rewards: 1.0}}, {Move: c, Stats: Stats{Visits: 4, Rewards: 2}}},
			[]MoveStats{{Move: a, Stats: Stats{Visits: 2, Rewards: -0.5}}},
		)

		require.Equal(t, []MoveStats{
			{Move: a, Stats: Stats{Visits: 5, Rewards: 0.5}},
			{Move: c, Stats: Stats{Visits: 4, Rewards: 2}},
		}, merged)
		require.Equal(t, a, mostVisited(merged))
	})

	t.Run("moves keep first-seen order", func(t *testing.T) {
		merged := merge(
			[]MoveStats{{Move: b, Stats: Stats{Visits: 1}}},
			[]MoveStats{{Move: a, Stats: Stats{Visits: 1}}, {Move: b, Stats: Stats{Visits: 1}}},
		)
		require.Equal(t, b, merged[0].Move)
		require.Equal(t, a, merged[1].Move)
		require.Equal(t, b, mostVisited(merged))
	})

	t.Run("merging nothing is empty", func(t *testing.T) {
		require.Empty(t, merge())
	})
}

func totalVisits(stats []MoveStats) int {
	total := 0
	for _, ms := range stats {
		total += ms.Visits
	}
	return total
}

func TestStrategies(t *testing.T) {
	ctx := context.Background()
	position := positionAfter(t, game.Cell{X: 7, Y: 7})

	t.Run("sequential runs the iteration cap", func(t *testing.T) {
		cfg := testConfig(WithIterations(80), WithDuration(0), WithRollouts(1), WithSeed(1))
		stats, err := sequential{cfg: cfg}.search(ctx, position, metrics.NewDummyCollector())
		require.NoError(t, err)
		require.Equal(t, 80, totalVisits(stats))
	})

	t.Run("root parallel runs the cap in every tree", func(t *testing.T) {
		cfg := testConfig(WithIterations(40), WithDuration(0), WithRollouts(1), WithWorkers(4), WithSeed(1))
		stats, err := rootParallel{cfg: cfg}.search(ctx, position, metrics.NewDummyCollector())
		require.NoError(t, err)
		require.Equal(t, 160, totalVisits(stats))

		seen := map[game.Cell]bool{}
		for _, ms := range stats {
			require.False(t, seen[ms.Move])
			require.True(t, position.Empty(ms.Move))
			seen[ms.Move] = true
		}
	})

	t.Run("tree parallel root visits equal the cap", func(t *testing.T) {
		cfg := testConfig(WithIterations(500), WithDuration(0), WithRollouts(1), WithWorkers(8))
		tr := newTree(position, cfg, true, metrics.NewDummyCollector())
		require.NoError(t, treeParallel{cfg: cfg}.build(ctx, tr))

		require.Equal(t, 500, tr.root.stats().Visits)
		require.Equal(t, 500, totalVisits(tr.root.childStats()))
	})

	t.Run("cancelled search still expands the root", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		cfg := testConfig(WithIterations(1000), WithWorkers(4))
		for _, s := range []strategy{sequential{cfg: cfg}, rootParallel{cfg: cfg}, treeParallel{cfg: cfg}} {
			stats, err := s.search(cancelled, position, metrics.NewDummyCollector())
			require.NoError(t, err)
			require.NotEmpty(t, stats)
		}
	})

	t.Run("a failing worker stops the shared tree", func(t *testing.T) {
		cfg := testConfig(WithIterations(0), WithDuration(time.Hour), WithWorkers(4))
		tr := newTree(position, cfg, true, metrics.NewDummyCollector())
		tr.root.moves[0] = game.Cell{X: 7, Y: 7}

		err := treeParallel{cfg: cfg}.build(ctx, tr)
		require.ErrorIs(t, err, game.ErrOccupied)
		require.Zero(t, tr.root.stats().Visits)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := newStrategy(Mode("leaf"), testConfig())
		require.ErrorIs(t, err, ErrUnknownMode)
	})
}
