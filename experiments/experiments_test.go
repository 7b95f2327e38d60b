package experiments

import (
	"context"
	"encoding/csv"
	"gomoku/experiments/metrics"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func countRows(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return len(rows) - 1
}

func TestExperimentDefinitions(t *testing.T) {
	t.Run("strategy pairs parallel modes with the baseline", func(t *testing.T) {
		x := StrategyExperiment(4, 8, TimeBudget)
		require.Len(t, x.Configs, 3)
		require.Len(t, x.MatchUps, 3)
		require.Equal(t, "none", x.MatchUps[0][0].Mode)
		require.Equal(t, "root", x.MatchUps[0][1].Mode)
		require.Equal(t, "tree", x.MatchUps[1][1].Mode)
	})

	t.Run("scaling uses mirrored match ups", func(t *testing.T) {
		x := ScalingExperiment(1, TimeBudget)
		require.Len(t, x.MatchUps, len(x.Configs))
		ids := map[int]bool{}
		for _, m := range x.MatchUps {
			require.Equal(t, m[0], m[1])
			require.False(t, ids[m[0].ID])
			ids[m[0].ID] = true
		}
	})
}

func TestRun(t *testing.T) {
	fast := func(id int, mode string) metrics.AgentConfig {
		return metrics.AgentConfig{ID: id, Mode: mode, Workers: 2, Iterations: 15, Rollouts: 1}
	}
	x := Experiment{
		Name:     "smoke",
		Configs:  []metrics.AgentConfig{fast(1, "root"), fast(2, "tree")},
		MatchUps: [][2]metrics.AgentConfig{{fast(1, "root"), fast(2, "tree")}},
		Games:    2,
	}

	dir, err := x.Run(context.Background(), t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 2, countRows(t, filepath.Join(dir, "agent_configs.csv")))
	require.Equal(t, 2, countRows(t, filepath.Join(dir, "game_records.csv")))

	f, err := os.Open(filepath.Join(dir, "game_records.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	totalMoves := 0
	for _, row := range rows[1:] {
		n, err := strconv.Atoi(row[9])
		require.NoError(t, err)
		totalMoves += n
	}
	require.Equal(t, "black", rows[1][4])
	require.Equal(t, "white", rows[2][4])
	require.Equal(t, totalMoves, countRows(t, filepath.Join(dir, "move_records.csv")))
}

func TestCreateMCTS(t *testing.T) {
	_, err := createMCTS(metrics.AgentConfig{Mode: "leaf", Workers: 1, Duration: time.Second})
	require.Error(t, err)

	mcts, err := createMCTS(metrics.AgentConfig{Mode: "tree", Workers: 4, Iterations: 10})
	require.NoError(t, err)
	require.Equal(t, "tree", string(mcts.Mode()))
}

func TestRunCancelled(t *testing.T) {
	config := metrics.AgentConfig{ID: 1, Mode: "none", Workers: 1, Duration: time.Hour}
	x := Experiment{
		Name:     "cancelled",
		Configs:  []metrics.AgentConfig{config},
		MatchUps: [][2]metrics.AgentConfig{{config, config}},
		Games:    3,
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := t.TempDir()
	_, err := x.Run(ctx, root)
	require.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Empty(t, entries, "no records are written for an interrupted run")
}
