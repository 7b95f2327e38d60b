package experiments

import (
	"context"
	"fmt"
	"gomoku/agent"
	"gomoku/engine"
	"gomoku/experiments/metrics"
	"gomoku/game"
	"gomoku/searcher"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	NumGames   = 20 // Per match up
	TimeBudget = 100 * time.Millisecond
)

// Experiment plays every match up Games times, alternating the starting
// colour, and records the results.
type Experiment struct {
	Name     string
	Configs  []metrics.AgentConfig
	MatchUps [][2]metrics.AgentConfig // Agent1 plays black, Agent2 white
	Games    int
}

// StrategyExperiment pairs each parallel strategy against the sequential baseline.
func StrategyExperiment(games, workers int, budget time.Duration) Experiment {
	baseline := metrics.AgentConfig{ID: 0, Mode: string(searcher.ModeNone), Workers: 1, Duration: budget}
	configs := []metrics.AgentConfig{
		baseline,
		{ID: 1, Mode: string(searcher.ModeRoot), Workers: workers, Duration: budget},
		{ID: 2, Mode: string(searcher.ModeTree), Workers: workers, Duration: budget},
	}

	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs[1:] {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	matchUps = append(matchUps, [2]metrics.AgentConfig{configs[1], configs[2]})

	return Experiment{Name: "strategy", Configs: configs, MatchUps: matchUps, Games: games}
}

// ScalingExperiment measures search throughput by worker count. Each match up
// uses the same config for both players, for the same playing strength and
// similar game length.
func ScalingExperiment(games int, budget time.Duration) Experiment {
	configs := []metrics.AgentConfig{}
	for _, mode := range []searcher.Mode{searcher.ModeRoot, searcher.ModeTree} {
		for _, workers := range []int{1, 2, 4, 8, 16} {
			configs = append(configs, metrics.AgentConfig{ID: len(configs) + 1, Mode: string(mode), Workers: workers, Duration: budget})
		}
	}

	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{config, config})
	}

	return Experiment{Name: "scaling", Configs: configs, MatchUps: matchUps, Games: games}
}

// Run plays the experiment and writes its records under root, returning the
// directory holding them.
func (x Experiment) Run(ctx context.Context, root string) (string, error) {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", x.Name)

	for mi, matchup := range x.MatchUps {
		config1, config2 := matchup[0], matchup[1]

		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(x.MatchUps), config1, config2)

		for i := 0; i < x.Games; i++ {
			// Searches still grant one iteration on a cancelled context, stop before playing
			if err := ctx.Err(); err != nil {
				return "", fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}

			first := game.Black
			if i%2 == 1 {
				first = game.White
			}

			winner, gameMetric, moveMetrics, err := runGame(ctx, config1, config2, first)
			if err != nil {
				return "", fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     config1.ID,
				Agent2:     config2.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(x.MatchUps), i+1, winner)
		}
	}

	log.Info().Msgf("completed %s experiment", x.Name)
	return x.store(root, gameRecords, moveRecords)
}

func (x Experiment) store(root string, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(root, x.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(x.Configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}

	log.Info().Str("run", writer.RunID).Msgf("stored records in %s", writer.Dir())
	return writer.Dir(), nil
}

// runGame executes a single game, config1 playing black
func runGame(ctx context.Context, config1, config2 metrics.AgentConfig, first game.Player) (game.Player, metrics.GameMetric, []metrics.MoveMetric, error) {
	agents := make([]agent.Agent, 2)
	for i, config := range []metrics.AgentConfig{config1, config2} {
		mcts, err := createMCTS(config)
		if err != nil {
			return game.NoPlayer, metrics.GameMetric{}, nil, fmt.Errorf("agent %d: %w", config.ID, err)
		}
		agents[i] = agent.NewSearchAgent(mcts)
	}

	return engine.LocalEngine(agents, first).Run(ctx)
}

func createMCTS(config metrics.AgentConfig) (*searcher.MCTS, error) {
	mode, err := searcher.ParseMode(config.Mode)
	if err != nil {
		return nil, err
	}

	options := []searcher.Option{
		searcher.WithWorkers(config.Workers),
		searcher.WithDuration(config.Duration),
		searcher.WithIterations(config.Iterations),
		searcher.WithMetrics(),
	}
	if config.Rollouts > 0 {
		options = append(options, searcher.WithRollouts(config.Rollouts))
	}

	return searcher.NewMCTS(mode, options...)
}
