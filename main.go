package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"gomoku/agent"
	"gomoku/config"
	"gomoku/engine"
	"gomoku/experiments"
	"gomoku/game"
	"gomoku/searcher"
	"gomoku/ui"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: gomoku <command> [flags]

commands:
  play        play against the engine
  selfplay    let the engine play itself
  experiment  run strategy match ups and write CSV records
`

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "play":
		err = runPlay(ctx, os.Args[2:])
	case "selfplay":
		err = runSelfPlay(ctx, os.Args[2:])
	case "experiment":
		err = runExperiment(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		log.Fatal().Err(err).Msgf("%s failed", os.Args[1])
	}
}

// searchFlags registers the flags shared by every command. Flags that are set
// explicitly override the config file and the environment.
type searchFlags struct {
	path       string
	mode       string
	workers    int
	duration   time.Duration
	iterations int
	seed       uint64
}

func newFlagSet(name string) (*flag.FlagSet, *searchFlags) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	f := &searchFlags{}
	fs.StringVar(&f.path, "config", "", "YAML config file")
	fs.StringVar(&f.mode, "mode", "", "parallel mode: none, root or tree")
	fs.IntVar(&f.workers, "workers", 0, "number of search goroutines")
	fs.DurationVar(&f.duration, "duration", 0, "search time per move, 0 disables the limit")
	fs.IntVar(&f.iterations, "iterations", 0, "iterations per move, 0 disables the limit")
	fs.Uint64Var(&f.seed, "seed", 0, "random seed, 0 picks one")
	return fs, f
}

func (f *searchFlags) load(fs *flag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(f.path)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "mode":
			cfg.Mode = f.mode
		case "workers":
			cfg.Workers = f.workers
		case "duration":
			cfg.Duration = f.duration
		case "iterations":
			cfg.Iterations = f.iterations
		case "seed":
			cfg.Seed = f.seed
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	zerolog.SetGlobalLevel(cfg.Level())
	return cfg, nil
}

func newSearchAgent(cfg *config.Config) (agent.Agent, error) {
	mcts, err := searcher.NewMCTS(cfg.SearchMode(), append(cfg.Options(), searcher.WithMetrics())...)
	if err != nil {
		return nil, err
	}
	return agent.NewSearchAgent(mcts), nil
}

func runPlay(ctx context.Context, args []string) error {
	fs, f := newFlagSet("play")
	color := fs.String("color", "", "colour played by the human: black or white")
	_ = fs.Parse(args)

	cfg, err := f.load(fs)
	if err != nil {
		return err
	}
	if *color != "" {
		cfg.HumanColor = *color
	}
	human, err := cfg.Human()
	if err != nil {
		return err
	}

	ai, err := newSearchAgent(cfg)
	if err != nil {
		return err
	}
	console := ui.NewConsole(os.Stdin, os.Stdout)
	agents := []agent.Agent{agent.NewHumanAgent(console), ai}
	if human == game.White {
		agents[0], agents[1] = agents[1], agents[0]
	}

	e := engine.LocalEngine(agents, game.Black)
	e.OnMove = func(position game.Position) {
		if position.Mover() != human {
			log.Info().Msgf("engine played %v", position.LastMove())
		}
	}
	_, _, _, err = e.Run(ctx)
	console.Show(e.Position)
	return err
}

func runSelfPlay(ctx context.Context, args []string) error {
	fs, f := newFlagSet("selfplay")
	quiet := fs.Bool("quiet", false, "only print the final board")
	_ = fs.Parse(args)

	cfg, err := f.load(fs)
	if err != nil {
		return err
	}

	agents := make([]agent.Agent, 2)
	for i := range agents {
		if agents[i], err = newSearchAgent(cfg); err != nil {
			return err
		}
	}

	renderer := ui.NewRenderer(os.Stdout)
	e := engine.LocalEngine(agents, game.Black)
	if !*quiet {
		e.OnMove = renderer.Show
	}

	_, gameMetric, moveMetrics, err := e.Run(ctx)
	if err != nil {
		return err
	}
	renderer.Show(e.Position)

	episodes := 0
	for _, mm := range moveMetrics {
		episodes += mm.Episodes
	}
	log.Info().
		Str("winner", gameMetric.Winner).
		Int("moves", gameMetric.TotalMoves).
		Int("episodes", episodes).
		Dur("duration", gameMetric.Duration).
		Msg("self-play finished")
	return nil
}

func runExperiment(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("experiment", flag.ExitOnError)
	name := fs.String("name", "strategy", "experiment: strategy or scaling")
	games := fs.Int("games", experiments.NumGames, "games per match up")
	workers := fs.Int("workers", 8, "workers of the parallel agents (strategy)")
	budget := fs.Duration("duration", experiments.TimeBudget, "search time per move")
	out := fs.String("out", "results", "output directory")
	_ = fs.Parse(args)

	var x experiments.Experiment
	switch *name {
	case "strategy":
		x = experiments.StrategyExperiment(*games, *workers, *budget)
	case "scaling":
		x = experiments.ScalingExperiment(*games, *budget)
	default:
		return fmt.Errorf("unknown experiment %q", *name)
	}

	_, err := x.Run(ctx, *out)
	return err
}
