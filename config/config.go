package config

import (
	"errors"
	"fmt"
	"gomoku/game"
	"gomoku/meta"
	"gomoku/searcher"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const EnvPrefix = "GOMOKU"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Mode            string        `mapstructure:"MODE"`
	Workers         int           `mapstructure:"WORKERS"`
	Duration        time.Duration `mapstructure:"DURATION"`
	Iterations      int           `mapstructure:"ITERATIONS"`
	Rollouts        int           `mapstructure:"ROLLOUTS"`
	RolloutDepth    int           `mapstructure:"ROLLOUT_DEPTH"`
	RolloutRadius   int           `mapstructure:"ROLLOUT_RADIUS"`
	WidePlies       int           `mapstructure:"WIDE_PLIES"`
	ExpansionRadius int           `mapstructure:"EXPANSION_RADIUS"`
	TopK            int           `mapstructure:"TOP_K"`
	Exploration     float64       `mapstructure:"EXPLORATION"`
	BiasConstant    float64       `mapstructure:"BIAS_CONSTANT"`
	BlendConstant   float64       `mapstructure:"BLEND_CONSTANT"`
	Selection       string        `mapstructure:"SELECTION"`
	Seed            uint64        `mapstructure:"SEED"`
	HumanColor      string        `mapstructure:"HUMAN_COLOR"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("MODE", string(searcher.ModeNone))
	v.SetDefault("WORKERS", meta.Workers)
	v.SetDefault("DURATION", meta.TimeLimit)
	v.SetDefault("ITERATIONS", meta.Iterations)
	v.SetDefault("ROLLOUTS", meta.Rollouts)
	v.SetDefault("ROLLOUT_DEPTH", meta.RolloutDepth)
	v.SetDefault("ROLLOUT_RADIUS", meta.RolloutRadius)
	v.SetDefault("WIDE_PLIES", meta.WidePlies)
	v.SetDefault("EXPANSION_RADIUS", meta.ExpansionRadius)
	v.SetDefault("TOP_K", meta.TopK)
	v.SetDefault("EXPLORATION", meta.Exploration)
	v.SetDefault("BIAS_CONSTANT", meta.BiasConstant)
	v.SetDefault("BLEND_CONSTANT", meta.BlendConstant)
	v.SetDefault("SELECTION", "progressive")
	v.SetDefault("SEED", 0)
	v.SetDefault("HUMAN_COLOR", "black")
	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads the config file at path, if any, with GOMOKU_ environment
// variables taking precedence over it.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := searcher.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.selection(); err != nil {
		return err
	}
	if _, err := c.Human(); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.Duration <= 0 && c.Iterations <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, searcher.ErrNoBudget)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

func (c *Config) SearchMode() searcher.Mode {
	mode, _ := searcher.ParseMode(c.Mode)
	return mode
}

func (c *Config) selection() (searcher.Selection, error) {
	switch strings.ToLower(c.Selection) {
	case "progressive", "pb", "":
		return searcher.ProgressiveBias, nil
	case "ucb1", "ucb":
		return searcher.UCB1, nil
	}
	return 0, fmt.Errorf("%w: selection %q", ErrInvalidConfig, c.Selection)
}

// Human is the colour played by the human in interactive games
func (c *Config) Human() (game.Player, error) {
	switch strings.ToLower(c.HumanColor) {
	case "black", "b":
		return game.Black, nil
	case "white", "w":
		return game.White, nil
	}
	return game.NoPlayer, fmt.Errorf("%w: human color %q", ErrInvalidConfig, c.HumanColor)
}

func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Options converts the config into search options.
func (c *Config) Options() []searcher.Option {
	selection, _ := c.selection()
	return []searcher.Option{
		searcher.WithWorkers(c.Workers),
		searcher.WithDuration(c.Duration),
		searcher.WithIterations(c.Iterations),
		searcher.WithRollouts(c.Rollouts),
		searcher.WithRolloutDepth(c.RolloutDepth),
		searcher.WithRolloutRadius(c.RolloutRadius, c.WidePlies),
		searcher.WithExpansionRadius(c.ExpansionRadius),
		searcher.WithTopK(c.TopK),
		searcher.WithExploration(c.Exploration),
		searcher.WithBiasConstant(c.BiasConstant),
		searcher.WithBlendConstant(c.BlendConstant),
		searcher.WithSelection(selection),
		searcher.WithSeed(c.Seed),
	}
}
