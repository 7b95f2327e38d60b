package searcher

import (
	"gomoku/game"
	"gomoku/meta"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Option func(c *config)

// Selection picks the formula used to descend through fully expanded nodes
type Selection int

const (
	// Progressive bias: UCB1 whose exploitation term blends the mean reward with
	// the child's static heuristic, the heuristic fading as visits grow
	ProgressiveBias Selection = iota
	// Plain UCB1
	UCB1
)

type config struct {
	duration        time.Duration
	iterations      int
	workers         int
	rollouts        int
	rolloutDepth    int
	widePlies       int
	rolloutRadius   int
	expansionRadius int
	topK            int
	exploration     float64
	biasK           float64
	blendK          float64
	selection       Selection
	evaluator       game.Evaluator
	seed            uint64
	metrics         bool
	logger          zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		duration:        meta.TimeLimit,
		iterations:      meta.Iterations,
		workers:         meta.Workers,
		rollouts:        meta.Rollouts,
		rolloutDepth:    meta.RolloutDepth,
		widePlies:       meta.WidePlies,
		rolloutRadius:   meta.RolloutRadius,
		expansionRadius: meta.ExpansionRadius,
		topK:            meta.TopK,
		exploration:     meta.Exploration,
		biasK:           meta.BiasConstant,
		blendK:          meta.BlendConstant,
		selection:       ProgressiveBias,
		evaluator:       game.NewPatternEvaluator(),
		logger:          log.Logger,
	}
}

// WithDuration sets the wall-clock budget, zero or less removes it.
func WithDuration(duration time.Duration) Option {
	return func(c *config) {
		c.duration = max(duration, 0)
	}
}

// WithIterations sets the iteration cap, zero or less removes it.
func WithIterations(iterations int) Option {
	return func(c *config) {
		c.iterations = max(iterations, 0)
	}
}

func WithWorkers(workers int) Option {
	return func(c *config) {
		if workers > 0 {
			c.workers = workers
		}
	}
}

// WithRollouts sets the playouts per leaf, zero evaluates leaves by heuristic only.
func WithRollouts(rollouts int) Option {
	return func(c *config) {
		if rollouts >= 0 {
			c.rollouts = rollouts
		}
	}
}

func WithRolloutDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.rolloutDepth = depth
		}
	}
}

// WithRolloutRadius sets the playout candidate window, plies beyond the first
// wide plies only sample cells within radius of the last move. Zero samples the
// whole board throughout.
func WithRolloutRadius(radius, widePlies int) Option {
	return func(c *config) {
		if radius >= 0 {
			c.rolloutRadius = radius
		}
		if widePlies >= 0 {
			c.widePlies = widePlies
		}
	}
}

// WithExpansionRadius sets the candidate window of tree children, zero considers
// every empty cell.
func WithExpansionRadius(radius int) Option {
	return func(c *config) {
		if radius >= 0 {
			c.expansionRadius = radius
		}
	}
}

// WithTopK sets how many of the best-scored untried moves expansion samples
// from, zero samples uniformly from all untried moves.
func WithTopK(k int) Option {
	return func(c *config) {
		if k >= 0 {
			c.topK = k
		}
	}
}

func WithExploration(exploration float64) Option {
	return func(c *config) {
		if exploration >= 0 {
			c.exploration = exploration
		}
	}
}

func WithBiasConstant(k float64) Option {
	return func(c *config) {
		if k >= 0 {
			c.biasK = k
		}
	}
}

func WithBlendConstant(k float64) Option {
	return func(c *config) {
		if k >= 0 {
			c.blendK = k
		}
	}
}

func WithSelection(selection Selection) Option {
	return func(c *config) {
		c.selection = selection
	}
}

func WithEvaluator(evaluator game.Evaluator) Option {
	return func(c *config) {
		if evaluator != nil {
			c.evaluator = evaluator
		}
	}
}

// WithSeed makes searches reproducible, worker i seeds its generator with seed+i.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

func WithMetrics() Option {
	return func(c *config) {
		c.metrics = true
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
