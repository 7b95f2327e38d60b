// meta/meta.go
package meta

import (
	"math"
	"time"
)

// TimeLimit defines the default wall-clock budget of one move search.
const TimeLimit = time.Second

// Iterations defines the default iteration cap of one move search.
const Iterations = 1500

// Workers defines the number of goroutines used by the parallel strategies.
const Workers = 1

// Rollouts defines the number of random playouts averaged per leaf evaluation.
const Rollouts = 5

// RolloutDepth defines the maximum number of plies of one playout.
const RolloutDepth = 20

// WidePlies defines how many leading playout plies sample the whole board
// before narrowing to RolloutRadius.
const WidePlies = 2

// RolloutRadius defines the candidate window around the last move during playouts.
const RolloutRadius = 2

// ExpansionRadius defines the candidate window around the last move for tree children.
const ExpansionRadius = 2

// TopK defines how many of the best-scored untried moves expansion samples from.
const TopK = 3

// Exploration defines the UCB exploration constant c.
const Exploration = math.Sqrt2

// BiasConstant defines k_bias, the decay of the heuristic term in progressive bias.
const BiasConstant = 50

// BlendConstant defines k_blend, the weight of the heuristic in leaf evaluation.
const BlendConstant = 3

// TieEpsilon defines the score difference under which children count as tied.
const TieEpsilon = 1e-9

