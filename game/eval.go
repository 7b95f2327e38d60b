package game

import (
	"gomoku/utils"
	"math"
)

// WinScore is the score of a position holding a five-in-a-row. Any other
// position scores strictly inside (-WinScore, WinScore).
const WinScore = 1.0

// Evaluator scores a position from player's perspective, positive when the
// position favours player.
type Evaluator interface {
	Evaluate(pos Position, player Player) float64
}

// IsDecisive reports whether score already signals a won or lost position
func IsDecisive(score float64) bool {
	return math.Abs(score) >= WinScore
}

// Run weights by length, then by number of open ends (blocked, half-open, open)
var DefaultRunWeights = [WinLength][3]float64{
	1: {1, 1, 1},
	2: {5, 30, 300},
	3: {50, 500, 5_000},
	4: {1_000, 10_000, 100_000},
}

// PatternEvaluator scores every maximal run of same-coloured stones by its length
// and openness, plus a bonus for stones near the centre of the board.
type PatternEvaluator struct {
	RunWeights   [WinLength][3]float64
	CenterWeight float64
	// Multipliers for opponent shapes that force a response
	OpenThreeFactor    float64
	HalfOpenFourFactor float64
	// Scale keeps the normalised difference strictly inside (-1, 1)
	Scale float64
}

func NewPatternEvaluator() PatternEvaluator {
	return PatternEvaluator{
		RunWeights:         DefaultRunWeights,
		CenterWeight:       5,
		OpenThreeFactor:    10,
		HalfOpenFourFactor: 3,
		Scale:              1_000,
	}
}

func (e PatternEvaluator) Evaluate(pos Position, player Player) float64 {
	var mine, theirs float64
	var counted [len(Directions)]Bitboard
	center := BoardSize / 2

	for i := 0; i < Cells; i++ {
		if !pos.occupied.Has(i) {
			continue
		}
		c := CellAt(i)
		color := pos.stoneAt(i)
		own := color == player

		bonus := e.CenterWeight * float64(BoardSize-utils.Abs(c.X-center)-utils.Abs(c.Y-center))
		if own {
			mine += bonus
		} else {
			theirs += bonus
		}

		for dir, d := range Directions {
			if counted[dir].Has(i) {
				continue
			}
			length, openEnds, line := runInfo(pos, c, d, color)
			counted[dir].Union(line)

			if length >= WinLength {
				if own {
					return WinScore
				}
				return -WinScore
			}

			score := e.RunWeights[length][openEnds]
			switch {
			case own:
				mine += score
			case length == 3 && openEnds == 2:
				theirs += score * e.OpenThreeFactor
			case length == 4 && openEnds == 1:
				theirs += score * e.HalfOpenFourFactor
			default:
				theirs += score
			}
		}
	}

	return normalize(mine, theirs, e.Scale)
}

// runInfo measures the maximal run of color through c along d. It returns the run
// length, how many of its two ends touch an empty cell and the run's cells.
func runInfo(pos Position, c Cell, d Cell, color Player) (length, openEnds int, line Bitboard) {
	start := c
	for prev := start.Add(Cell{X: -d.X, Y: -d.Y}); prev.InBounds() && pos.stoneAt(prev.Index()) == color; prev = prev.Add(Cell{X: -d.X, Y: -d.Y}) {
		start = prev
	}

	end := start
	for next := start; next.InBounds() && pos.stoneAt(next.Index()) == color; next = next.Add(d) {
		line.Set(next.Index())
		length++
		end = next
	}

	before := start.Add(Cell{X: -d.X, Y: -d.Y})
	if before.InBounds() && !pos.occupied.Has(before.Index()) {
		openEnds++
	}
	after := end.Add(d)
	if after.InBounds() && !pos.occupied.Has(after.Index()) {
		openEnds++
	}
	return length, openEnds, line
}

// maxScore is the largest score of a position without a five
var maxScore = math.Nextafter(WinScore, 0)

// normalize maps the difference of two non-negative scores into (-1, 1). The
// result stays non-decisive even without a positive scale.
func normalize(value, otherValue, scale float64) float64 {
	total := value + otherValue + max(scale, 0)
	if total == 0 {
		return 0
	}
	return utils.Clamp((value-otherValue)/total, -maxScore, maxScore)
}
