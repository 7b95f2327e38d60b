package engine

import (
	"context"
	"fmt"
	"gomoku/agent"
	"gomoku/experiments/metrics"
	"gomoku/game"
	"time"

	"github.com/rs/zerolog/log"
)

// Local plays a game between two in-process agents.
type Local struct {
	Position game.Position
	Agents   []agent.Agent // Indexed by player: Black first, then White
	// OnMove, when set, observes the position after every move
	OnMove func(position game.Position)

	first game.Player
}

var _ Engine = (*Local)(nil)

func LocalEngine(agents []agent.Agent, first game.Player) *Local {
	if len(agents) != 2 {
		panic("need exactly two agents")
	}

	return &Local{
		Position: game.NewPosition(first),
		Agents:   agents,
		first:    first,
	}
}

// Run executes the entire game loop until the game is over. Each agent sees
// only the current position, so searches never share a tree across turns.
func (e *Local) Run(ctx context.Context) (game.Player, metrics.GameMetric, []metrics.MoveMetric, error) {
	log.Info().Msgf("%s is starting", e.first)

	gameMetric := metrics.GameMetric{
		StartingPlayer: e.first.String(),
		StartTime:      time.Now(),
	}
	moveMetrics := []metrics.MoveMetric{}

	turn := 1
	for !e.Position.Terminal() && turn <= MaxTurns {
		player := e.Position.ToMove()
		agentIndex := int(player) - 1
		if err := ctx.Err(); err != nil {
			return game.NoPlayer, gameMetric, moveMetrics, fmt.Errorf("turn %d, %s: %w", turn, player, err)
		}

		move, searchMetric, err := e.Agents[agentIndex].FindMove(ctx, e.Position)
		if err != nil {
			return game.NoPlayer, gameMetric, moveMetrics, fmt.Errorf("turn %d, %s: %w", turn, player, err)
		}
		if err := e.Position.Play(move); err != nil {
			return game.NoPlayer, gameMetric, moveMetrics, fmt.Errorf("turn %d, %s: %w", turn, player, err)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turn,
			Player:       player.String(),
			Move:         move.String(),
			SearchMetric: searchMetric,
		})
		log.Debug().Msgf("turn %d: %s played %v", turn, player, move)

		if e.OnMove != nil {
			e.OnMove(e.Position)
		}
		turn++
	}

	winner := e.Position.Winner()
	gameMetric.Winner = winner.String()
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)

	if e.Position.Terminal() {
		log.Info().Msgf("game over after %d moves, winner: %s", gameMetric.TotalMoves, winner)
	} else {
		log.Info().Msgf("stopped after %d turns (no winner yet)", MaxTurns)
	}
	return winner, gameMetric, moveMetrics, nil
}
