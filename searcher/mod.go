package searcher

import (
	"context"
	"errors"
	"gomoku/game"
)

var (
	ErrUnknownMode      = errors.New("unknown parallel mode")
	ErrNoBudget         = errors.New("search needs an iteration cap or a duration")
	ErrTerminalPosition = errors.New("cannot search a terminal position")
)

// MoveFinder selects moves for the side to move of a position.
type MoveFinder interface {
	FindNextMove(ctx context.Context, position game.Position) (game.Cell, error)
}
