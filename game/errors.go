package game

import "errors"

var (
	ErrOccupied    = errors.New("cell is already occupied")
	ErrOutOfBounds = errors.New("cell is outside the board")
	ErrGameOver    = errors.New("game is already over")
	ErrBadCell     = errors.New("malformed cell coordinate")
)
