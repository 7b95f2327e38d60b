package game

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	BoardSize = 15
	Cells     = BoardSize * BoardSize
	WinLength = 5
)

type Player int8

const (
	NoPlayer Player = iota
	Black
	White
)

func (p Player) Opponent() Player {
	switch p {
	case Black:
		return White
	case White:
		return Black
	}
	return NoPlayer
}

func (p Player) String() string {
	switch p {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "none"
}

// Cell is a board coordinate, X is the column and Y the row.
type Cell struct {
	X, Y int
}

// NoCell marks the absence of a move (e.g. the last move of an empty board)
var NoCell = Cell{X: -1, Y: -1}

// The four line directions: horizontal, vertical, diagonal, anti-diagonal
var Directions = [4]Cell{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: -1}}

func CellAt(index int) Cell {
	return Cell{X: index % BoardSize, Y: index / BoardSize}
}

func (c Cell) Index() int {
	return c.Y*BoardSize + c.X
}

func (c Cell) InBounds() bool {
	return c.X >= 0 && c.X < BoardSize && c.Y >= 0 && c.Y < BoardSize
}

func (c Cell) Add(d Cell) Cell {
	return Cell{X: c.X + d.X, Y: c.Y + d.Y}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// ParseCell parses a "x y" or "x,y" coordinate pair.
func ParseCell(s string) (Cell, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(fields) != 2 {
		return NoCell, fmt.Errorf("parse %q: %w", s, ErrBadCell)
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return NoCell, fmt.Errorf("parse %q: %w", s, ErrBadCell)
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return NoCell, fmt.Errorf("parse %q: %w", s, ErrBadCell)
	}
	c := Cell{X: x, Y: y}
	if !c.InBounds() {
		return NoCell, fmt.Errorf("parse %q: %w", s, ErrOutOfBounds)
	}
	return c, nil
}
