package game

import (
	"fmt"
	"gomoku/utils"
)

// Position is the bit-packed state of a board. It is a small value type:
// assigning it copies the whole state.
type Position struct {
	occupied Bitboard
	black    Bitboard // meaningful only where occupied is set
	toMove   Player
	lastMove Cell
	terminal bool
	winner   Player
}

// NewPosition returns an empty board with first to move.
func NewPosition(first Player) Position {
	if first != Black && first != White {
		panic(fmt.Sprintf("invalid starting player %d", first))
	}
	return Position{toMove: first, lastMove: NoCell}
}

func (p Position) Clone() Position {
	return p
}

func (p Position) ToMove() Player {
	return p.toMove
}

// Mover returns the player who made the last move, NoPlayer on an empty board
func (p Position) Mover() Player {
	if p.lastMove == NoCell {
		return NoPlayer
	}
	return p.toMove.Opponent()
}

func (p Position) LastMove() Cell {
	return p.lastMove
}

func (p Position) Terminal() bool {
	return p.terminal
}

// Winner is NoPlayer unless the position is terminal with a five-in-a-row.
func (p Position) Winner() Player {
	return p.winner
}

func (p Position) Occupied() Bitboard {
	return p.occupied
}

func (p Position) StoneCount() int {
	return p.occupied.Count()
}

func (p Position) Empty(c Cell) bool {
	return !p.occupied.Has(c.Index())
}

func (p Position) Stone(c Cell) Player {
	return p.stoneAt(c.Index())
}

func (p Position) stoneAt(i int) Player {
	if !p.occupied.Has(i) {
		return NoPlayer
	}
	if p.black.Has(i) {
		return Black
	}
	return White
}

// LegalMoves returns the empty cells. With a positive radius and a previous move,
// only empty cells within that Chebyshev distance of the last move are returned,
// falling back to every empty cell when the window is full.
func (p Position) LegalMoves(radius int) []Cell {
	if radius <= 0 || radius >= BoardSize || p.lastMove == NoCell {
		return p.emptyCells()
	}

	moves := make([]Cell, 0, (2*radius+1)*(2*radius+1))
	last := p.lastMove
	top, bottom := utils.Clamp(last.Y-radius, 0, BoardSize-1), utils.Clamp(last.Y+radius, 0, BoardSize-1)
	left, right := utils.Clamp(last.X-radius, 0, BoardSize-1), utils.Clamp(last.X+radius, 0, BoardSize-1)
	for y := top; y <= bottom; y++ {
		for x := left; x <= right; x++ {
			if !p.occupied.Has(y*BoardSize + x) {
				moves = append(moves, Cell{X: x, Y: y})
			}
		}
	}
	if len(moves) > 0 {
		return moves
	}
	return p.emptyCells()
}

func (p Position) emptyCells() []Cell {
	moves := make([]Cell, 0, Cells-p.occupied.Count())
	for i := 0; i < Cells; i++ {
		if !p.occupied.Has(i) {
			moves = append(moves, CellAt(i))
		}
	}
	return moves
}

// Play places a stone for the side to move, passes the turn to the opponent and
// recomputes the terminal state from the lines through c. The position is left
// unchanged when an error is returned.
func (p *Position) Play(c Cell) error {
	if p.terminal {
		return fmt.Errorf("play %v: %w", c, ErrGameOver)
	}
	if !c.InBounds() {
		return fmt.Errorf("play %v: %w", c, ErrOutOfBounds)
	}
	i := c.Index()
	if p.occupied.Has(i) {
		return fmt.Errorf("play %v: %w", c, ErrOccupied)
	}

	mover := p.toMove
	p.occupied.Set(i)
	if mover == Black {
		p.black.Set(i)
	}
	p.lastMove = c
	p.toMove = mover.Opponent()
	p.checkTerminal(c, mover)
	return nil
}

func (p *Position) checkTerminal(c Cell, mover Player) {
	for _, d := range Directions {
		back := Cell{X: -d.X, Y: -d.Y}
		if p.runFrom(c, d, mover)+1+p.runFrom(c, back, mover) >= WinLength {
			p.terminal = true
			p.winner = mover
			return
		}
	}
	if p.occupied.Count() == Cells {
		p.terminal = true
	}
}

// runFrom counts consecutive stones of player starting next to c in direction d.
func (p Position) runFrom(c Cell, d Cell, player Player) int {
	n := 0
	for next := c.Add(d); next.InBounds() && p.stoneAt(next.Index()) == player; next = next.Add(d) {
		n++
	}
	return n
}
