package ui

import (
	"fmt"
	"gomoku/game"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

const (
	blackStone = "●"
	whiteStone = "○"
	emptyCell  = "·"
)

// Renderer draws boards with column and row coordinates. The last move is
// highlighted when the output supports colour.
type Renderer struct {
	out *termenv.Output
}

func NewRenderer(w io.Writer, options ...termenv.OutputOption) *Renderer {
	return &Renderer{out: termenv.NewOutput(w, options...)}
}

func (r *Renderer) Render(position game.Position) string {
	var b strings.Builder

	b.WriteString("   ")
	for x := 0; x < game.BoardSize; x++ {
		fmt.Fprintf(&b, "%3d", x)
	}
	b.WriteByte('\n')

	last := position.LastMove()
	for y := 0; y < game.BoardSize; y++ {
		fmt.Fprintf(&b, "%3d", y)
		for x := 0; x < game.BoardSize; x++ {
			c := game.Cell{X: x, Y: y}
			b.WriteString("  ")
			b.WriteString(r.cell(position.Stone(c), c == last))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *Renderer) cell(stone game.Player, last bool) string {
	var style termenv.Style
	switch stone {
	case game.Black:
		style = r.out.String(blackStone).Foreground(r.out.Color("#5fafff"))
	case game.White:
		style = r.out.String(whiteStone).Foreground(r.out.Color("#ffaf5f"))
	default:
		return r.out.String(emptyCell).Faint().String()
	}
	if last {
		style = style.Bold().Underline()
	}
	return style.String()
}

// Show writes the board followed by the game status.
func (r *Renderer) Show(position game.Position) {
	fmt.Fprint(r.out, r.Render(position))
	fmt.Fprintln(r.out, Status(position))
}

func Status(position game.Position) string {
	switch {
	case !position.Terminal():
		return fmt.Sprintf("%s to move", position.ToMove())
	case position.Winner() == game.NoPlayer:
		return "draw"
	}
	return fmt.Sprintf("%s wins", position.Winner())
}
