package ui

import (
	"bufio"
	"fmt"
	"gomoku/game"
	"io"
)

// Input collects moves typed as "x y" lines.
type Input struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewInput(r io.Reader, w io.Writer) *Input {
	return &Input{scanner: bufio.NewScanner(r), out: w}
}

// ReadCell prompts player and parses the next line. It returns io.EOF once the
// input is exhausted.
func (in *Input) ReadCell(player game.Player) (game.Cell, error) {
	fmt.Fprintf(in.out, "%s> ", player)
	if !in.scanner.Scan() {
		if err := in.scanner.Err(); err != nil {
			return game.NoCell, fmt.Errorf("read move: %w", err)
		}
		return game.NoCell, io.EOF
	}
	return game.ParseCell(in.scanner.Text())
}

func (in *Input) Warn(err error) {
	fmt.Fprintf(in.out, "invalid move: %v\n", err)
}

// Console is an interactive terminal: a board renderer plus an input collector
// sharing one output.
type Console struct {
	*Renderer
	*Input
}

func NewConsole(r io.Reader, w io.Writer) *Console {
	return &Console{Renderer: NewRenderer(w), Input: NewInput(r, w)}
}
