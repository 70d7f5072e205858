package cmd

import (
	"fmt"
	"io"
	"strings"

	"robot-maze-server/maze"
)

// frame is one picture of a maze for the terminal.
type frame struct {
	maze     *maze.Maze
	trail    []maze.Point // Path drawn with '+'
	explored []maze.Point // Cells drawn with '*'
	robot    *maze.Point  // Drawn as 'R' on top of everything
}

// renderGrid prints f one row per line, cells separated by a space.
func renderGrid(w io.Writer, f frame) error {
	onTrail := make(map[maze.Point]bool, len(f.trail))
	for _, p := range f.trail {
		onTrail[p] = true
	}
	seen := make(map[maze.Point]bool, len(f.explored))
	for _, p := range f.explored {
		seen[p] = true
	}

	var b strings.Builder
	cells := make([]string, f.maze.Width)
	for y := 0; y < f.maze.Height; y++ {
		for x := 0; x < f.maze.Width; x++ {
			p := maze.Point{X: x, Y: y}
			t := f.maze.Cell(p)
			switch {
			case f.robot != nil && *f.robot == p:
				cells[x] = "R"
			case t == maze.Start || t == maze.End || t == maze.Wall:
				cells[x] = string(t.Rune())
			case onTrail[p]:
				cells[x] = "+"
			case seen[p]:
				cells[x] = "*"
			default:
				cells[x] = "."
			}
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// clearScreen moves the cursor home and clears the terminal.
func clearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[2J\033[H")
}
