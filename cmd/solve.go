package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"robot-maze-server/maze"
	"robot-maze-server/pathfinding"
)

var errNoPath = errors.New("no path from start to end")

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve [layout-file]",
		Short: "Find the shortest path through a layout",
		Long: `Solve runs A* over a layout file (JSON or YAML), a stored layout (--stored)
or the built-in level, then prints the grid with the path marked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSolve,
	}
	cmd.Flags().String("stored", "", "load the named layout from the configured store")
	cmd.Flags().Bool("json", false, "print the result as JSON")
	cmd.Flags().Bool("explored", false, "mark explored cells with '*'")
	return cmd
}

type solveOutput struct {
	Name     string            `json:"name"`
	Solvable bool              `json:"solvable"`
	Steps    int               `json:"steps"`
	Path     []maze.Point      `json:"path"`
	Stats    pathfinding.Stats `json:"stats"`
}

func runSolve(cmd *cobra.Command, args []string) error {
	l, err := loadLayout(cmd, args)
	if err != nil {
		return err
	}
	m, err := l.Maze()
	if err != nil {
		return err
	}

	pf := pathfinding.NewPathFinder()
	path := pf.FindPath(m)
	res := solveOutput{
		Name:     l.Name,
		Solvable: len(path) > 0,
		Steps:    max(len(path)-1, 0),
		Path:     path,
		Stats:    pf.LastStats(),
	}
	if res.Path == nil {
		res.Path = []maze.Point{}
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		f := frame{maze: m, trail: path}
		if showExplored, _ := cmd.Flags().GetBool("explored"); showExplored {
			f.explored = pf.Explored()
		}
		if err := renderGrid(out, f); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %dx%d, start %s, end %s\n", l.Name, m.Width, m.Height, m.StartPos, m.EndPos)
		if res.Solvable {
			fmt.Fprintf(out, "steps: %d, explored: %d cells, %s\n", res.Steps, res.Stats.Explored, res.Stats.Duration)
		}
	}

	if !res.Solvable {
		return errNoPath
	}
	return nil
}
