package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"robot-maze-server/config"
	"robot-maze-server/instance"
	"robot-maze-server/maze"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [layout-file]",
		Short: "Drive the robot along the solution over simulated time",
		Long: `Simulate loads a layout the same way solve does (or carves one with
--width/--height), runs the robot to the end cell with a fixed time step and
reports how long the walk took. --animate redraws the grid every tick.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSimulate,
	}
	cmd.Flags().String("stored", "", "load the named layout from the configured store")
	cmd.Flags().Int("width", 0, "carve a random maze of this width instead of loading one")
	cmd.Flags().Int("height", 0, "carve a random maze of this height instead of loading one")
	cmd.Flags().Int64("seed", 0, "random seed for --width/--height (default: clock)")
	cmd.Flags().Float64("speed", config.DefaultMoveDuration, "seconds per cell, clamped to 0.1..1.0")
	cmd.Flags().Duration("dt", config.DefaultTickInterval, "simulation time step")
	cmd.Flags().Int("max-ticks", 100000, "give up after this many ticks")
	cmd.Flags().Bool("animate", false, "redraw the grid every tick in real time")
	return cmd
}

func runSimulate(cmd *cobra.Command, args []string) error {
	speed, _ := cmd.Flags().GetFloat64("speed")
	dt, _ := cmd.Flags().GetDuration("dt")
	maxTicks, _ := cmd.Flags().GetInt("max-ticks")
	animate, _ := cmd.Flags().GetBool("animate")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	if dt <= 0 {
		return fmt.Errorf("dt must be positive, got %s", dt)
	}

	logger := newLogger(cmd, config.FromEnv())
	is := instance.NewInstanceState(instance.WithLogger(logger))

	if width > 0 && height > 0 {
		g := maze.NewGenerator(nil)
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetInt64("seed")
			g = maze.NewSeededGenerator(seed)
		}
		if err := is.LoadMaze(maze.NewGenerated(width, height, g).ToLayout("")); err != nil {
			return err
		}
	} else {
		l, err := loadLayout(cmd, args)
		if err != nil {
			return err
		}
		if err := is.LoadMaze(l); err != nil {
			return err
		}
	}
	is.SetMoveDuration(speed)
	is.Run()

	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	ticks := 0
	for is.Running() && ticks < maxTicks {
		is.Update(dt.Seconds())
		ticks++

		if animate {
			clearScreen(out)
			if err := drawSnapshot(out, is.Snapshot(), ticks); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(dt):
			}
		}
	}

	snap := is.Snapshot()
	if !animate {
		if err := drawSnapshot(out, snap, ticks); err != nil {
			return err
		}
	}
	elapsed := time.Duration(ticks) * dt
	fmt.Fprintf(out, "%s: %s after %d steps, %s simulated (%d ticks)\n",
		snap.Name, snap.State, snap.Robot.Steps, elapsed, ticks)

	if snap.State != instance.Complete {
		return fmt.Errorf("robot did not reach the end: %s", snap.State)
	}
	return nil
}

// drawSnapshot prints a header and the grid with the visited part of the
// path and the robot.
func drawSnapshot(w io.Writer, snap instance.Snapshot, tick int) error {
	m, err := maze.Parse(snap.Rows)
	if err != nil {
		return err
	}
	trail := snap.Path[:min(snap.PathIndex, len(snap.Path))]
	pos := snap.Robot.Position

	fmt.Fprintf(w, "tick %d  step %d  position %s  state %s\n", tick, snap.Robot.Steps, pos, snap.State)
	return renderGrid(w, frame{maze: m, trail: trail, robot: &pos})
}
