// Package cmd holds the robot-maze command line.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"robot-maze-server/config"
	"robot-maze-server/instance"
	"robot-maze-server/logging"
	"robot-maze-server/maze"
	"robot-maze-server/store"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "robot-maze",
		Short:         "Grid maze pathfinding and robot simulation",
		Long:          `robot-maze solves grid mazes with A*, generates new ones and drives a robot along the solution, either headless from the terminal or as a REST/WebSocket/gRPC server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "", "debug, info, warn or error (default $LOG_LEVEL)")

	root.AddCommand(
		newServeCmd(),
		newSolveCmd(),
		newGenerateCmd(),
		newSimulateCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command, cfg config.Config) *slog.Logger {
	level := cfg.LogLevel
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		level = l
	}
	return logging.New(logging.ParseLevel(level))
}

// openStore opens the configured store for a single command.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.New(ctx, config.Load())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// loadLayout resolves the layout of solve and simulate: a file argument, a
// stored name given with --stored, or the built-in level.
func loadLayout(cmd *cobra.Command, args []string) (*maze.Layout, error) {
	if len(args) > 0 {
		return store.ReadLayoutFile(args[0])
	}
	if name, _ := cmd.Flags().GetString("stored"); name != "" {
		st, err := openStore(cmd.Context())
		if err != nil {
			return nil, err
		}
		defer st.Close()
		return st.Load(cmd.Context(), name)
	}
	m, err := maze.Parse(instance.DefaultLevel)
	if err != nil {
		return nil, err
	}
	return m.ToLayout(instance.DefaultLevelName), nil
}
