package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"robot-maze-server/config"
	"robot-maze-server/maze"
	"robot-maze-server/store"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Carve a random solvable maze",
		Long: `Generate carves a maze with a randomized depth-first search. Sizes are
clamped to 5..30. The layout is printed unless --out or --save is given.`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}
	cmd.Flags().IntP("width", "W", config.DefaultMazeWidth, "maze width in cells")
	cmd.Flags().IntP("height", "H", config.DefaultMazeHeight, "maze height in cells")
	cmd.Flags().Int64("seed", 0, "random seed (default: clock)")
	cmd.Flags().StringP("name", "n", maze.DefaultName, "layout name")
	cmd.Flags().StringP("out", "o", "", "write the layout to this file (.json or .yaml)")
	cmd.Flags().Bool("save", false, "save the layout to the configured store")
	cmd.Flags().Bool("json", false, "print the layout as JSON")
	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	name, _ := cmd.Flags().GetString("name")
	outPath, _ := cmd.Flags().GetString("out")
	save, _ := cmd.Flags().GetBool("save")
	asJSON, _ := cmd.Flags().GetBool("json")

	g := maze.NewGenerator(nil)
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetInt64("seed")
		g = maze.NewSeededGenerator(seed)
	}
	l := maze.NewGenerated(width, height, g).ToLayout(name)
	out := cmd.OutOrStdout()

	if outPath != "" {
		if err := store.WriteLayoutFile(outPath, l); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s (%dx%d)\n", outPath, l.Width, l.Height)
	}
	if save {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Save(cmd.Context(), l); err != nil {
			return err
		}
		fmt.Fprintf(out, "saved %q (%dx%d)\n", l.Name, l.Width, l.Height)
	}
	if outPath != "" || save {
		return nil
	}

	if asJSON {
		data, err := l.MarshalIndent()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	_, err := fmt.Fprintln(out, strings.Join(l.Rows, "\n"))
	return err
}
