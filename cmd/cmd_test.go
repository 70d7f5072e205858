package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robot-maze-server/maze"
	"robot-maze-server/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func useTempStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORE_BACKEND", "file")
	t.Setenv("STORE_DIR", dir)
	t.Setenv("STORE_FORMAT", "json")
	return dir
}

func TestRenderGrid(t *testing.T) {
	m, err := maze.Parse([]string{"S..E", ".#.."})
	require.NoError(t, err)
	path := []maze.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}

	var b strings.Builder
	require.NoError(t, renderGrid(&b, frame{maze: m, trail: path}))
	assert.Equal(t, "S + + E\n. # . .\n", b.String())

	b.Reset()
	robot := maze.Point{X: 1, Y: 0}
	explored := []maze.Point{{X: 0, Y: 1}, {X: 2, Y: 1}}
	require.NoError(t, renderGrid(&b, frame{maze: m, trail: path[:1], explored: explored, robot: &robot}))
	assert.Equal(t, "S R . E\n* # * .\n", b.String())
}

func TestSolveBuiltInLevel(t *testing.T) {
	out, err := execute(t, "solve")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "# # # # # # # # # #", lines[0])
	assert.Equal(t, "# S + + . # . . . #", lines[1])
	assert.Equal(t, "# + + + # + + + + #", lines[3])
	assert.Contains(t, out, "Level 1: 10x9, start (1,1), end (8,7)")
	assert.Contains(t, out, "steps: 27")
}

func TestSolveJSONUnsolvable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocked.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"layout":["S#E"]}`), 0o644))

	out, err := execute(t, "solve", path, "--json")
	require.ErrorIs(t, err, errNoPath)

	var res solveOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "blocked", res.Name)
	assert.False(t, res.Solvable)
	assert.Empty(t, res.Path)
}

func TestSolveMissingFile(t *testing.T) {
	_, err := execute(t, "solve", filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestGenerateToFileThenSolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carved.yaml")

	out, err := execute(t, "generate", "--width", "9", "--height", "7", "--seed", "3", "--name", "carved", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path+" (9x7)")

	l, err := store.ReadLayoutFile(path)
	require.NoError(t, err)
	assert.Equal(t, "carved", l.Name)

	out, err = execute(t, "solve", path)
	require.NoError(t, err)
	assert.Contains(t, out, "carved: 9x7, start (1,1), end (7,5)")
}

func TestGeneratePrintsRows(t *testing.T) {
	first, err := execute(t, "generate", "--width", "11", "--height", "11", "--seed", "8")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(first), "\n"), 11)

	second, err := execute(t, "generate", "--width", "11", "--height", "11", "--seed", "8")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	out, err := execute(t, "generate", "--width", "5", "--height", "5", "--seed", "8", "--json")
	require.NoError(t, err)
	var l maze.Layout
	require.NoError(t, json.Unmarshal([]byte(out), &l))
	assert.Equal(t, maze.DefaultName, l.Name)
	assert.Equal(t, 5, l.Width)
}

func TestGenerateSaveThenSolveStored(t *testing.T) {
	dir := useTempStore(t)

	out, err := execute(t, "generate", "--width", "13", "--height", "9", "--seed", "2", "--name", "kept", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, `saved "kept" (13x9)`)
	assert.FileExists(t, filepath.Join(dir, "kept.json"))

	out, err = execute(t, "solve", "--stored", "kept")
	require.NoError(t, err)
	assert.Contains(t, out, "kept: 13x9")

	_, err = execute(t, "solve", "--stored", "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSimulateBuiltInLevel(t *testing.T) {
	out, err := execute(t, "simulate", "--speed", "0.1", "--dt", "100ms")
	require.NoError(t, err)
	assert.Contains(t, out, "Level 1: complete after 27 steps")
	assert.Contains(t, out, "(27 ticks)")
	assert.Contains(t, out, "position (8,7)")
}

func TestSimulateGenerated(t *testing.T) {
	out, err := execute(t, "simulate", "--width", "9", "--height", "9", "--seed", "5", "--speed", "0.1", "--dt", "100ms")
	require.NoError(t, err)
	assert.Contains(t, out, "complete after")
}

func TestSimulateFailed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walled.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layout:\n  - \"S#E\"\n"), 0o644))

	out, err := execute(t, "simulate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")
	assert.Contains(t, out, "walled: failed after 0 steps")
}

func TestSimulateRejectsBadStep(t *testing.T) {
	_, err := execute(t, "simulate", "--dt", "0s")
	assert.Error(t, err)
}
