package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robot-maze-server/config"
	"robot-maze-server/maze"
)

func sampleLayout(name string) *maze.Layout {
	return &maze.Layout{
		Name:   name,
		Width:  7,
		Height: 4,
		Rows: []string{
			"#######",
			"#S..#.#",
			"#.#...E",
			"#######",
		},
	}
}

// runContract exercises the behavior every Store must share.
func runContract(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("load missing", func(t *testing.T) {
		_, err := s.Load(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("save and load", func(t *testing.T) {
		in := sampleLayout("alpha")
		require.NoError(t, s.Save(ctx, in))

		out, err := s.Load(ctx, "alpha")
		require.NoError(t, err)
		assert.Equal(t, in, out)

		m, err := out.Maze()
		require.NoError(t, err)
		assert.Equal(t, maze.Point{X: 1, Y: 1}, m.StartPos)
		assert.Equal(t, maze.Point{X: 6, Y: 2}, m.EndPos)
	})

	t.Run("save overwrites", func(t *testing.T) {
		in := sampleLayout("alpha")
		in.Rows[1] = "#S...##"
		require.NoError(t, s.Save(ctx, in))

		out, err := s.Load(ctx, "alpha")
		require.NoError(t, err)
		assert.Equal(t, "#S...##", out.Rows[1])
	})

	t.Run("list sorted", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, sampleLayout("My Maze")))
		require.NoError(t, s.Save(ctx, sampleLayout("beta")))

		names, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"My Maze", "alpha", "beta"}, names)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		assert.ErrorIs(t, s.Save(ctx, sampleLayout("../escape")), ErrInvalidName)
		assert.ErrorIs(t, s.Save(ctx, sampleLayout(" ")), ErrInvalidName)

		ragged := sampleLayout("ragged")
		ragged.Rows[2] = "#"
		assert.ErrorIs(t, s.Save(ctx, ragged), maze.ErrRaggedLayout)
		assert.Error(t, s.Save(ctx, nil))

		_, err := s.Load(ctx, "../escape")
		assert.ErrorIs(t, err, ErrInvalidName)
		_, err = s.Load(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidName)
		assert.ErrorIs(t, s.Delete(ctx, ".hidden"), ErrInvalidName)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "beta"))
		assert.ErrorIs(t, s.Delete(ctx, "beta"), ErrNotFound)
		_, err := s.Load(ctx, "beta")
		assert.ErrorIs(t, err, ErrNotFound)

		names, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"My Maze", "alpha"}, names)
	})

	require.NoError(t, s.Close())
}

func TestMemoryStore(t *testing.T) {
	runContract(t, NewMemoryStore())
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	in := sampleLayout("copy")
	require.NoError(t, s.Save(ctx, in))

	in.Rows[0] = "changed"
	out, err := s.Load(ctx, "copy")
	require.NoError(t, err)
	assert.Equal(t, "#######", out.Rows[0])
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("My Maze"))
	assert.NoError(t, ValidateName("level-2_final"))
	for _, bad := range []string{"", "  ", "a/b", `a\b`, ".hidden", ".."} {
		assert.ErrorIs(t, ValidateName(bad), ErrInvalidName, bad)
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, config.Config{StoreBackend: config.StoreMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = New(ctx, config.Config{StoreBackend: config.StoreFile, StoreDir: t.TempDir(), StoreFormat: "yaml"})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = New(ctx, config.Config{StoreBackend: "cassette"})
	assert.Error(t, err)
}
