package instance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robot-maze-server/maze"
	"robot-maze-server/store"
)

func TestApply(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	is := newTestInstance(t)

	apply := func(cmd Command) Result {
		t.Helper()
		res, err := is.Apply(ctx, cmd, st)
		require.NoError(t, err, cmd.Type)
		assert.Equal(t, cmd.Type, res.Type)
		return res
	}

	apply(Command{Type: CmdRun})
	assert.True(t, is.Running())
	apply(Command{Type: CmdPause})
	assert.False(t, is.Running())
	apply(Command{Type: CmdToggle})
	assert.True(t, is.Running())

	res := apply(Command{Type: CmdTestSolvable})
	require.NotNil(t, res.Solvable)
	assert.True(t, *res.Solvable)

	apply(Command{Type: CmdSetCell, X: 3, Y: 2, Cell: "wall"})
	assert.Equal(t, Failed, is.State())
	apply(Command{Type: CmdComputePath})
	assert.Equal(t, Failed, is.State())

	apply(Command{Type: CmdGenerate, Width: 9, Height: 7})
	assert.Equal(t, 9, is.Maze().Width)
	apply(Command{Type: CmdResize, Width: 11, Height: 11})
	assert.Equal(t, 11, is.Maze().Height)

	apply(Command{Type: CmdSpeed, Duration: 0.5})
	apply(Command{Type: CmdCellSize, Size: 60})
	apply(Command{Type: CmdZoomIn})
	apply(Command{Type: CmdZoomOut})
	apply(Command{Type: CmdZoomOut})
	snap := is.Snapshot()
	assert.Equal(t, 0.5, snap.MoveDuration)
	assert.Equal(t, 55.0, snap.CellSize)

	apply(Command{Type: CmdLoadLayout, Name: "line", Layout: []string{"S..E"}})
	assert.Len(t, is.Path(), 4)

	res = apply(Command{Type: CmdRename, Name: "renamed"})
	assert.Equal(t, "renamed", res.Name)

	apply(Command{Type: CmdLoadLevel})
	assert.Equal(t, DefaultLevel, is.ToLayout().Rows)
}

func TestApplySaveLoad(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	is := newTestInstance(t)

	res, err := is.Apply(ctx, Command{Type: CmdSave, Name: "saved"}, st)
	require.NoError(t, err)
	assert.Equal(t, "saved", res.Name)

	stored, err := st.Load(ctx, "saved")
	require.NoError(t, err)
	assert.Equal(t, DefaultLevel, stored.Rows)

	_, err = is.Apply(ctx, Command{Type: CmdLoadLayout, Layout: []string{"SE"}}, st)
	require.NoError(t, err)

	res, err = is.Apply(ctx, Command{Type: CmdLoad, Name: "saved"}, st)
	require.NoError(t, err)
	assert.Equal(t, "saved", res.Name)
	assert.Equal(t, "saved", is.Name())
	assert.Len(t, is.Path(), 28)

	_, err = is.Apply(ctx, Command{Type: CmdLoad, Name: "nope"}, st)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestApplyErrors(t *testing.T) {
	ctx := context.Background()
	is := newTestInstance(t)

	_, err := is.Apply(ctx, Command{Type: "dance"}, nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = is.Apply(ctx, Command{Type: CmdSave}, nil)
	assert.ErrorIs(t, err, ErrNoStore)
	_, err = is.Apply(ctx, Command{Type: CmdLoad, Name: "x"}, nil)
	assert.ErrorIs(t, err, ErrNoStore)

	_, err = is.Apply(ctx, Command{Type: CmdSetCell, Cell: "lava"}, nil)
	assert.Error(t, err)

	_, err = is.Apply(ctx, Command{Type: CmdLoadLayout, Layout: []string{"S.", "E"}}, nil)
	assert.ErrorIs(t, err, maze.ErrRaggedLayout)
}
