package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"robot-maze-server/maze"
)

func TestFileStoreJSON(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, "")
	require.NoError(t, err)
	runContract(t, s)

	data, err := os.ReadFile(filepath.Join(dir, "alpha.json"))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "alpha", raw["name"])
	assert.EqualValues(t, 7, raw["width"])
	assert.EqualValues(t, 4, raw["height"])
	assert.Len(t, raw["layout"], 4)
}

func TestFileStoreYAML(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, "yml")
	require.NoError(t, err)
	runContract(t, s)

	data, err := os.ReadFile(filepath.Join(dir, "alpha.yaml"))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, "alpha", raw["name"])
	assert.Equal(t, 7, raw["width"])
}

func TestFileStoreIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, "json")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tmp-1"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))
	require.NoError(t, s.Save(context.Background(), sampleLayout("only")))

	names, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, names)
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, "json")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))

	_, err = s.Load(context.Background(), "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFileStoreBadFormat(t *testing.T) {
	_, err := NewFileStore(t.TempDir(), "xml")
	assert.Error(t, err)
}

func TestLayoutFiles(t *testing.T) {
	dir := t.TempDir()
	l := &maze.Layout{Name: "line", Width: 4, Height: 1, Rows: []string{"S..E"}}

	for _, name := range []string{"line.json", "line.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteLayoutFile(path, l))
		got, err := ReadLayoutFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, l, got, name)
	}

	path := filepath.Join(dir, "bare.yml")
	require.NoError(t, os.WriteFile(path, []byte("layout:\n  - S.\n  - .E\n"), 0o644))
	got, err := ReadLayoutFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bare", got.Name)
	assert.Equal(t, 2, got.Width)
	assert.Equal(t, 2, got.Height)

	path = filepath.Join(dir, "ragged.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"layout":["S..","E"]}`), 0o644))
	_, err = ReadLayoutFile(path)
	assert.Error(t, err)

	_, err = ReadLayoutFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
