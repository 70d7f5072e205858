package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"robot-maze-server/maze"
)

// Supported file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FileStore keeps one "<name>.json" or "<name>.yaml" file per layout in a
// directory.
type FileStore struct {
	dir    string
	format string
}

// NewFileStore creates dir if needed. An empty format means JSON.
func NewFileStore(dir, format string) (*FileStore, error) {
	switch format {
	case "", FormatJSON:
		format = FormatJSON
	case FormatYAML, "yml":
		format = FormatYAML
	default:
		return nil, fmt.Errorf("unsupported layout format %q", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create layout dir: %w", err)
	}
	return &FileStore{dir: dir, format: format}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+"."+s.format)
}

func (s *FileStore) Save(_ context.Context, l *maze.Layout) error {
	if err := validateLayout(l); err != nil {
		return err
	}
	data, err := s.encode(l)
	if err != nil {
		return fmt.Errorf("encode layout %q: %w", l.Name, err)
	}

	// Write then rename so readers never see a partial file.
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("save layout %q: %w", l.Name, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save layout %q: %w", l.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save layout %q: %w", l.Name, err)
	}
	if err := os.Rename(tmp.Name(), s.path(l.Name)); err != nil {
		return fmt.Errorf("save layout %q: %w", l.Name, err)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context, name string) (*maze.Layout, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load layout %q: %w", name, err)
	}

	l, err := decode(s.format, data)
	if err != nil {
		return nil, fmt.Errorf("decode layout %q: %w", name, err)
	}
	return l, nil
}

func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	ext := "." + s.format
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ext))
	}
	slices.Sort(names)
	return names, nil
}

func (s *FileStore) Delete(_ context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) encode(l *maze.Layout) ([]byte, error) {
	return encode(s.format, l)
}

func encode(format string, l *maze.Layout) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(l)
	}
	return l.MarshalIndent()
}

func decode(format string, data []byte) (*maze.Layout, error) {
	var (
		l   maze.Layout
		err error
	)
	if format == FormatYAML {
		err = yaml.Unmarshal(data, &l)
	} else {
		err = json.Unmarshal(data, &l)
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// ReadLayoutFile decodes a single layout file, YAML or JSON by extension.
// Width and height are derived from the rows when missing and the name
// defaults to the file name.
func ReadLayoutFile(path string) (*maze.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	l, err := decode(formatOf(path), data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if l.Name == "" {
		l.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if l.Height == 0 {
		l.Height = len(l.Rows)
	}
	if l.Width == 0 && len(l.Rows) > 0 {
		l.Width = len(l.Rows[0])
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// WriteLayoutFile writes l to path, YAML or JSON by extension.
func WriteLayoutFile(path string, l *maze.Layout) error {
	data, err := encode(formatOf(path), l)
	if err != nil {
		return fmt.Errorf("encode layout %q: %w", l.Name, err)
	}
	return os.WriteFile(path, data, 0o644)
}
