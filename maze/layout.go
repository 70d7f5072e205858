package maze

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultName is used when a layout is saved without a name.
const DefaultName = "My Maze"

// Layout is the persisted form of a maze.
type Layout struct {
	Name   string   `json:"name" yaml:"name" bson:"name"`
	Width  int      `json:"width" yaml:"width" bson:"width"`
	Height int      `json:"height" yaml:"height" bson:"height"`
	Rows   []string `json:"layout" yaml:"layout" bson:"layout"`
}

// ToLayout captures the maze under the given name.
func (m *Maze) ToLayout(name string) *Layout {
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}
	return &Layout{
		Name:   name,
		Width:  m.Width,
		Height: m.Height,
		Rows:   m.Rows(),
	}
}

// Validate checks that the declared size matches the rows.
func (l *Layout) Validate() error {
	if len(l.Rows) == 0 {
		return ErrEmptyLayout
	}
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimension, l.Width, l.Height)
	}
	if len(l.Rows) != l.Height {
		return fmt.Errorf("%w: height is %d but layout has %d rows", ErrInvalidDimension, l.Height, len(l.Rows))
	}
	for y, row := range l.Rows {
		if len(row) != l.Width {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedLayout, y, len(row), l.Width)
		}
	}
	return nil
}

// Maze parses the rows into a new maze.
func (l *Layout) Maze() (*Maze, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return Parse(l.Rows)
}

// MarshalIndent renders the layout as indented JSON, one row per line.
func (l *Layout) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}
