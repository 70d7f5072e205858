/*
Package maze models the rectangular grid the robot walks on.

A Maze stores one CellType per cell in a flat row-major slice and caches the
start and end coordinates. Mazes are built empty, parsed from text layouts
('#' wall, 'S' start, 'E' end, anything else empty) or carved by a Generator.
*/
package maze

import (
	"errors"
	"fmt"
	"strings"
)

// Dimension bounds applied by Resize and NewGenerated.
const (
	MinDimension = 5
	MaxDimension = 30
)

var (
	ErrEmptyLayout      = errors.New("layout has no rows")
	ErrRaggedLayout     = errors.New("layout rows have different lengths")
	ErrInvalidDimension = errors.New("invalid maze dimension")
)

// Maze is a width x height grid of cells with a cached start and end.
type Maze struct {
	Width    int        // Number of columns
	Height   int        // Number of rows
	StartPos Point      // Last cell set to Start
	EndPos   Point      // Last cell set to End
	cells    []CellType // Row-major, index y*Width+x
}

// New returns a maze of the given size with every cell Empty.
// Negative dimensions are treated as zero.
func New(width, height int) *Maze {
	width, height = max(width, 0), max(height, 0)
	return &Maze{
		Width:  width,
		Height: height,
		cells:  make([]CellType, width*height),
	}
}

// Parse builds a maze from layout rows.
func Parse(rows []string) (*Maze, error) {
	m := &Maze{}
	if err := m.LoadLayout(rows); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Maze) index(x, y int) int {
	return y*m.Width + x
}

// IsValid reports whether p lies inside the grid.
func (m *Maze) IsValid(p Point) bool {
	return p.X >= 0 && p.X < m.Width && p.Y >= 0 && p.Y < m.Height
}

// IsWall reports whether p blocks movement. Out-of-bounds points are walls.
func (m *Maze) IsWall(p Point) bool {
	if !m.IsValid(p) {
		return true
	}
	return m.cells[m.index(p.X, p.Y)] == Wall
}

// Cell returns the type at p, or Wall when p is out of bounds.
func (m *Maze) Cell(p Point) CellType {
	if !m.IsValid(p) {
		return Wall
	}
	return m.cells[m.index(p.X, p.Y)]
}

// SetCell replaces the cell at (x, y). Out-of-bounds writes are ignored.
//
// Setting Start or End moves the cached coordinate. A maze holds at most one
// Start and one End: if the previously cached cell still carries that kind it
// is turned Empty.
func (m *Maze) SetCell(x, y int, t CellType) {
	p := Point{X: x, Y: y}
	if !m.IsValid(p) {
		return
	}
	switch t {
	case Start:
		if m.StartPos != p && m.Cell(m.StartPos) == Start {
			m.cells[m.index(m.StartPos.X, m.StartPos.Y)] = Empty
		}
		m.StartPos = p
	case End:
		if m.EndPos != p && m.Cell(m.EndPos) == End {
			m.cells[m.index(m.EndPos.X, m.EndPos.Y)] = Empty
		}
		m.EndPos = p
	}
	m.cells[m.index(x, y)] = t
}

// LoadLayout replaces the whole maze with the given rows. Height is the row
// count and width the length of the first row; every row must have that
// length. On error the maze is left unchanged.
func (m *Maze) LoadLayout(rows []string) error {
	if len(rows) == 0 {
		return ErrEmptyLayout
	}
	width := len(rows[0])
	if width == 0 {
		return ErrEmptyLayout
	}
	for y, row := range rows {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedLayout, y, len(row), width)
		}
	}

	*m = *New(width, len(rows))
	for y, row := range rows {
		for x := 0; x < width; x++ {
			m.SetCell(x, y, CellTypeFromRune(rune(row[x])))
		}
	}
	return nil
}

// Resize changes the grid size, clamping each dimension to
// [MinDimension, MaxDimension]. Cells in the overlap keep their type and new
// cells are Empty. A start or end that falls outside the new bounds moves to
// (0,0) or (w-1,h-1) respectively and that corner takes the kind.
func (m *Maze) Resize(newWidth, newHeight int) {
	newWidth = clampDimension(newWidth)
	newHeight = clampDimension(newHeight)

	cells := make([]CellType, newWidth*newHeight)
	copyW := min(m.Width, newWidth)
	for y := 0; y < min(m.Height, newHeight); y++ {
		copy(cells[y*newWidth:y*newWidth+copyW], m.cells[m.index(0, y):m.index(0, y)+copyW])
	}

	m.cells = cells
	m.Width = newWidth
	m.Height = newHeight

	if !m.IsValid(m.StartPos) {
		m.SetCell(0, 0, Start)
	}
	if !m.IsValid(m.EndPos) {
		m.SetCell(newWidth-1, newHeight-1, End)
	}
}

// Generate overwrites the maze with a freshly carved layout, clamping its
// size first.
func (m *Maze) Generate(g *Generator) {
	g.Generate(m)
}

// Rows serializes the maze one string per row using '#', 'S', 'E' and '.'.
func (m *Maze) Rows() []string {
	rows := make([]string, m.Height)
	var sb strings.Builder
	for y := 0; y < m.Height; y++ {
		sb.Reset()
		sb.Grow(m.Width)
		for x := 0; x < m.Width; x++ {
			sb.WriteRune(m.cells[m.index(x, y)].Rune())
		}
		rows[y] = sb.String()
	}
	return rows
}

// Clone returns a deep copy.
func (m *Maze) Clone() *Maze {
	c := *m
	c.cells = append([]CellType(nil), m.cells...)
	return &c
}

// Count returns how many cells have type t.
func (m *Maze) Count(t CellType) int {
	n := 0
	for _, c := range m.cells {
		if c == t {
			n++
		}
	}
	return n
}

func (m *Maze) String() string {
	return strings.Join(m.Rows(), "\n")
}

func clampDimension(d int) int {
	return max(MinDimension, min(MaxDimension, d))
}

// ClampDimension bounds d to [MinDimension, MaxDimension].
func ClampDimension(d int) int {
	return clampDimension(d)
}
