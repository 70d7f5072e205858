package maze

import (
	"errors"
	"fmt"
)

// ErrUnknownCellType is returned by ParseCellType.
var ErrUnknownCellType = errors.New("unknown cell type")

// Point is an integer grid coordinate.
type Point struct {
	X int `json:"x" yaml:"x" bson:"x"`
	Y int `json:"y" yaml:"y" bson:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// CellType classifies a single maze cell.
type CellType uint8

const (
	Empty CellType = iota
	Wall
	Start
	End
	Special // reserved, walkable
)

// Layout characters used by LoadLayout and Rows.
const (
	WallChar  = '#'
	StartChar = 'S'
	EndChar   = 'E'
	EmptyChar = '.'
)

// Walkable reports whether a cell of type t can be entered. Only walls block.
func Walkable(t CellType) bool {
	return t != Wall
}

// CellTypeFromRune maps a layout character to its cell type. Unknown
// characters are Empty.
func CellTypeFromRune(r rune) CellType {
	switch r {
	case WallChar:
		return Wall
	case StartChar:
		return Start
	case EndChar:
		return End
	}
	return Empty
}

// Rune returns the layout character for t. Special serializes as Empty.
func (t CellType) Rune() rune {
	switch t {
	case Wall:
		return WallChar
	case Start:
		return StartChar
	case End:
		return EndChar
	}
	return EmptyChar
}

func (t CellType) String() string {
	switch t {
	case Empty:
		return "empty"
	case Wall:
		return "wall"
	case Start:
		return "start"
	case End:
		return "end"
	case Special:
		return "special"
	}
	return fmt.Sprintf("Unknown CellType: %d", uint8(t))
}

// ParseCellType parses the names produced by String.
func ParseCellType(s string) (CellType, error) {
	switch s {
	case "empty":
		return Empty, nil
	case "wall":
		return Wall, nil
	case "start":
		return Start, nil
	case "end":
		return End, nil
	case "special":
		return Special, nil
	}
	return Empty, fmt.Errorf("%w %q", ErrUnknownCellType, s)
}
