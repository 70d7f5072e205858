package maze

import (
	"math/rand"
	"time"
)

// jumpDirections are the offsets between neighbouring rooms. Rooms sit on odd
// coordinates; the cell halfway between two rooms is the wall to carve.
var jumpDirections = [4]Point{{0, -2}, {2, 0}, {0, 2}, {-2, 0}}

// Generator carves solvable mazes with a randomized depth-first search.
type Generator struct {
	rng *rand.Rand // Source for neighbour selection
}

// NewGenerator returns a generator drawing from rng. A nil rng is seeded from
// the clock.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// NewSeededGenerator returns a generator whose output is reproducible for a
// given seed.
func NewSeededGenerator(seed int64) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)))
}

// NewGenerated returns a freshly carved maze with both dimensions clamped to
// [MinDimension, MaxDimension].
func NewGenerated(width, height int, g *Generator) *Maze {
	m := New(clampDimension(width), clampDimension(height))
	g.Generate(m)
	return m
}

// Generate overwrites m in place: every cell becomes a wall, passages are
// carved from (1,1), then (1,1) is marked Start and (w-2,h-2) End. A maze
// whose size lies outside [MinDimension, MaxDimension] is first reallocated
// at the clamped size.
func (g *Generator) Generate(m *Maze) {
	width, height := clampDimension(m.Width), clampDimension(m.Height)
	if width != m.Width || height != m.Height {
		*m = *New(width, height)
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			m.SetCell(x, y, Wall)
		}
	}

	g.carve(m)
	g.anchorEnd(m)

	m.SetCell(1, 1, Start)
	m.SetCell(m.Width-2, m.Height-2, End)
}

func (g *Generator) carve(m *Maze) {
	origin := Point{X: 1, Y: 1}
	m.SetCell(origin.X, origin.Y, Empty)

	stack := []Point{origin}
	neighbors := make([]Point, 0, len(jumpDirections))
	for len(stack) > 0 {
		current := stack[len(stack)-1]

		neighbors = neighbors[:0]
		for _, dir := range jumpDirections {
			n := current.Add(dir)
			if n.X > 0 && n.X < m.Width-1 && n.Y > 0 && n.Y < m.Height-1 && m.IsWall(n) {
				neighbors = append(neighbors, n)
			}
		}

		if len(neighbors) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		next := neighbors[g.rng.Intn(len(neighbors))]
		m.SetCell(current.X+(next.X-current.X)/2, current.Y+(next.Y-current.Y)/2, Empty)
		m.SetCell(next.X, next.Y, Empty)
		stack = append(stack, next)
	}
}

// anchorEnd connects (w-2,h-2) to the nearest room. With an even width or
// height that cell lies on a wall line the carver never opens.
func (g *Generator) anchorEnd(m *Maze) {
	end := Point{X: m.Width - 2, Y: m.Height - 2}
	room := Point{X: lastOdd(end.X), Y: lastOdd(end.Y)}
	for x := room.X; x <= end.X; x++ {
		m.SetCell(x, room.Y, Empty)
	}
	for y := room.Y; y <= end.Y; y++ {
		m.SetCell(end.X, y, Empty)
	}
}

func lastOdd(n int) int {
	if n%2 == 0 {
		return n - 1
	}
	return n
}
