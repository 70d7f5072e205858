package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reachable flood-fills walkable cells from the start position.
func reachable(m *Maze) map[Point]bool {
	seen := map[Point]bool{m.StartPos: true}
	queue := []Point{m.StartPos}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range []Point{{0, 1}, {0, -1}, {1, 0}, {-1, 0}} {
			n := p.Add(d)
			if m.IsWall(n) || seen[n] {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return seen
}

func TestGenerateSolvable(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		g := NewSeededGenerator(seed)
		for w := MinDimension; w <= 16; w++ {
			for h := MinDimension; h <= 16; h++ {
				m := NewGenerated(w, h, g)
				require.Equal(t, Point{1, 1}, m.StartPos)
				require.Equal(t, Point{w - 2, h - 2}, m.EndPos)
				require.True(t, reachable(m)[m.EndPos], "seed %d size %dx%d\n%s", seed, w, h, m)
			}
		}
	}
}

func TestGenerateStructure(t *testing.T) {
	m := NewGenerated(15, 11, NewSeededGenerator(42))

	t.Run("border stays walled", func(t *testing.T) {
		for x := 0; x < m.Width; x++ {
			assert.True(t, m.IsWall(Point{x, 0}))
			assert.True(t, m.IsWall(Point{x, m.Height - 1}))
		}
		for y := 0; y < m.Height; y++ {
			assert.True(t, m.IsWall(Point{0, y}))
			assert.True(t, m.IsWall(Point{m.Width - 1, y}))
		}
	})

	t.Run("every room is carved and connected", func(t *testing.T) {
		seen := reachable(m)
		for y := 1; y < m.Height-1; y += 2 {
			for x := 1; x < m.Width-1; x += 2 {
				assert.True(t, seen[Point{x, y}], "room (%d,%d)", x, y)
			}
		}
	})

	t.Run("single start and end", func(t *testing.T) {
		assert.Equal(t, 1, m.Count(Start))
		assert.Equal(t, 1, m.Count(End))
		assert.Equal(t, Start, m.Cell(Point{1, 1}))
		assert.Equal(t, End, m.Cell(Point{13, 9}))
	})
}

func TestGenerateSeeded(t *testing.T) {
	a := NewGenerated(21, 21, NewSeededGenerator(99))
	b := NewGenerated(21, 21, NewSeededGenerator(99))
	assert.Equal(t, a.Rows(), b.Rows())
}

func TestGenerateInPlace(t *testing.T) {
	m, err := Parse(sampleRows)
	require.NoError(t, err)
	m.Generate(NewSeededGenerator(3))

	assert.Equal(t, 10, m.Width)
	assert.Equal(t, 9, m.Height)
	assert.Equal(t, Point{8, 7}, m.EndPos)
	assert.True(t, reachable(m)[m.EndPos])
}

func TestGenerateInPlaceClampsSize(t *testing.T) {
	cases := []struct {
		width, height int
		wantW, wantH  int
	}{
		{3, 3, 5, 5},
		{4, 2, 5, 5},
		{0, 0, 5, 5},
		{40, 40, MaxDimension, MaxDimension},
		{7, 31, 7, MaxDimension},
	}
	for _, tc := range cases {
		m := New(tc.width, tc.height)
		m.Generate(NewSeededGenerator(11))

		assert.Equal(t, tc.wantW, m.Width, "%dx%d", tc.width, tc.height)
		assert.Equal(t, tc.wantH, m.Height, "%dx%d", tc.width, tc.height)
		assert.Len(t, m.Rows(), tc.wantH)
		assert.Equal(t, 1, m.Count(Start))
		assert.Equal(t, 1, m.Count(End))
		assert.Equal(t, Point{1, 1}, m.StartPos)
		assert.Equal(t, Point{tc.wantW - 2, tc.wantH - 2}, m.EndPos)
		assert.Equal(t, Start, m.Cell(m.StartPos))
		assert.Equal(t, End, m.Cell(m.EndPos))
		assert.True(t, reachable(m)[m.EndPos], "%dx%d", tc.width, tc.height)
	}
}

func TestGenerateClampsSize(t *testing.T) {
	g := NewGenerator(nil)
	small := NewGenerated(2, 3, g)
	assert.Equal(t, MinDimension, small.Width)
	assert.Equal(t, MinDimension, small.Height)

	big := NewGenerated(64, 31, g)
	assert.Equal(t, MaxDimension, big.Width)
	assert.Equal(t, MaxDimension, big.Height)
	assert.True(t, reachable(big)[big.EndPos])
}
