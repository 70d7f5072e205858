/*
Package pathfinding finds shortest routes through a maze with A*.

Moves are 4-connected with unit cost and the default heuristic is the
Manhattan distance. The open set is a binary heap without decrease-key: a
cell is pushed again whenever a cheaper route to it is found and the older
entry is discarded when it reaches the top of the heap.
*/
package pathfinding

import (
	"container/heap"
	"log/slog"
	"slices"
	"time"

	"robot-maze-server/maze"
)

// epsilon is the tolerance under which two float costs are considered equal.
const epsilon = 1e-6

// stepCost is the cost of one orthogonal move.
const stepCost = 1.0

// neighborDirs lists the 4-way moves in expansion order.
var neighborDirs = [4]maze.Point{{X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 0}, {X: -1, Y: 0}}

// Stats describes the most recent FindPath run.
type Stats struct {
	Found    bool          `json:"found"`
	Length   int           `json:"length"`   // Points in the returned path
	Pushed   int           `json:"pushed"`   // Entries added to the open set
	Popped   int           `json:"popped"`   // Entries removed from the open set
	Stale    int           `json:"stale"`    // Popped entries discarded as outdated
	Explored int           `json:"explored"` // Cells expanded
	Duration time.Duration `json:"duration"`
}

// Option configures a PathFinder.
type Option func(*PathFinder)

// WithHeuristic replaces the Manhattan heuristic.
func WithHeuristic(h Heuristic) Option {
	return func(pf *PathFinder) {
		pf.heuristic = h
	}
}

// WithLogger sets the logger used for search diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(pf *PathFinder) {
		pf.logger = l
	}
}

// WithObserver registers a callback invoked with the stats of every search.
func WithObserver(fn func(Stats)) Option {
	return func(pf *PathFinder) {
		pf.observer = fn
	}
}

// PathFinder runs A* searches and remembers which cells the last search
// expanded. It is not safe for concurrent use.
type PathFinder struct {
	heuristic Heuristic
	explored  map[maze.Point]struct{}
	stats     Stats
	logger    *slog.Logger
	observer  func(Stats)
}

// NewPathFinder returns a PathFinder using the Manhattan heuristic.
func NewPathFinder(opts ...Option) *PathFinder {
	pf := &PathFinder{
		heuristic: Manhattan,
		explored:  make(map[maze.Point]struct{}),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(pf)
	}
	return pf
}

// FindPath returns the cells from the maze start to its end, both included.
// The result is empty when the maze is nil, start or end lies outside the
// grid, or the end cannot be reached. When start equals end the path is the
// single start cell.
func (pf *PathFinder) FindPath(m *maze.Maze) []maze.Point {
	pf.ClearExplored()
	pf.stats = Stats{}
	began := time.Now()
	defer func() {
		pf.stats.Explored = len(pf.explored)
		pf.stats.Duration = time.Since(began)
		if pf.observer != nil {
			pf.observer(pf.stats)
		}
	}()

	if m == nil || !m.IsValid(m.StartPos) || !m.IsValid(m.EndPos) {
		return nil
	}
	start, goal := m.StartPos, m.EndPos
	if start == goal {
		pf.stats.Found, pf.stats.Length = true, 1
		return []maze.Point{start}
	}

	gScore := make(map[maze.Point]float64, 1024)
	cameFrom := make(map[maze.Point]maze.Point, 1024)
	openSet := make(PriorityQueue, 0, 64)
	var seq uint64

	push := func(p maze.Point, f float64) {
		heap.Push(&openSet, &AStarNode{Pos: p, F: f, Seq: seq})
		seq++
		pf.stats.Pushed++
	}

	gScore[start] = 0
	push(start, pf.heuristic(start, goal))

	for openSet.Len() > 0 {
		top := heap.Pop(&openSet).(*AStarNode)
		pf.stats.Popped++
		current := top.Pos

		currentG, ok := gScore[current]
		if !ok {
			pf.stats.Stale++
			continue
		}
		// A cheaper route was found after this entry was queued.
		if top.F > currentG+pf.heuristic(current, goal)+epsilon {
			pf.stats.Stale++
			continue
		}

		pf.explored[current] = struct{}{}

		if current == goal {
			path := reconstructPath(cameFrom, current)
			pf.stats.Found, pf.stats.Length = true, len(path)
			pf.logger.Debug("path found", "start", start, "end", goal, "length", len(path), "explored", len(pf.explored))
			return path
		}

		for _, dir := range neighborDirs {
			neighbor := current.Add(dir)
			if !m.IsValid(neighbor) || m.IsWall(neighbor) {
				continue
			}

			tentativeG := currentG + stepCost
			if g, seen := gScore[neighbor]; !seen || tentativeG+epsilon < g {
				cameFrom[neighbor] = current
				gScore[neighbor] = tentativeG
				push(neighbor, tentativeG+pf.heuristic(neighbor, goal))
			}
		}
	}

	pf.logger.Debug("no path found", "start", start, "end", goal, "explored", len(pf.explored))
	return nil
}

// IsSolvable reports whether FindPath returns a non-empty path.
func (pf *PathFinder) IsSolvable(m *maze.Maze) bool {
	return len(pf.FindPath(m)) > 0
}

// ClearExplored forgets the explored set of the previous search.
func (pf *PathFinder) ClearExplored() {
	clear(pf.explored)
}

// Explored returns the cells expanded by the last search, sorted row-major.
func (pf *PathFinder) Explored() []maze.Point {
	out := make([]maze.Point, 0, len(pf.explored))
	for p := range pf.explored {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b maze.Point) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	return out
}

// IsExplored reports whether the last search expanded p.
func (pf *PathFinder) IsExplored(p maze.Point) bool {
	_, ok := pf.explored[p]
	return ok
}

// ExploredCount is the size of the explored set.
func (pf *PathFinder) ExploredCount() int {
	return len(pf.explored)
}

// LastStats returns counters from the most recent FindPath call.
func (pf *PathFinder) LastStats() Stats {
	return pf.stats
}

func reconstructPath(cameFrom map[maze.Point]maze.Point, goal maze.Point) []maze.Point {
	path := []maze.Point{goal}
	for p, ok := cameFrom[goal]; ok; p, ok = cameFrom[p] {
		path = append(path, p)
	}
	slices.Reverse(path)
	return path
}
