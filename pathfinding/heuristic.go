package pathfinding

import "robot-maze-server/maze"

// Heuristic estimates the remaining cost from a cell to the goal. It must not
// overestimate for the staleness check in FindPath to stay correct.
type Heuristic func(current, goal maze.Point) float64

// Manhattan is |dx| + |dy|, admissible and consistent for unit-cost
// 4-connected moves.
func Manhattan(current, goal maze.Point) float64 {
	return float64(abs(current.X-goal.X) + abs(current.Y-goal.Y))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
