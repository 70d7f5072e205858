package pathfinding

import "robot-maze-server/maze"

// AStarNode is one open-set entry. The same cell may be queued several times
// with different scores; outdated entries are dropped when popped.
type AStarNode struct {
	Pos   maze.Point // Cell this entry refers to
	F     float64    // Estimated total cost (g + h) at push time
	Seq   uint64     // Push order, breaks ties between equal F
	Index int        // Index in the priority queue (required by container/heap)
}

// PriorityQueue implements heap.Interface for AStarNode to manage the open set.
type PriorityQueue []*AStarNode

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	// Lower F-score means higher priority (min-heap), earlier push wins ties.
	if pq[i].F != pq[j].F {
		return pq[i].F < pq[j].F
	}
	return pq[i].Seq < pq[j].Seq
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *PriorityQueue) Push(x any) {
	n := len(*pq)
	node := x.(*AStarNode)
	node.Index = n
	*pq = append(*pq, node)
}

func (pq *PriorityQueue) Pop() any {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil  // Avoid memory leaks
	node.Index = -1 // Mark as removed
	*pq = old[0 : n-1]
	return node
}
