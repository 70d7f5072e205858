package instance

import (
	"robot-maze-server/maze"
	"robot-maze-server/robot"
)

// RobotView is the robot part of a Snapshot.
type RobotView struct {
	Position maze.Point  `json:"position"`
	Target   maze.Point  `json:"target"`
	Float    robot.Vec2  `json:"float"` // Interpolated position in cells
	Pixel    robot.Vec2  `json:"pixel"` // Float scaled by the cell size
	State    robot.State `json:"state"`
	Steps    int         `json:"steps"`
	Moving   bool        `json:"moving"`
}

// Snapshot is a read-only copy of an instance for transports.
type Snapshot struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Width        int          `json:"width"`
	Height       int          `json:"height"`
	Rows         []string     `json:"layout"`
	Start        maze.Point   `json:"start"`
	End          maze.Point   `json:"end"`
	Path         []maze.Point `json:"path"`
	PathIndex    int          `json:"path_index"`
	Explored     []maze.Point `json:"explored"`
	State        GameState    `json:"state"`
	Running      bool         `json:"running"`
	CellSize     float64      `json:"cell_size"`
	MoveDuration float64      `json:"move_duration"`
	Robot        RobotView    `json:"robot"`
}

// Snapshot copies the current state.
func (is *InstanceState) Snapshot() Snapshot {
	is.Mu.RLock()
	defer is.Mu.RUnlock()

	path := make([]maze.Point, len(is.path))
	copy(path, is.path)

	return Snapshot{
		ID:           is.ID.String(),
		Name:         is.name,
		Width:        is.maze.Width,
		Height:       is.maze.Height,
		Rows:         is.maze.Rows(),
		Start:        is.maze.StartPos,
		End:          is.maze.EndPos,
		Path:         path,
		PathIndex:    is.pathIndex,
		Explored:     is.finder.Explored(),
		State:        is.state,
		Running:      is.running,
		CellSize:     is.cellSize,
		MoveDuration: is.robot.MoveDuration(),
		Robot: RobotView{
			Position: is.robot.Position(),
			Target:   is.robot.Target(),
			Float:    is.robot.FloatPosition(),
			Pixel:    is.robot.PixelPosition(is.cellSize),
			State:    is.robot.State(),
			Steps:    is.robot.Steps(),
			Moving:   is.robot.IsMoving(),
		},
	}
}
