// Package robot animates an agent cell by cell along a grid path.
package robot

import (
	"fmt"

	"robot-maze-server/maze"
)

// DefaultMoveDuration is the time in seconds the robot takes to cross one cell.
const DefaultMoveDuration = 0.3

// State is the robot's motion state.
type State uint8

const (
	Idle State = iota
	Moving
	Paused
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	}
	return fmt.Sprintf("Unknown State: %d", uint8(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Vec2 is a continuous position in cell or pixel units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Robot walks from its grid position towards a single target cell at a time.
// The grid position only changes once a move completes; FloatPosition
// interpolates linearly in between.
type Robot struct {
	fx, fy       float64
	gridPos      maze.Point
	targetPos    maze.Point
	moveDuration float64
	stepDuration float64 // moveDuration captured by the current move
	elapsed      float64
	moving       bool
	state        State
	stepCount    int
}

// New returns an idle robot at (0,0).
func New() *Robot {
	return &Robot{moveDuration: DefaultMoveDuration, stepDuration: DefaultMoveDuration}
}

// SetPosition teleports the robot to p and cancels any move in progress.
// The motion state is left for the caller to decide.
func (r *Robot) SetPosition(p maze.Point) {
	r.gridPos = p
	r.targetPos = p
	r.fx, r.fy = float64(p.X), float64(p.Y)
	r.moving = false
}

// Reset places the robot on p, idle, with its step counter cleared.
func (r *Robot) Reset(p maze.Point) {
	r.SetPosition(p)
	r.elapsed = 0
	r.state = Idle
	r.stepCount = 0
}

// MoveTo starts a move towards next. Moving to the current cell does nothing.
func (r *Robot) MoveTo(next maze.Point) {
	if next == r.gridPos {
		return
	}
	r.targetPos = next
	r.elapsed = 0
	r.stepDuration = r.moveDuration
	r.moving = true
	r.state = Moving
	r.stepCount++
}

// Update advances the current move by dt seconds. It has no effect while
// paused or when no move is in progress.
func (r *Robot) Update(dt float64) {
	if r.state == Paused || !r.moving {
		return
	}

	r.elapsed += dt
	t := 1.0
	if r.stepDuration > 0 {
		t = r.elapsed / r.stepDuration
	}

	if t >= 1 {
		r.fx, r.fy = float64(r.targetPos.X), float64(r.targetPos.Y)
		r.gridPos = r.targetPos
		r.moving = false
		r.state = Idle
		return
	}

	sx, sy := float64(r.gridPos.X), float64(r.gridPos.Y)
	r.fx = sx + (float64(r.targetPos.X)-sx)*t
	r.fy = sy + (float64(r.targetPos.Y)-sy)*t
}

// Pause freezes the robot. Only an idle or moving robot can be paused.
func (r *Robot) Pause() {
	if r.state == Moving || r.state == Idle {
		r.state = Paused
	}
}

// Resume continues a paused robot, returning to Moving if a move was in flight.
func (r *Robot) Resume() {
	if r.state != Paused {
		return
	}
	if r.moving {
		r.state = Moving
	} else {
		r.state = Idle
	}
}

func (r *Robot) SetState(s State) { r.state = s }
func (r *Robot) State() State     { return r.state }
func (r *Robot) IsPaused() bool   { return r.state == Paused }
func (r *Robot) IsMoving() bool   { return r.moving }

// Position is the authoritative grid cell.
func (r *Robot) Position() maze.Point { return r.gridPos }

// Target is the cell the current move heads to, or the position when idle.
func (r *Robot) Target() maze.Point { return r.targetPos }

// Steps counts the moves started since the last Reset.
func (r *Robot) Steps() int { return r.stepCount }

// SetMoveDuration sets the seconds per cell. It applies from the next MoveTo.
func (r *Robot) SetMoveDuration(d float64) { r.moveDuration = d }

func (r *Robot) MoveDuration() float64 { return r.moveDuration }

// FloatPosition is the interpolated position in cell units.
func (r *Robot) FloatPosition() Vec2 {
	return Vec2{X: r.fx, Y: r.fy}
}

// PixelPosition scales FloatPosition by cellSize.
func (r *Robot) PixelPosition(cellSize float64) Vec2 {
	return Vec2{X: r.fx * cellSize, Y: r.fy * cellSize}
}
