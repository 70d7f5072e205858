/*
Package instance drives a robot through a maze over simulated time.

An InstanceState owns one maze, the path finder working on it, the computed
route and the robot following that route. Every operation that replaces or
edits the maze recomputes the route and puts the robot back on the start cell
before returning, so no caller ever observes a route that belongs to an older
grid. A Manager keeps many instances and advances them on a fixed tick.
*/
package instance

import (
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"robot-maze-server/config"
	"robot-maze-server/logging"
	"robot-maze-server/maze"
	"robot-maze-server/pathfinding"
	"robot-maze-server/robot"
)

// ErrNoLayout is returned by LoadMaze for a nil layout.
var ErrNoLayout = errors.New("no layout given")

// Option configures an InstanceState.
type Option func(*InstanceState)

// WithLogger sets the instance logger.
func WithLogger(l *slog.Logger) Option {
	return func(is *InstanceState) {
		is.logger = l
	}
}

// WithRand sets the random source used for maze generation.
func WithRand(rng *rand.Rand) Option {
	return func(is *InstanceState) {
		is.generator = maze.NewGenerator(rng)
	}
}

// WithPathFinderOptions configures the instance's path finder.
func WithPathFinderOptions(opts ...pathfinding.Option) Option {
	return func(is *InstanceState) {
		is.finderOpts = append(is.finderOpts, opts...)
	}
}

// WithStateHook registers fn to be called whenever the game state changes.
// It runs with the instance lock held and must not call back into the
// instance.
func WithStateHook(fn func(from, to GameState)) Option {
	return func(is *InstanceState) {
		is.onStateChange = fn
	}
}

// InstanceState is one simulation: a maze, its solution and the robot
// walking it. All exported methods are safe for concurrent use.
type InstanceState struct {
	Mu sync.RWMutex // Guards every field below

	ID        uuid.UUID
	CreatedAt time.Time

	name      string
	maze      *maze.Maze
	robot     *robot.Robot
	finder    *pathfinding.PathFinder
	generator *maze.Generator
	path      []maze.Point
	pathIndex int // Next waypoint the robot will move to
	state     GameState
	running   bool
	cellSize  float64

	finderOpts    []pathfinding.Option
	onStateChange func(from, to GameState)
	logger        *slog.Logger
}

// NewInstanceState creates an instance holding the built-in level with its
// path already computed.
func NewInstanceState(opts ...Option) *InstanceState {
	is := &InstanceState{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		robot:     robot.New(),
		cellSize:  config.DefaultCellSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(is)
	}
	if is.generator == nil {
		is.generator = maze.NewGenerator(nil)
	}
	is.logger = logging.OrDefault(is.logger).With("session", is.ID.String())
	is.finder = pathfinding.NewPathFinder(append([]pathfinding.Option{pathfinding.WithLogger(is.logger)}, is.finderOpts...)...)
	is.robot.SetMoveDuration(config.DefaultMoveDuration)

	is.LoadLevel()
	return is
}

// LoadLevel replaces the maze with DefaultLevel.
func (is *InstanceState) LoadLevel() {
	m, _ := maze.Parse(DefaultLevel)

	is.Mu.Lock()
	defer is.Mu.Unlock()
	is.replaceMaze(DefaultLevelName, m)
}

// LoadLayout replaces the maze with the given rows. The instance is left
// untouched when the rows do not form a valid maze.
func (is *InstanceState) LoadLayout(name string, rows []string) error {
	m, err := maze.Parse(rows)
	if err != nil {
		return err
	}

	is.Mu.Lock()
	defer is.Mu.Unlock()
	is.replaceMaze(name, m)
	return nil
}

// LoadMaze replaces the maze with a stored layout.
func (is *InstanceState) LoadMaze(l *maze.Layout) error {
	if l == nil {
		return ErrNoLayout
	}
	m, err := l.Maze()
	if err != nil {
		return err
	}

	is.Mu.Lock()
	defer is.Mu.Unlock()
	is.replaceMaze(l.Name, m)
	return nil
}

// Generate replaces the maze with a freshly carved one. Dimensions are
// clamped to [maze.MinDimension, maze.MaxDimension].
func (is *InstanceState) Generate(width, height int) {
	is.Mu.Lock()
	defer is.Mu.Unlock()

	m := maze.NewGenerated(width, height, is.generator)
	is.replaceMaze(is.name, m)
	is.logger.Info("generated maze", "width", m.Width, "height", m.Height)
}

// Resize changes the maze size in place, keeping the overlapping cells.
func (is *InstanceState) Resize(width, height int) {
	is.Mu.Lock()
	defer is.Mu.Unlock()

	is.maze.Resize(width, height)
	is.resetRun()
	is.logger.Info("resized maze", "width", is.maze.Width, "height", is.maze.Height)
}

// SetCell edits one cell and recomputes the route. Out-of-bounds edits are
// ignored and leave the run untouched.
func (is *InstanceState) SetCell(x, y int, t maze.CellType) {
	is.Mu.Lock()
	defer is.Mu.Unlock()

	if !is.maze.IsValid(maze.Point{X: x, Y: y}) {
		return
	}
	is.maze.SetCell(x, y, t)
	is.resetRun()
}

// ComputePath searches the current maze again and restarts the run from the
// start cell without changing whether the simulation is running.
func (is *InstanceState) ComputePath() {
	is.Mu.Lock()
	defer is.Mu.Unlock()
	is.computePath()
}

// ToggleRunPause pauses a running simulation or starts a stopped one.
func (is *InstanceState) ToggleRunPause() {
	is.Mu.Lock()
	defer is.Mu.Unlock()

	if is.running {
		is.pause()
	} else {
		is.run()
	}
}

// Run starts or resumes the simulation. A finished run restarts from the
// start cell.
func (is *InstanceState) Run() {
	is.Mu.Lock()
	defer is.Mu.Unlock()
	if !is.running {
		is.run()
	}
}

// Pause stops the simulation, freezing the robot mid-move if needed.
func (is *InstanceState) Pause() {
	is.Mu.Lock()
	defer is.Mu.Unlock()
	if is.running {
		is.pause()
	}
}

// TestSolvable reports whether the current maze has a route from start to
// end. It refreshes the explored set but not the route being followed.
func (is *InstanceState) TestSolvable() bool {
	is.Mu.Lock()
	defer is.Mu.Unlock()

	solvable := is.finder.IsSolvable(is.maze)
	is.logger.Debug("solvability checked", "solvable", solvable)
	return solvable
}

// Update advances the simulation by dt seconds.
func (is *InstanceState) Update(dt float64) {
	is.Mu.Lock()
	defer is.Mu.Unlock()

	if is.running && is.state == Solving && !is.robot.IsMoving() && is.pathIndex < len(is.path) {
		is.robot.MoveTo(is.path[is.pathIndex])
		is.pathIndex++
	}

	is.robot.Update(dt)

	if is.state == Solving && is.robot.Position() == is.maze.EndPos {
		is.setState(Complete)
		is.robot.SetState(robot.Completed)
		is.running = false
		is.logger.Info("target reached", "steps", is.robot.Steps())
	}
}

// SetMoveDuration sets the robot speed in seconds per cell, clamped to
// [config.MinMoveDuration, config.MaxMoveDuration].
func (is *InstanceState) SetMoveDuration(d float64) {
	is.Mu.Lock()
	defer is.Mu.Unlock()
	is.robot.SetMoveDuration(config.ClampMoveDuration(d))
}

// SetCellSize sets the pixel size used for robot pixel coordinates.
func (is *InstanceState) SetCellSize(s float64) {
	is.Mu.Lock()
	defer is.Mu.Unlock()
	is.cellSize = config.ClampCellSize(s)
}

// ZoomIn grows the cell size by one step.
func (is *InstanceState) ZoomIn() {
	is.Mu.Lock()
	defer is.Mu.Unlock()
	is.cellSize = config.ClampCellSize(is.cellSize + config.CellSizeStep)
}

// ZoomOut shrinks the cell size by one step.
func (is *InstanceState) ZoomOut() {
	is.Mu.Lock()
	defer is.Mu.Unlock()
	is.cellSize = config.ClampCellSize(is.cellSize - config.CellSizeStep)
}

// SetName renames the maze. A blank name becomes maze.DefaultName.
func (is *InstanceState) SetName(name string) {
	is.Mu.Lock()
	defer is.Mu.Unlock()
	is.name = normalizeName(name)
}

func (is *InstanceState) Name() string {
	is.Mu.RLock()
	defer is.Mu.RUnlock()
	return is.name
}

func (is *InstanceState) State() GameState {
	is.Mu.RLock()
	defer is.Mu.RUnlock()
	return is.state
}

func (is *InstanceState) Running() bool {
	is.Mu.RLock()
	defer is.Mu.RUnlock()
	return is.running
}

// Path returns a copy of the current route.
func (is *InstanceState) Path() []maze.Point {
	is.Mu.RLock()
	defer is.Mu.RUnlock()
	return append([]maze.Point(nil), is.path...)
}

// RobotPosition returns the robot's grid cell.
func (is *InstanceState) RobotPosition() maze.Point {
	is.Mu.RLock()
	defer is.Mu.RUnlock()
	return is.robot.Position()
}

// Maze returns a copy of the current maze.
func (is *InstanceState) Maze() *maze.Maze {
	is.Mu.RLock()
	defer is.Mu.RUnlock()
	return is.maze.Clone()
}

// ToLayout returns the maze as a persistable record under the current name.
func (is *InstanceState) ToLayout() *maze.Layout {
	is.Mu.RLock()
	defer is.Mu.RUnlock()
	return is.maze.ToLayout(is.name)
}

// replaceMaze swaps in a new grid and discards everything derived from the
// old one. Callers hold the write lock.
func (is *InstanceState) replaceMaze(name string, m *maze.Maze) {
	is.maze = m
	is.name = normalizeName(name)
	is.resetRun()
}

// resetRun stops the simulation, puts the robot on the start cell and
// recomputes the route.
func (is *InstanceState) resetRun() {
	is.robot.Reset(is.maze.StartPos)
	is.running = false
	is.setState(Idle)
	is.computePath()
}

func (is *InstanceState) computePath() {
	is.path = is.finder.FindPath(is.maze)
	if len(is.path) == 0 {
		is.setState(Failed)
		is.logger.Info("no path found", "start", is.maze.StartPos, "end", is.maze.EndPos)
		return
	}

	is.setState(Solving)
	is.pathIndex = 0
	if is.path[0] == is.maze.StartPos {
		is.pathIndex = 1
	}
	is.robot.SetPosition(is.maze.StartPos)
}

func (is *InstanceState) run() {
	switch is.state {
	case Complete:
		is.robot.Reset(is.maze.StartPos)
		is.pathIndex = 1
		is.setState(Solving)
	case Failed:
		// Nothing to follow until the maze changes.
		return
	}
	is.robot.Resume()
	is.running = true
}

func (is *InstanceState) pause() {
	is.robot.Pause()
	is.running = false
}

func (is *InstanceState) setState(s GameState) {
	if s == is.state {
		return
	}
	from := is.state
	is.state = s
	if is.onStateChange != nil {
		is.onStateChange(from, s)
	}
}

func normalizeName(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return maze.DefaultName
	}
	return name
}
