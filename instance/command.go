package instance

import (
	"context"
	"errors"
	"fmt"

	"robot-maze-server/maze"
)

// Command types accepted by Apply.
const (
	CmdRun          = "run"
	CmdPause        = "pause"
	CmdToggle       = "toggle"
	CmdComputePath  = "compute_path"
	CmdTestSolvable = "test_solvable"
	CmdGenerate     = "generate"
	CmdResize       = "resize"
	CmdSetCell      = "set_cell"
	CmdLoadLevel    = "load_level"
	CmdLoadLayout   = "load_layout"
	CmdLoad         = "load"
	CmdSave         = "save"
	CmdRename       = "rename"
	CmdSpeed        = "speed"
	CmdCellSize     = "cell_size"
	CmdZoomIn       = "zoom_in"
	CmdZoomOut      = "zoom_out"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoStore        = errors.New("no layout store configured")
)

// LayoutStore is the persistence needed by the load and save commands.
type LayoutStore interface {
	Save(ctx context.Context, l *maze.Layout) error
	Load(ctx context.Context, name string) (*maze.Layout, error)
}

// Command is a client request against one instance. Only the fields used by
// Type need to be set.
type Command struct {
	Type     string   `json:"type"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	X        int      `json:"x,omitempty"`
	Y        int      `json:"y,omitempty"`
	Cell     string   `json:"cell,omitempty"` // empty, wall, start, end
	Name     string   `json:"name,omitempty"`
	Layout   []string `json:"layout,omitempty"`
	Duration float64  `json:"duration,omitempty"` // Seconds per cell
	Size     float64  `json:"size,omitempty"`     // Cell size in pixels
}

// Result reports the outcome of a command.
type Result struct {
	Type     string `json:"type"`
	Solvable *bool  `json:"solvable,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Apply executes cmd. st may be nil when no store is available, in which case
// load and save fail with ErrNoStore.
func (is *InstanceState) Apply(ctx context.Context, cmd Command, st LayoutStore) (Result, error) {
	res := Result{Type: cmd.Type}

	switch cmd.Type {
	case CmdRun:
		is.Run()
	case CmdPause:
		is.Pause()
	case CmdToggle:
		is.ToggleRunPause()
	case CmdComputePath:
		is.ComputePath()
	case CmdTestSolvable:
		ok := is.TestSolvable()
		res.Solvable = &ok
	case CmdGenerate:
		is.Generate(cmd.Width, cmd.Height)
	case CmdResize:
		is.Resize(cmd.Width, cmd.Height)
	case CmdSetCell:
		t, err := maze.ParseCellType(cmd.Cell)
		if err != nil {
			return res, err
		}
		is.SetCell(cmd.X, cmd.Y, t)
	case CmdLoadLevel:
		is.LoadLevel()
	case CmdLoadLayout:
		if err := is.LoadLayout(cmd.Name, cmd.Layout); err != nil {
			return res, err
		}
	case CmdLoad:
		if st == nil {
			return res, ErrNoStore
		}
		l, err := st.Load(ctx, cmd.Name)
		if err != nil {
			return res, fmt.Errorf("load %q: %w", cmd.Name, err)
		}
		if err := is.LoadMaze(l); err != nil {
			return res, err
		}
		res.Name = l.Name
	case CmdSave:
		if st == nil {
			return res, ErrNoStore
		}
		if cmd.Name != "" {
			is.SetName(cmd.Name)
		}
		l := is.ToLayout()
		if err := st.Save(ctx, l); err != nil {
			return res, fmt.Errorf("save %q: %w", l.Name, err)
		}
		res.Name = l.Name
	case CmdRename:
		is.SetName(cmd.Name)
		res.Name = is.Name()
	case CmdSpeed:
		is.SetMoveDuration(cmd.Duration)
	case CmdCellSize:
		is.SetCellSize(cmd.Size)
	case CmdZoomIn:
		is.ZoomIn()
	case CmdZoomOut:
		is.ZoomOut()
	default:
		return res, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	return res, nil
}
