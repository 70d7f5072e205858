package instance

import "fmt"

// DefaultLevelName names the built-in level loaded by LoadLevel.
const DefaultLevelName = "Level 1"

// DefaultLevel is the built-in 10x9 level.
var DefaultLevel = []string{
	"##########",
	"#S...#...#",
	"###.####.#",
	"#...#....#",
	"#.###.##.#",
	"#.#....#.#",
	"#.####.#.#",
	"#......#E#",
	"##########",
}

// GameState is the progress of a simulation run.
type GameState uint8

const (
	Idle     GameState = iota // No path computed yet
	Solving                   // A path exists and the robot follows it
	Complete                  // The robot reached the end cell
	Failed                    // The end cell is unreachable
)

func (s GameState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Solving:
		return "solving"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Unknown GameState: %d", uint8(s))
}

// MarshalText encodes the state by name.
func (s GameState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
