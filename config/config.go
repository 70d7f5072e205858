package config

import "time"

// Cell rendering size in pixels, used for robot pixel coordinates.
const (
	DefaultCellSize = 40.0
	MinCellSize     = 20.0
	MaxCellSize     = 80.0
	CellSizeStep    = 5.0 // Zoom in/out increment
)

// Robot speed in seconds per cell.
const (
	DefaultMoveDuration = 0.3
	MinMoveDuration     = 0.1
	MaxMoveDuration     = 1.0
)

// Generated maze size used when a request does not specify one.
const (
	DefaultMazeWidth  = 21
	DefaultMazeHeight = 21
)

// DefaultTickInterval is the simulation update interval (20 frames per second).
const DefaultTickInterval = 50 * time.Millisecond

// DefaultMaxSessions caps the number of live sessions when MAX_SESSIONS is
// unset.
const DefaultMaxSessions = 1000

// WebSocket keepalive settings.
const (
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingInterval   = (PongWait * 9) / 10
	MaxMessageSize = 4096
)

// Store backends selectable through STORE_BACKEND.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

// ClampCellSize bounds s to [MinCellSize, MaxCellSize].
func ClampCellSize(s float64) float64 {
	return max(MinCellSize, min(MaxCellSize, s))
}

// ClampMoveDuration bounds d to [MinMoveDuration, MaxMoveDuration].
func ClampMoveDuration(d float64) float64 {
	return max(MinMoveDuration, min(MaxMoveDuration, d))
}
