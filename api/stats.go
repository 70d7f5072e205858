package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"robot-maze-server/config"
	"robot-maze-server/instance"
)

// HealthStatus represents the overall health of the server.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthDegraded HealthStatus = "degraded"
	HealthDown     HealthStatus = "down"
)

// SessionStats counts live sessions.
type SessionStats struct {
	Total   int            `json:"total"`
	Running int            `json:"running"`
	ByState map[string]int `json:"by_state"`
}

// WorkloadStats tracks the current load against the session capacity.
type WorkloadStats struct {
	LoadPercentage float64 `json:"load_percentage"`
	MaxSessions    int     `json:"max_sessions"`
	CurrentLoad    string  `json:"current_load"` // "low", "medium", "high", "critical"
}

// WebSocketStats holds WebSocket connection counts.
type WebSocketStats struct {
	ActiveConnections int `json:"active_connections"`
}

// StatsResponse is the complete /stats payload.
type StatsResponse struct {
	Timestamp         time.Time      `json:"timestamp"`
	Health            HealthStatus   `json:"health"`
	HealthDescription string         `json:"health_description"`
	Sessions          SessionStats   `json:"sessions"`
	WebSocket         WebSocketStats `json:"websocket"`
	Workload          WorkloadStats  `json:"workload"`
	ServerUptime      int64          `json:"server_uptime_sec"`
}

// StatsHandler reports session and connection state as JSON.
type StatsHandler struct {
	manager   *instance.Manager
	conns     func() int
	startTime time.Time

	maxSessions int
}

func NewStatsHandler(m *instance.Manager, conns func() int) *StatsHandler {
	h := &StatsHandler{
		manager:     m,
		conns:       conns,
		startTime:   time.Now(),
		maxSessions: config.DefaultMaxSessions,
	}
	// An uncapped manager is measured against the default capacity.
	if m != nil && m.MaxSessions() > 0 {
		h.maxSessions = m.MaxSessions()
	}
	return h
}

// Routes registers stats routes.
func (h *StatsHandler) Routes(r chi.Router) {
	r.Get("/stats", h.GetStats)
	r.Get("/stats/health", h.GetHealth)
}

// GetStats GET /stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.collect())
}

// GetHealth GET /stats/health returns only the health summary.
func (h *StatsHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	s := h.collect()
	writeJSON(w, http.StatusOK, map[string]any{
		"timestamp":   s.Timestamp,
		"health":      s.Health,
		"description": s.HealthDescription,
		"uptime_sec":  s.ServerUptime,
	})
}

func (h *StatsHandler) collect() *StatsResponse {
	sessions := h.collectSessions()
	ws := WebSocketStats{}
	if h.conns != nil {
		ws.ActiveConnections = h.conns()
	}
	workload := h.workload(sessions)
	health, desc := h.determineHealth(workload, ws)

	return &StatsResponse{
		Timestamp:         time.Now(),
		Health:            health,
		HealthDescription: desc,
		Sessions:          sessions,
		WebSocket:         ws,
		Workload:          workload,
		ServerUptime:      int64(time.Since(h.startTime).Seconds()),
	}
}

func (h *StatsHandler) collectSessions() SessionStats {
	stats := SessionStats{ByState: map[string]int{}}
	if h.manager == nil {
		return stats
	}
	for _, is := range h.manager.List() {
		stats.Total++
		stats.ByState[is.State().String()]++
		if is.Running() {
			stats.Running++
		}
	}
	return stats
}

func (h *StatsHandler) workload(s SessionStats) WorkloadStats {
	w := WorkloadStats{MaxSessions: h.maxSessions}
	w.LoadPercentage = float64(s.Total) / float64(h.maxSessions) * 100

	switch {
	case w.LoadPercentage < 40:
		w.CurrentLoad = "low"
	case w.LoadPercentage < 70:
		w.CurrentLoad = "medium"
	case w.LoadPercentage < 90:
		w.CurrentLoad = "high"
	default:
		w.CurrentLoad = "critical"
	}
	return w
}

func (h *StatsHandler) determineHealth(w WorkloadStats, ws WebSocketStats) (HealthStatus, string) {
	switch w.CurrentLoad {
	case "critical":
		return HealthDown, "session count at critical levels (>90%)"
	case "high":
		return HealthDegraded, "session count is high (70-90%)"
	case "medium":
		return HealthWarning, "session count approaching capacity"
	}
	if ws.ActiveConnections > 0 {
		noun := "connection"
		if ws.ActiveConnections > 1 {
			noun = "connections"
		}
		return HealthHealthy, fmt.Sprintf("all systems operational - %d active %s", ws.ActiveConnections, noun)
	}
	return HealthHealthy, "server ready - awaiting connections"
}
