package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"robot-maze-server/maze"
	"robot-maze-server/metrics"
	"robot-maze-server/pathfinding"
)

// SolveHandler runs one-off searches on layouts sent by the client.
type SolveHandler struct {
	metrics *metrics.Metrics
}

func NewSolveHandler(m *metrics.Metrics) *SolveHandler {
	return &SolveHandler{metrics: m}
}

// Routes registers solve routes.
func (h *SolveHandler) Routes(r chi.Router) {
	r.Post("/solve", h.Solve)
}

type solveRequest struct {
	Layout []string `json:"layout"`
}

type solveResponse struct {
	Solvable bool              `json:"solvable"`
	Steps    int               `json:"steps"`
	Path     []maze.Point      `json:"path"`
	Explored []maze.Point      `json:"explored"`
	Stats    pathfinding.Stats `json:"stats"`
}

// Solve POST /solve
func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	var in solveRequest
	if err := decodeJSON(w, r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	m, err := maze.Parse(in.Layout)
	if err != nil {
		writeError(w, err)
		return
	}

	pf := pathfinding.NewPathFinder(pathfinding.WithObserver(h.metrics.ObserveSearch))
	path := pf.FindPath(m)
	resp := solveResponse{
		Solvable: len(path) > 0,
		Steps:    max(len(path)-1, 0),
		Path:     path,
		Explored: pf.Explored(),
		Stats:    pf.LastStats(),
	}
	if resp.Path == nil {
		resp.Path = []maze.Point{}
	}
	writeJSON(w, http.StatusOK, resp)
}
