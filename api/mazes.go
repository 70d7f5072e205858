package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"robot-maze-server/config"
	"robot-maze-server/instance"
	"robot-maze-server/maze"
	"robot-maze-server/store"
)

const storeTimeout = 10 * time.Second

// MazeHandler serves stored layouts.
type MazeHandler struct {
	store  store.Store
	logger *slog.Logger
}

func NewMazeHandler(st store.Store, logger *slog.Logger) *MazeHandler {
	return &MazeHandler{store: st, logger: logger}
}

// Routes registers maze routes.
func (h *MazeHandler) Routes(r chi.Router) {
	r.Post("/mazes/generate", h.Generate)
	r.Get("/mazes", h.List)
	r.Get("/mazes/{name}", h.Get)
	r.Put("/mazes/{name}", h.Put)
	r.Delete("/mazes/{name}", h.Delete)
}

// List GET /mazes?page=1&page_size=20
func (h *MazeHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, instance.ErrNoStore)
		return
	}
	page := clamp(parseInt(r.URL.Query().Get("page"), 1), 1, 1000000)
	pageSize := clamp(parseInt(r.URL.Query().Get("page_size"), 20), 1, 100)
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	names, err := h.store.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	from := min((page-1)*pageSize, len(names))
	to := min(from+pageSize, len(names))
	writeJSON(w, http.StatusOK, apiListResponse[string]{
		Items:      append([]string{}, names[from:to]...),
		Page:       page,
		PageSize:   pageSize,
		TotalItems: int64(len(names)),
	})
}

// Get GET /mazes/{name}
func (h *MazeHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, instance.ErrNoStore)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	l, err := h.store.Load(ctx, chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// Put PUT /mazes/{name} stores the layout in the body under name. Width and
// height may be omitted and are then derived from the rows.
func (h *MazeHandler) Put(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, instance.ErrNoStore)
		return
	}
	var in maze.Layout
	if err := decodeJSON(w, r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	in.Name = chi.URLParam(r, "name")
	if in.Height == 0 {
		in.Height = len(in.Rows)
	}
	if in.Width == 0 && len(in.Rows) > 0 {
		in.Width = len(in.Rows[0])
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()
	if err := h.store.Save(ctx, &in); err != nil {
		writeError(w, err)
		return
	}
	h.logger.Info("layout saved", "name", in.Name, "width", in.Width, "height", in.Height)
	writeJSON(w, http.StatusOK, in)
}

// Delete DELETE /mazes/{name}
func (h *MazeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, instance.ErrNoStore)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	name := chi.URLParam(r, "name")
	if err := h.store.Delete(ctx, name); err != nil {
		writeError(w, err)
		return
	}
	h.logger.Info("layout deleted", "name", name)
	w.WriteHeader(http.StatusNoContent)
}

type generateRequest struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Seed   *int64 `json:"seed"`
	Save   bool   `json:"save"`
}

// Generate POST /mazes/generate carves a new maze and optionally stores it.
func (h *MazeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	in := generateRequest{Width: config.DefaultMazeWidth, Height: config.DefaultMazeHeight}
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &in); err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid json")
			return
		}
	}

	g := maze.NewGenerator(nil)
	if in.Seed != nil {
		g = maze.NewSeededGenerator(*in.Seed)
	}
	l := maze.NewGenerated(in.Width, in.Height, g).ToLayout(in.Name)

	if in.Save {
		if h.store == nil {
			writeError(w, instance.ErrNoStore)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
		defer cancel()
		if err := h.store.Save(ctx, l); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, l)
		return
	}
	writeJSON(w, http.StatusOK, l)
}
