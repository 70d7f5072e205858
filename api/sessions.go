package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"robot-maze-server/instance"
	"robot-maze-server/store"
)

// SessionHandler exposes the simulation sessions.
type SessionHandler struct {
	manager *instance.Manager
	store   store.Store
	logger  *slog.Logger
}

func NewSessionHandler(m *instance.Manager, st store.Store, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{manager: m, store: st, logger: logger}
}

// Routes registers session routes.
func (h *SessionHandler) Routes(r chi.Router) {
	r.Post("/sessions", h.Create)
	r.Get("/sessions", h.List)
	r.Get("/sessions/{id}", h.Get)
	r.Delete("/sessions/{id}", h.Delete)
	r.Get("/sessions/{id}/layout", h.Layout)
	r.Post("/sessions/{id}/commands", h.Command)
}

// layoutStore returns the store as the narrower interface, keeping a nil
// store a nil interface.
func (h *SessionHandler) layoutStore() instance.LayoutStore {
	if h.store == nil {
		return nil
	}
	return h.store
}

type createSessionRequest struct {
	Name   string   `json:"name"`   // stored layout to load
	Layout []string `json:"layout"` // inline layout
	Width  int      `json:"width"`  // generate when both are set
	Height int      `json:"height"`
	Run    bool     `json:"run"`
}

// Create POST /sessions. With an empty body the session starts on the
// built-in level.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in createSessionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &in); err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid json")
			return
		}
	}

	var cmd *instance.Command
	switch {
	case len(in.Layout) > 0:
		cmd = &instance.Command{Type: instance.CmdLoadLayout, Name: in.Name, Layout: in.Layout}
	case in.Name != "":
		cmd = &instance.Command{Type: instance.CmdLoad, Name: in.Name}
	case in.Width > 0 && in.Height > 0:
		cmd = &instance.Command{Type: instance.CmdGenerate, Width: in.Width, Height: in.Height}
	}

	is, err := h.manager.Create()
	if err != nil {
		writeError(w, err)
		return
	}
	if cmd != nil {
		ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
		defer cancel()
		if _, err := is.Apply(ctx, *cmd, h.layoutStore()); err != nil {
			_ = h.manager.Delete(is.ID)
			writeError(w, err)
			return
		}
	}
	if in.Run {
		is.Run()
	}
	writeJSON(w, http.StatusCreated, is.Snapshot())
}

// List GET /sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions := h.manager.List()
	items := make([]instance.Snapshot, len(sessions))
	for i, is := range sessions {
		items[i] = is.Snapshot()
	}
	writeJSON(w, http.StatusOK, apiListResponse[instance.Snapshot]{
		Items:      items,
		Page:       1,
		PageSize:   len(items),
		TotalItems: int64(len(items)),
	})
}

// Get GET /sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	is, err := h.manager.GetString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, is.Snapshot())
}

// Layout GET /sessions/{id}/layout returns the maze in the stored format.
func (h *SessionHandler) Layout(w http.ResponseWriter, r *http.Request) {
	is, err := h.manager.GetString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, is.ToLayout())
}

// Delete DELETE /sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	is, err := h.manager.GetString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.manager.Delete(is.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type commandResponse struct {
	Result   instance.Result   `json:"result"`
	Snapshot instance.Snapshot `json:"snapshot"`
}

// Command POST /sessions/{id}/commands
func (h *SessionHandler) Command(w http.ResponseWriter, r *http.Request) {
	is, err := h.manager.GetString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var cmd instance.Command
	if err := decodeJSON(w, r, &cmd); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()
	res, err := is.Apply(ctx, cmd, h.layoutStore())
	if err != nil {
		h.logger.Debug("command rejected", "session", is.ID.String(), "type", cmd.Type, "err", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{Result: res, Snapshot: is.Snapshot()})
}
