package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"robot-maze-server/instance"
	"robot-maze-server/maze"
	"robot-maze-server/store"
)

type apiError struct {
	Error string `json:"error"`
}

type apiListResponse[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg})
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	errorJSON(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, instance.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidName),
		errors.Is(err, maze.ErrEmptyLayout),
		errors.Is(err, maze.ErrRaggedLayout),
		errors.Is(err, maze.ErrInvalidDimension),
		errors.Is(err, maze.ErrUnknownCellType),
		errors.Is(err, instance.ErrUnknownCommand),
		errors.Is(err, instance.ErrNoLayout):
		return http.StatusBadRequest
	case errors.Is(err, instance.ErrNoStore), errors.Is(err, instance.ErrTooManySessions):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func parseInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
