package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robot-maze-server/pathfinding"
)

func TestObserveSearch(t *testing.T) {
	m := New()
	m.ObserveSearch(pathfinding.Stats{Found: true, Explored: 30, Stale: 2, Duration: time.Millisecond})
	m.ObserveSearch(pathfinding.Stats{Found: false, Explored: 6})
	m.ObserveSearch(pathfinding.Stats{Found: true, Explored: 12, Stale: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Searches.WithLabelValues("found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues("not_found")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.StaleEntries))
}

func TestGauges(t *testing.T) {
	m := New()
	m.SetSessions(4)
	m.ConnOpened()
	m.ConnOpened()
	m.ConnClosed()
	m.RunFinished("complete")

	assert.Equal(t, 4.0, testutil.ToFloat64(m.Sessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WSConnections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("complete")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSearch(pathfinding.Stats{Found: true})
		m.SetSessions(1)
		m.ConnOpened()
		m.ConnClosed()
		m.RunFinished("failed")
	})

	called := false
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/mazes/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	for _, name := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mazes/"+name, nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/mazes/{name}", "418")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "robot_maze_http_requests_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
