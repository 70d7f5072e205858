package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"robot-maze-server/config"
	"robot-maze-server/instance"
	"robot-maze-server/logging"
	"robot-maze-server/metrics"
	"robot-maze-server/store"
)

// maxBodyBytes caps request bodies; a 30x30 layout is well under 2 KiB.
const maxBodyBytes = 1 << 20

// Deps are the components served by the router.
type Deps struct {
	Manager   *instance.Manager
	Store     store.Store // may be nil
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	WebSocket http.Handler // mounted on /ws when set
	Conns     func() int   // open WebSocket connections, for /stats
}

// NewRouter builds the HTTP router with middlewares and routes.
func NewRouter(cfg config.Config, deps Deps) chi.Router {
	logger := logging.OrDefault(deps.Logger)
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(deps.Metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", deps.Metrics.Handler())
	if deps.WebSocket != nil {
		r.Handle("/ws", deps.WebSocket)
	}

	mh := NewMazeHandler(deps.Store, logger)
	sh := NewSessionHandler(deps.Manager, deps.Store, logger)
	st := NewStatsHandler(deps.Manager, deps.Conns)
	solve := NewSolveHandler(deps.Metrics)

	r.Route("/api/v1", func(sub chi.Router) {
		sub.Use(middleware.Timeout(writeTimeout(cfg)))
		mh.Routes(sub)
		sh.Routes(sub)
		st.Routes(sub)
		solve.Routes(sub)
	})

	return r
}

func writeTimeout(cfg config.Config) time.Duration {
	if cfg.WriteTimeout > 0 {
		return cfg.WriteTimeout
	}
	return 15 * time.Second
}
