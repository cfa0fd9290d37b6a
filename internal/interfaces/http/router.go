package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/rmgweb/internal/interfaces/http/handlers"
	"github.com/turtacn/rmgweb/internal/interfaces/http/middleware"
	"github.com/turtacn/rmgweb/internal/interfaces/http/routes"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil handlers leave their routes unregistered.
type RouterConfig struct {
	// Handlers
	HomeHandler      *handlers.HomeHandler
	StructureHandler *handlers.StructureHandler
	HealthHandler    *handlers.HealthHandler

	// Routes maps route names to paths.  Defaults to routes.NewDefaultTable().
	Routes *routes.Table

	// Middleware
	RateLimiter     middleware.RateLimiter
	RateLimitConfig middleware.RateLimitConfig
	LoggingConfig   middleware.LoggingConfig

	// Infrastructure
	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
}

// NewRouter constructs the complete HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.Routes == nil {
		cfg.Routes = routes.NewDefaultTable()
	}

	r := chi.NewRouter()

	// --- Global middleware (applied to every request) ---
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.LoggingConfig))
	r.Use(middleware.Metrics(cfg.Metrics))
	if cfg.RateLimiter != nil {
		r.Use(middleware.RateLimit(cfg.RateLimiter, cfg.RateLimitConfig))
	}

	// --- Probes and metrics ---
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	// --- Site pages ---
	registerPageRoutes(r, cfg.Routes, cfg.HomeHandler, cfg.StructureHandler)

	return r
}

// registerPageRoutes mounts every named route that has a handler.
func registerPageRoutes(r chi.Router, table *routes.Table, home *handlers.HomeHandler, st *handlers.StructureHandler) {
	byName := map[string]http.HandlerFunc{}
	if home != nil {
		byName[routes.Home] = home.Home
		byName[routes.DatabaseIndex] = home.DatabaseIndex
	}
	if st != nil {
		byName[routes.MoleculeEntry] = st.MoleculeInfo
		byName[routes.GroupEntry] = st.GroupInfo
		byName[routes.DrawMolecule] = st.DrawMolecule
		byName[routes.DrawGroup] = st.DrawGroup
	}

	for _, route := range table.Routes() {
		h, ok := byName[route.Name]
		if !ok {
			continue
		}
		r.Get(route.MountPattern(), h)
	}
}

//Personal.AI order the ending
