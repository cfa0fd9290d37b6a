// Package app assembles the site from its configuration.  Both binaries build
// their dependencies through it.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/turtacn/rmgweb/internal/application/depiction"
	"github.com/turtacn/rmgweb/internal/application/structure"
	"github.com/turtacn/rmgweb/internal/config"
	domain "github.com/turtacn/rmgweb/internal/domain/structure"
	"github.com/turtacn/rmgweb/internal/infrastructure/database/redis"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/rmgweb/internal/infrastructure/storage/minio"
	httpserver "github.com/turtacn/rmgweb/internal/interfaces/http"
	"github.com/turtacn/rmgweb/internal/interfaces/http/handlers"
	"github.com/turtacn/rmgweb/internal/interfaces/http/middleware"
	"github.com/turtacn/rmgweb/internal/interfaces/http/routes"
	"github.com/turtacn/rmgweb/internal/interfaces/http/views"
	"github.com/turtacn/rmgweb/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const defaultLimiterCleanup = 5 * time.Minute

// App holds every long-lived dependency of the site.
type App struct {
	Config     *config.Config
	Logger     logging.Logger
	Collector  prometheus.MetricsCollector
	Metrics    *prometheus.AppMetrics
	Routes     *routes.Table
	Markup     structure.Renderer
	Cache      redis.Cache
	Depictions *depiction.Service
	Handler    http.Handler
	Server     *httpserver.Server

	limiter *middleware.TokenBucketLimiter
	closers []func() error
}

// New builds the site described by cfg.  Redis and MinIO are only contacted
// when enabled; an enabled store that cannot be reached is an error.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	a := &App{Config: cfg, Logger: logger, Routes: routes.NewDefaultTable()}

	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableGoMetrics:      cfg.Metrics.EnableGoMetrics,
			EnableProcessMetrics: cfg.Metrics.EnableProcessMetrics,
		}, logger.Named("metrics"))
		if err != nil {
			return nil, err
		}
		a.Collector = collector
		a.Metrics = prometheus.NewAppMetrics(collector)
	}

	var checkers []handlers.HealthChecker

	markupLog := logger.Named("markup")
	var markup structure.Renderer = structure.NewMarkupBuilder(a.Routes,
		structure.WithMarkupLogger(markupLog), structure.WithMarkupMetrics(a.Metrics))
	if cfg.Redis.Enabled {
		client, cache, err := OpenRedis(cfg.Redis, logger.Named("redis"))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		a.Cache = cache
		markup = structure.NewCachedMarkup(markup, cache, cfg.Redis.MarkupTTL, markupLog, a.Metrics)
		checkers = append(checkers, handlers.NewChecker("redis", cache.Ping))
	}
	a.Markup = markup

	var store minio.ObjectStore
	if cfg.MinIO.Enabled {
		client, s, err := OpenObjectStore(ctx, cfg.MinIO, logger.Named("minio"), a.Metrics)
		if err != nil {
			a.Close()
			return nil, err
		}
		store = s
		checkers = append(checkers, handlers.NewChecker("minio", client.HealthCheck))
	}
	a.Depictions = depiction.NewService(store, logger.Named("depiction"), a.Metrics)

	v, err := views.New(views.Site{Title: cfg.Site.Title, Description: cfg.Site.Description}, a.Markup, a.Routes)
	if err != nil {
		a.Close()
		return nil, err
	}

	httpLog := logger.Named("http")
	routerCfg := httpserver.RouterConfig{
		HomeHandler:      handlers.NewHomeHandler(v, httpLog, a.Metrics, Examples()...),
		StructureHandler: handlers.NewStructureHandler(v, a.Depictions, httpLog, a.Metrics),
		HealthHandler:    handlers.NewHealthHandler(Version, httpLog, a.Metrics, checkers...),
		Routes:           a.Routes,
		LoggingConfig:    middleware.DefaultLoggingConfig(),
		Logger:           httpLog,
		Metrics:          a.Metrics,
		MetricsCollector: a.Collector,
		MetricsPath:      cfg.Metrics.Path,
	}
	if rl := cfg.Server.RateLimit; rl.Enabled {
		a.limiter = middleware.NewTokenBucketLimiter(rl.RequestsPerSecond, rl.Burst, defaultLimiterCleanup)
		routerCfg.RateLimiter = a.limiter
		routerCfg.RateLimitConfig = middleware.DefaultRateLimitConfig()
	}
	a.Handler = httpserver.NewRouter(routerCfg)

	a.Server = httpserver.NewServer(httpserver.ServerConfig{
		Addr:            cfg.Server.Addr(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, a.Handler, httpLog)

	return a, nil
}

// Close releases connections opened by New.  It returns the first error.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// ─────────────────────────────────────────────────────────────────────────────
// Infrastructure constructors
// ─────────────────────────────────────────────────────────────────────────────

// OpenRedis connects to Redis and returns the client with a cache over it.
// Callers close the client.
func OpenRedis(cfg config.RedisConfig, logger logging.Logger) (*redis.Client, redis.Cache, error) {
	rc := &redis.RedisConfig{
		Mode:        cfg.Mode,
		Addr:        cfg.Addr,
		MasterName:  cfg.MasterName,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	}
	switch cfg.Mode {
	case "cluster":
		rc.ClusterAddrs = cfg.Addrs
	case "sentinel":
		rc.SentinelAddrs = cfg.Addrs
	}

	client, err := redis.NewClient(rc, logger)
	if err != nil {
		return nil, nil, err
	}
	cache := redis.NewRedisCache(client, logger,
		redis.WithPrefix(cfg.KeyPrefix),
		redis.WithDefaultTTL(cfg.MarkupTTL),
	)
	return client, cache, nil
}

// OpenObjectStore connects to MinIO, creating the bucket if needed.
func OpenObjectStore(ctx context.Context, cfg config.MinIOConfig, logger logging.Logger, metrics *prometheus.AppMetrics) (*minio.MinIOClient, minio.ObjectStore, error) {
	client, err := minio.NewMinIOClient(ctx, &minio.MinIOConfig{
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKey,
		SecretAccessKey: cfg.SecretKey,
		UseSSL:          cfg.UseSSL,
		Region:          cfg.Region,
		Bucket:          cfg.Bucket,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, minio.NewObjectStore(client, logger, metrics), nil
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg config.LogConfig) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid log level").WithDetail(cfg.Level)
	}
	return logging.NewLogger(logging.LogConfig{
		Level:       level,
		Format:      cfg.Format,
		OutputPaths: cfg.OutputPaths,
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Database index examples
// ─────────────────────────────────────────────────────────────────────────────

var exampleAdjacencyLists = []struct {
	label   string
	adjlist string
}{
	{"CH4", "1 C u0 p0 c0 {2,S} {3,S} {4,S} {5,S}\n2 H u0 p0 c0 {1,S}\n3 H u0 p0 c0 {1,S}\n4 H u0 p0 c0 {1,S}\n5 H u0 p0 c0 {1,S}\n"},
	{"H2O", "1 O u0 p2 c0 {2,S} {3,S}\n2 H u0 p0 c0 {1,S}\n3 H u0 p0 c0 {1,S}\n"},
	{"OH", "multiplicity 2\n1 O u1 p2 c0 {2,S}\n2 H u0 p0 c0 {1,S}\n"},
}

// Examples returns the species linked from the database index.
func Examples() []domain.Object {
	out := make([]domain.Object, 0, len(exampleAdjacencyLists))
	for _, ex := range exampleAdjacencyLists {
		m, err := domain.ParseMolecule(ex.adjlist)
		if err != nil {
			continue
		}
		out = append(out, domain.NewSpecies(ex.label, m))
	}
	return out
}

//Personal.AI order the ending
