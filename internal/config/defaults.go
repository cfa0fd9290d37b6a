package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8000
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRateLimitRPS    = 20.0
	DefaultRateLimitBurst  = 40

	DefaultSiteTitle = "RMG Database"

	DefaultRedisMode      = "standalone"
	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "rmgweb:"
	DefaultMarkupTTL      = 24 * time.Hour

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "rmgweb-depictions"

	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "rmgweb"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// defaultValues maps every viper key to its default.  Registering each key
// with viper is what lets RMGWEB_* variables override settings that no config
// file mentions.
var defaultValues = map[string]interface{}{
	"server.host":             DefaultServerHost,
	"server.port":             DefaultServerPort,
	"server.read_timeout":     DefaultReadTimeout,
	"server.write_timeout":    DefaultWriteTimeout,
	"server.idle_timeout":     DefaultIdleTimeout,
	"server.shutdown_timeout": DefaultShutdownTimeout,

	"server.rate_limit.enabled":             false,
	"server.rate_limit.requests_per_second": DefaultRateLimitRPS,
	"server.rate_limit.burst":               DefaultRateLimitBurst,

	"site.title":       DefaultSiteTitle,
	"site.description": "",

	"redis.enabled":      false,
	"redis.mode":         DefaultRedisMode,
	"redis.addr":         DefaultRedisAddr,
	"redis.master_name":  "",
	"redis.addrs":        []string{},
	"redis.password":     "",
	"redis.db":           0,
	"redis.pool_size":    0,
	"redis.dial_timeout": time.Duration(0),
	"redis.key_prefix":   DefaultRedisKeyPrefix,
	"redis.markup_ttl":   DefaultMarkupTTL,

	"minio.enabled":    false,
	"minio.endpoint":   DefaultMinIOEndpoint,
	"minio.access_key": "",
	"minio.secret_key": "",
	"minio.bucket":     DefaultMinIOBucket,
	"minio.region":     "",
	"minio.use_ssl":    false,

	"metrics.enabled":                true,
	"metrics.path":                   DefaultMetricsPath,
	"metrics.namespace":              DefaultMetricsNamespace,
	"metrics.enable_go_metrics":      true,
	"metrics.enable_process_metrics": true,

	"log.level":        DefaultLogLevel,
	"log.format":       DefaultLogFormat,
	"log.output_paths": []string{"stdout"},
}

// ApplyDefaults fills every zero-value field in cfg with the site default.
// Fields already set are left unchanged so explicit configuration wins.
// Booleans cannot be told apart from an explicit false and are left alone.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RateLimit.RequestsPerSecond == 0 {
		cfg.Server.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = DefaultRateLimitBurst
	}

	// ── Site ──────────────────────────────────────────────────────────────────
	if cfg.Site.Title == "" {
		cfg.Site.Title = DefaultSiteTitle
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Mode == "" {
		cfg.Redis.Mode = DefaultRedisMode
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.MarkupTTL == 0 {
		cfg.Redis.MarkupTTL = DefaultMarkupTTL
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

//Personal.AI order the ending
