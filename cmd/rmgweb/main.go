// Command rmgweb serves the RMG database site.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/rmgweb/internal/app"
	"github.com/turtacn/rmgweb/internal/config"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/logging"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	app.Version = version
	app.GitCommit = commit
	app.BuildDate = buildDate
}

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: RMGWEB_* environment only)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	cfg, err := config.LoadOptional(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rmgweb: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := app.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rmgweb: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobalLogger(logger)
	defer logger.Sync()

	if err := run(cfg, *configPath, logger); err != nil {
		logger.Error("rmgweb exited with error", logging.Err(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, configPath string, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if configPath != "" {
		watchLogLevel(configPath, logger)
	}

	logger.Info("starting rmgweb",
		logging.String("version", app.Version),
		logging.String("addr", a.Server.Addr()),
		logging.Bool("redis", cfg.Redis.Enabled),
		logging.Bool("minio", cfg.MinIO.Enabled),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- a.Server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return a.Server.Stop(shutdownCtx)
}

// watchLogLevel applies log level changes from the config file without a
// restart.  Other settings need one.
func watchLogLevel(configPath string, logger logging.Logger) {
	err := config.Watch(configPath, func(next *config.Config) {
		level, err := logging.ParseLevel(next.Log.Level)
		if err != nil {
			logger.Warn("ignoring invalid log level", logging.String("level", next.Log.Level))
			return
		}
		if logging.SetLevel(logger, level) {
			logger.Info("log level changed", logging.String("level", level.String()))
		}
	}, func(err error) {
		logger.Warn("config reload failed", logging.Err(err))
	})
	if err != nil {
		logger.Warn("config watch disabled", logging.Err(err))
	}
}

//Personal.AI order the ending
