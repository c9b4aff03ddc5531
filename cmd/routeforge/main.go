// Command routeforge runs the route resolution service: it loads a
// declarative route table, compiles and indexes it, serves resolutions over
// HTTP, and hot-reloads the table when the file changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/routeforge/routeforge/internal/config"
	"github.com/routeforge/routeforge/internal/observability"
	"github.com/routeforge/routeforge/internal/routing"
	"github.com/routeforge/routeforge/internal/server"
	"github.com/routeforge/routeforge/internal/util"
)

// Build information, set via ldflags.
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	showVersion bool
}

func parseFlags() *cliFlags {
	flags := &cliFlags{}

	flag.StringVar(&flags.configPath, "config", getEnvOrDefault("ROUTEFORGE_CONFIG", "configs/routeforge.yaml"), "path to route table file")
	flag.StringVar(&flags.logLevel, "log-level", getEnvOrDefault("ROUTEFORGE_LOG_LEVEL", ""), "log level (debug, info, warn, error)")
	flag.StringVar(&flags.logFormat, "log-format", getEnvOrDefault("ROUTEFORGE_LOG_FORMAT", ""), "log format (json, console)")
	flag.BoolVar(&flags.showVersion, "version", false, "show version and exit")
	flag.Parse()

	return flags
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		fmt.Printf("routeforge %s (commit %s, built %s)\n", version, gitCommit, buildTime)
		return
	}

	if err := run(flags); err != nil {
		fmt.Fprintf(os.Stderr, "routeforge: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *cliFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return util.WrapError(err, "failed to load config")
	}
	if err := config.Validate(cfg); err != nil {
		return util.WrapError(err, "invalid config")
	}

	logger, err := initLogger(cfg, flags)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	observability.SetGlobalLogger(logger)

	logger.Info("starting routeforge",
		observability.String("version", version),
		observability.String("commit", gitCommit),
		observability.String("config", flags.configPath),
	)

	resolver := routing.NewResolver(
		routing.WithLogger(logger),
		routing.WithTrailingSlashMatching(cfg.Resolver.MatchTrailingSlashes),
	)
	loaded := resolver.Load(cfg.Definitions())
	logger.Info("route table loaded",
		observability.Int("routes", loaded),
		observability.Int("defined", len(cfg.Routes)),
	)

	watcher, err := config.NewWatcher(flags.configPath,
		func(newCfg *config.Config) {
			n := resolver.Load(newCfg.Definitions())
			logger.Info("route table reloaded into resolver",
				observability.Int("routes", n),
			)
		},
		config.WithWatcherLogger(logger),
		config.WithErrorCallback(func(err error) {
			logger.Error("route table reload rejected", observability.Error(err))
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() { _ = watcher.Stop() }()

	srv := server.New(cfg, resolver, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("routeforge stopped")
	return nil
}

// initLogger builds the logger from config, with CLI flags taking
// precedence.
func initLogger(cfg *config.Config, flags *cliFlags) (observability.Logger, error) {
	logCfg := observability.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if flags.logLevel != "" {
		logCfg.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		logCfg.Format = flags.logFormat
	}
	return observability.NewLogger(logCfg)
}
