// Command brandforged runs BrandForge as a daemon: it watches a drop
// directory for campaign briefs, runs the pipeline for each one, and
// serves the live dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/brandforge/brandforge/internal/brief"
	"github.com/brandforge/brandforge/internal/config"
	"github.com/brandforge/brandforge/internal/logger"
	"github.com/brandforge/brandforge/internal/pipeline"
	"github.com/brandforge/brandforge/internal/server"
	"github.com/brandforge/brandforge/internal/watch"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	// Parse command line flags
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		watchDir    = flag.String("watch", "", "Brief drop directory (overrides configuration)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("BrandForge daemon %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *watchDir != "" {
		cfg.Watch.Dir = *watchDir
	}

	// Initialize logger
	loggerConfig := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if cfg.Logging.File.Enabled {
		loggerConfig.File = &logger.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		}
	}
	log, err := logger.New(loggerConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting BrandForge daemon",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("build_date", date),
		zap.String("watch_dir", cfg.Watch.Dir),
		zap.Int("port", cfg.Server.Port),
	)

	// Create the pipeline
	p, err := pipeline.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize pipeline", zap.Error(err))
	}
	defer p.Close()

	// Create the dashboard server and wire its event hub into the pipeline
	dashboard := server.New(cfg, log, p.Store())
	p.SetHub(dashboard.Hub())

	runCtx, cancelRuns := context.WithCancel(context.Background())
	defer cancelRuns()

	// Each settled brief triggers a full pipeline run
	handler := func(path string) {
		b, err := brief.Load(path)
		if err != nil {
			log.Error("Failed to load brief", zap.String("path", path), zap.Error(err))
			return
		}
		result, err := p.Run(runCtx, b, pipeline.RunOptions{})
		if err != nil {
			log.Error("Campaign run failed",
				zap.String("path", path),
				zap.String("campaign_id", b.CampaignID),
				zap.Error(err))
			return
		}
		dashboard.SetLatestReport(result.Rows)
	}

	watcher, err := watch.New(cfg.Watch.Dir, cfg.Watch.Debounce, handler, log)
	if err != nil {
		log.Fatal("Failed to start brief watcher", zap.Error(err))
	}
	defer watcher.Close()
	watcher.Start()

	// Log configuration file changes; a restart picks them up
	if err := config.Watch(cfg, func(_ *config.Config) {
		log.Info("Configuration file changed, restart to apply")
	}); err != nil {
		log.Warn("Failed to watch configuration file", zap.Error(err))
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	if cfg.Server.Enabled {
		go func() {
			log.Info("Dashboard server listening", zap.Int("port", cfg.Server.Port))
			serverErrors <- dashboard.Start()
		}()
	}

	// Setup graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Error("Server error", zap.Error(err))
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
		cancelRuns()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if cfg.Server.Enabled {
			if err := dashboard.Stop(ctx); err != nil {
				log.Error("Failed to shutdown server gracefully", zap.Error(err))
				os.Exit(1)
			}
		}
		log.Info("Daemon shutdown complete")
	}
}
