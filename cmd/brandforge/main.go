package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/brandforge/brandforge/internal/brief"
	"github.com/brandforge/brandforge/internal/config"
	"github.com/brandforge/brandforge/internal/logger"
	"github.com/brandforge/brandforge/internal/pipeline"
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
		briefPath   = flag.String("brief", "", "Path to campaign brief (YAML or JSON)")
		outDir      = flag.String("out", "", "Output directory (overrides configuration)")
		variants    = flag.Int("variants", 0, "Variants per product and ratio (overrides the brief)")
		maxLines    = flag.Int("max-lines", 0, "Maximum headline lines (overrides configuration)")
		textScale   = flag.Float64("text-scale", 0, "Font size scale multiplier (overrides configuration)")
		flagOnly    = flag.Bool("flag-only", false, "Detect prohibited terms without rewriting the headline")
		force       = flag.Bool("force", false, "Regenerate hero images even when valid assets exist")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("BrandForge %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if *briefPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: brandforge -brief <path> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *outDir != "" {
		cfg.Pipeline.OutputDir = *outDir
	}
	if *force {
		cfg.Pipeline.ForceGenerate = true
	}
	if *flagOnly {
		cfg.Compliance.Sanitize = false
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

	log.Info("Starting BrandForge",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("brief", *briefPath),
	)

	b, err := brief.Load(*briefPath)
	if err != nil {
		log.Fatal("Failed to load brief", zap.Error(err))
	}

	p, err := pipeline.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize pipeline", zap.Error(err))
	}
	defer p.Close()

	// Cancel the run on interrupt so partial work flushes cleanly
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := p.Run(ctx, b, pipeline.RunOptions{
		Variants:  *variants,
		MaxLines:  *maxLines,
		TextScale: *textScale,
	})
	if err != nil {
		log.Fatal("Campaign run failed", zap.Error(err))
	}

	log.Info("Done",
		zap.Int("creatives", result.Summary.Creatives),
		zap.Int("sanitized", result.Summary.Sanitized),
		zap.Int("warnings", result.Summary.Warnings),
		zap.String("report_dir", result.ReportDir),
		zap.Duration("duration", result.Duration),
	)
}
