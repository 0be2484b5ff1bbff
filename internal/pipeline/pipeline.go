// Package pipeline drives one campaign run: for every product, aspect
// ratio, and variant it sources a hero image, enforces compliance on
// the headline, fits the text into the brand band, composes the final
// creative, and accumulates the run report.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/brandforge/brandforge/internal/brief"
	"github.com/brandforge/brandforge/internal/cache"
	"github.com/brandforge/brandforge/internal/compliance"
	"github.com/brandforge/brandforge/internal/config"
	"github.com/brandforge/brandforge/internal/layout"
	"github.com/brandforge/brandforge/internal/logger"
	"github.com/brandforge/brandforge/internal/provider"
	"github.com/brandforge/brandforge/internal/render"
	"github.com/brandforge/brandforge/internal/report"
	"github.com/brandforge/brandforge/internal/store"
	"github.com/brandforge/brandforge/internal/typeface"
	"github.com/brandforge/brandforge/internal/websocket"
)

// minHeroEdge is the smallest usable dimension for a reused hero asset.
// Anything smaller is regenerated.
const minHeroEdge = 256

// RunOptions override per-run knobs without touching the loaded
// configuration. Zero values mean "use the configured default".
type RunOptions struct {
	Variants  int
	MaxLines  int
	TextScale float64
}

// Pipeline owns the long-lived resources shared across runs: the rule
// set, the typeface, the image provider, and the optional cache, store,
// and dashboard hub.
type Pipeline struct {
	cfg      *config.Config
	logger   *logger.Logger
	rules    *compliance.RuleSet
	face     *typeface.Face
	provider provider.Provider
	fallback provider.Provider
	cache    *cache.CreativeCache
	store    *store.Store
	hub      *websocket.Hub
}

// New builds a pipeline from the loaded configuration. Rule, font, and
// provider problems are fatal; cache and store connectivity problems
// are logged and the run proceeds without them.
func New(cfg *config.Config, log *logger.Logger) (*Pipeline, error) {
	pipelineLogger := log.WithComponent("pipeline")

	rules, err := compliance.LoadRules(cfg.Compliance.RulesPath)
	if err != nil {
		return nil, err
	}
	pipelineLogger.Info("Compliance rules loaded",
		zap.String("path", cfg.Compliance.RulesPath),
		zap.Int("rules", len(rules.Rules())),
		zap.Bool("sanitize", cfg.Compliance.Sanitize))

	face, err := typeface.Load(cfg.Layout.FontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load typeface: %w", err)
	}

	prov, err := buildProvider(cfg.Provider, log)
	if err != nil {
		return nil, err
	}
	pipelineLogger.Info("Image provider ready", zap.String("provider", prov.Name()))

	p := &Pipeline{
		cfg:      cfg,
		logger:   pipelineLogger,
		rules:    rules,
		face:     face,
		provider: prov,
		fallback: provider.NewStub(),
	}

	if cfg.Cache.Enabled {
		creativeCache, err := cache.NewCreativeCache(&cfg.Cache, log.Logger)
		if err != nil {
			pipelineLogger.Warn("Creative cache unavailable, continuing without it", zap.Error(err))
		} else {
			p.cache = creativeCache
		}
	}

	if cfg.Store.Enabled {
		runStore, err := store.NewStore(&cfg.Store, log.Logger)
		if err != nil {
			pipelineLogger.Warn("Run store unavailable, continuing without it", zap.Error(err))
		} else {
			p.store = runStore
		}
	}

	return p, nil
}

// buildProvider selects the hero image backend and wraps it with rate
// limiting when configured.
func buildProvider(cfg config.ProviderConfig, log *logger.Logger) (provider.Provider, error) {
	var prov provider.Provider
	switch cfg.Kind {
	case "openai":
		openaiProvider, err := provider.NewOpenAI(provider.Settings{
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
		}, log)
		if err != nil {
			return nil, err
		}
		prov = openaiProvider
	case "stub":
		prov = provider.NewStub()
	default:
		return nil, fmt.Errorf("unknown provider kind: %s", cfg.Kind)
	}
	if cfg.RequestsPerMinute > 0 {
		prov = provider.Throttle(prov, cfg.RequestsPerMinute)
	}
	return prov, nil
}

// SetHub attaches the dashboard event hub. Optional; without it runs
// stay silent on the WebSocket side.
func (p *Pipeline) SetHub(hub *websocket.Hub) {
	p.hub = hub
}

// Store exposes the run store so the dashboard server can serve history.
func (p *Pipeline) Store() *store.Store {
	return p.store
}

// Close releases cache and store connections.
func (p *Pipeline) Close() error {
	if p.cache != nil {
		if err := p.cache.Close(); err != nil {
			return err
		}
	}
	if p.store != nil {
		return p.store.Close()
	}
	return nil
}

// Run processes one brief end to end and returns the accumulated run
// result. Layout misconfiguration and write failures abort the run;
// generation failures degrade to the deterministic fallback provider.
func (p *Pipeline) Run(ctx context.Context, b *brief.Brief, opts RunOptions) (*RunResult, error) {
	start := time.Now()
	runLogger := p.logger.WithCampaign(b.CampaignID)

	headline := b.Headline()
	if headline == "" {
		return nil, fmt.Errorf("brief %s has no usable headline message", b.CampaignID)
	}

	rules, err := p.runRules(b)
	if err != nil {
		return nil, err
	}

	maxLines := p.cfg.Layout.MaxLines
	if opts.MaxLines > 0 {
		maxLines = opts.MaxLines
	}
	scale := p.cfg.Layout.TextScale
	if opts.TextScale > 0 {
		scale = opts.TextScale
	}
	// Band geometry varies per creative, but the size bounds do not.
	// Reject inconsistent sizing before any image work happens.
	probe := layout.Spec{
		Width:      1080,
		BandHeight: 216,
		MinSize:    p.cfg.Layout.MinFontSize,
		MaxSize:    p.cfg.Layout.MaxFontSize,
		MaxLines:   maxLines,
		Scale:      scale,
	}
	if err := probe.Validate(); err != nil {
		return nil, err
	}

	variants := b.Variants.CountPerProduct
	if opts.Variants > 0 {
		variants = opts.Variants
	}

	logo := p.loadLogo(b.Brand.LogoPath, runLogger)

	jobs := buildJobs(b, variants)
	runLogger.Info("Campaign run started",
		zap.Int("products", len(b.Products)),
		zap.Strings("ratios", b.Variants.AspectRatios),
		zap.Int("variants", variants),
		zap.Int("creatives", len(jobs)),
		zap.String("headline", headline))
	p.emit(websocket.EventTypeRunStarted, websocket.RunStartedEvent{
		CampaignID: b.CampaignID,
		Products:   len(b.Products),
		Ratios:     len(b.Variants.AspectRatios),
		Variants:   variants,
	})

	rows := make([]report.Row, len(jobs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.cfg.Pipeline.Workers)
	for _, jb := range jobs {
		jb := jb
		group.Go(func() error {
			row, err := p.produce(groupCtx, b, jb, rules, headline, logo, maxLines, scale, runLogger)
			if err != nil {
				return err
			}
			rows[jb.index] = row
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	summary := report.Summarize(rows)
	reportDir := filepath.Join(p.cfg.Pipeline.OutputDir, b.CampaignID)
	if err := report.WriteJSON(filepath.Join(reportDir, "run_report.json"), rows); err != nil {
		return nil, fmt.Errorf("failed to write JSON report: %w", err)
	}
	if err := report.WriteCSV(filepath.Join(reportDir, "run_report.csv"), rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV report: %w", err)
	}
	report.RenderTable(os.Stdout, rows)

	if p.store != nil {
		if err := p.store.SaveRows(ctx, rows); err != nil {
			runLogger.Warn("Failed to persist run rows", zap.Error(err))
		}
	}
	if p.cache != nil {
		stats := p.cache.Stats()
		runLogger.Info("Creative cache stats",
			zap.Int64("hits", stats.Hits),
			zap.Int64("misses", stats.Misses),
			zap.Float64("hit_rate", stats.HitRate))
	}

	duration := time.Since(start)
	runLogger.Info("Campaign run complete",
		zap.Int("creatives", summary.Creatives),
		zap.Int("sanitized", summary.Sanitized),
		zap.Int("warnings", summary.Warnings),
		zap.Duration("duration", duration))
	p.emit(websocket.EventTypeRunComplete, websocket.RunCompleteEvent{
		CampaignID: b.CampaignID,
		Summary:    summary,
		DurationMS: duration.Milliseconds(),
	})

	return &RunResult{
		CampaignID: b.CampaignID,
		Rows:       rows,
		Summary:    summary,
		Duration:   duration,
		ReportDir:  reportDir,
	}, nil
}

// runRules extends the configured rule set with the brief's own
// prohibited terms. Brief terms have no safe replacement, so they are
// flagged rather than rewritten.
func (p *Pipeline) runRules(b *brief.Brief) (*compliance.RuleSet, error) {
	if b.Legal == nil || len(b.Legal.ProhibitedTerms) == 0 {
		return p.rules, nil
	}
	merged := p.rules.Rules()
	seen := make(map[string]bool, len(merged))
	for _, r := range merged {
		seen[normalizeTerm(r.Term)] = true
	}
	for _, term := range b.Legal.ProhibitedTerms {
		if seen[normalizeTerm(term)] {
			continue
		}
		seen[normalizeTerm(term)] = true
		merged = append(merged, compliance.Rule{Term: term})
	}
	rules, err := compliance.NewRuleSet(merged)
	if err != nil {
		return nil, fmt.Errorf("brief %s legal terms: %w", b.CampaignID, err)
	}
	return rules, nil
}

func buildJobs(b *brief.Brief, variants int) []job {
	jobs := make([]job, 0, len(b.Products)*len(b.Variants.AspectRatios)*variants)
	for _, product := range b.Products {
		for _, ratio := range b.Variants.AspectRatios {
			for v := 1; v <= variants; v++ {
				jobs = append(jobs, job{
					index:   len(jobs),
					product: product,
					ratio:   ratio,
					variant: v,
				})
			}
		}
	}
	return jobs
}

// produce makes one creative: source hero, crop, compliance, fit,
// compose, save.
func (p *Pipeline) produce(ctx context.Context, b *brief.Brief, jb job, rules *compliance.RuleSet, headline string, logo image.Image, maxLines int, scale float64, runLogger *logger.Logger) (report.Row, error) {
	hero, source := p.hero(ctx, b, jb, runLogger)

	cropped, err := render.CropToRatio(hero, jb.ratio)
	if err != nil {
		return report.Row{}, fmt.Errorf("crop %s/%s: %w", jb.product.ID, jb.ratio, err)
	}
	bounds := cropped.Bounds()

	comp := rules.Check(headline, p.cfg.Compliance.Sanitize)
	if comp.Found {
		terms := make([]string, 0, len(comp.Actions))
		for _, a := range comp.Actions {
			terms = append(terms, a.Term)
		}
		runLogger.Warn("Prohibited terms in headline",
			zap.String("product_id", jb.product.ID),
			zap.Strings("terms", terms),
			zap.Int("sanitized", comp.SanitizedCount()),
			zap.Int("warnings", comp.WarningCount()))
		p.emit(websocket.EventTypeCompliance, websocket.ComplianceEvent{
			CampaignID: b.CampaignID,
			ProductID:  jb.product.ID,
			Ratio:      jb.ratio,
			Terms:      terms,
			Sanitized:  comp.SanitizedCount(),
			Warnings:   comp.WarningCount(),
		})
	}

	geometry := render.PlanBand(bounds.Dx(), bounds.Dy(), logo)
	spec := layout.Spec{
		Width:      geometry.TextWidth,
		BandHeight: geometry.TextHeight,
		MinSize:    p.cfg.Layout.MinFontSize,
		MaxSize:    p.cfg.Layout.MaxFontSize,
		MaxLines:   maxLines,
		Scale:      scale,
	}
	fitted, err := layout.Fit(comp.Text, spec, p.face)
	if err != nil {
		return report.Row{}, err
	}
	if fitted.Truncated {
		runLogger.Warn("Headline truncated to fit band",
			zap.String("product_id", jb.product.ID),
			zap.String("ratio", jb.ratio),
			zap.Float64("font_size", fitted.FontSize))
	}

	composed, err := render.Compose(cropped, geometry, fitted, b.Brand.Colors, logo, p.face)
	if err != nil {
		return report.Row{}, fmt.Errorf("compose %s/%s: %w", jb.product.ID, jb.ratio, err)
	}

	outDir := filepath.Join(p.cfg.Pipeline.OutputDir, b.CampaignID, jb.product.ID, render.RatioFolder(jb.ratio))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return report.Row{}, fmt.Errorf("create output dir: %w", err)
	}
	outPath := filepath.Join(outDir, fmt.Sprintf("post_%d.png", jb.variant))
	if err := imaging.Save(composed, outPath); err != nil {
		return report.Row{}, fmt.Errorf("save %s: %w", outPath, err)
	}

	row := report.Row{
		CampaignID:     b.CampaignID,
		ProductID:      jb.product.ID,
		ProductName:    jb.product.Name,
		Ratio:          jb.ratio,
		Variant:        jb.variant,
		Source:         source,
		SanitizedTerms: comp.SanitizedCount(),
		WarningTerms:   comp.WarningCount(),
		FontSize:       fitted.FontSize,
		LineCount:      len(fitted.Lines),
		OutputPath:     outPath,
		CreatedAt:      time.Now().UTC(),
	}
	for _, a := range comp.Actions {
		row.TermsFound = append(row.TermsFound, a.Term)
	}

	runLogger.Info("Creative rendered",
		zap.String("product_id", jb.product.ID),
		zap.String("ratio", jb.ratio),
		zap.Int("variant", jb.variant),
		zap.String("source", source),
		zap.Float64("font_size", fitted.FontSize),
		zap.Int("lines", len(fitted.Lines)),
		zap.String("output", outPath))
	p.emit(websocket.EventTypeCreative, websocket.CreativeEvent{
		CampaignID:     b.CampaignID,
		ProductID:      jb.product.ID,
		ProductName:    jb.product.Name,
		Ratio:          jb.ratio,
		Variant:        jb.variant,
		Source:         source,
		SanitizedTerms: comp.SanitizedCount(),
		WarningTerms:   comp.WarningCount(),
		FontSize:       fitted.FontSize,
		LineCount:      len(fitted.Lines),
		OutputPath:     outPath,
	})
	return row, nil
}

// hero sources the base image for one creative. Valid local assets are
// reused unless force-generate is set; otherwise the cache and then the
// provider are consulted, degrading to the deterministic fallback when
// generation fails.
func (p *Pipeline) hero(ctx context.Context, b *brief.Brief, jb job, runLogger *logger.Logger) (image.Image, string) {
	if !p.cfg.Pipeline.ForceGenerate && jb.product.HeroAsset != "" {
		if assetValid(jb.product.HeroAsset) {
			img, err := imaging.Open(jb.product.HeroAsset)
			if err == nil {
				return img, "reused"
			}
			runLogger.Warn("Failed to open hero asset, generating instead",
				zap.String("product_id", jb.product.ID),
				zap.String("asset", jb.product.HeroAsset),
				zap.Error(err))
		} else {
			runLogger.Warn("Hero asset missing or too small, generating instead",
				zap.String("product_id", jb.product.ID),
				zap.String("asset", jb.product.HeroAsset))
		}
	}

	prompt := provider.BuildPrompt(jb.product, b.Target, jb.ratio)
	size := image.Pt(p.cfg.Provider.GenerateSize, p.cfg.Provider.GenerateSize)

	if p.cache != nil {
		if img, ok := p.cache.Get(ctx, prompt, size); ok {
			return img, "cached"
		}
	}

	img, err := p.provider.Generate(ctx, prompt, size)
	if err != nil {
		runLogger.Warn("Hero generation failed, using fallback image",
			zap.String("product_id", jb.product.ID),
			zap.String("provider", p.provider.Name()),
			zap.Error(err))
		fallbackImg, fallbackErr := p.fallback.Generate(ctx, prompt, size)
		if fallbackErr != nil {
			// The stub never fails; keep the row flowing regardless.
			fallbackImg = image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
		}
		return fallbackImg, "fallback"
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, prompt, size, img); err != nil {
			runLogger.Warn("Failed to cache hero image", zap.Error(err))
		}
	}
	return img, "generated"
}

// assetValid reports whether path points at a decodable image with both
// edges at or above the reuse threshold.
func assetValid(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return false
	}
	return cfg.Width >= minHeroEdge && cfg.Height >= minHeroEdge
}

func (p *Pipeline) loadLogo(path string, runLogger *logger.Logger) image.Image {
	if path == "" {
		return nil
	}
	img, err := imaging.Open(path)
	if err != nil {
		runLogger.Warn("Failed to load brand logo, composing without it",
			zap.String("logo", path), zap.Error(err))
		return nil
	}
	return img
}

func (p *Pipeline) emit(eventType websocket.EventType, data interface{}) {
	if p.hub == nil {
		return
	}
	p.hub.BroadcastEvent(websocket.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	})
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
