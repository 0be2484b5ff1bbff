package config

import (
	"time"

	"github.com/brandforge/brandforge/internal/cache"
	"github.com/brandforge/brandforge/internal/store"
)

// Config represents the main configuration structure
type Config struct {
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Compliance ComplianceConfig `yaml:"compliance" mapstructure:"compliance"`
	Layout     LayoutConfig     `yaml:"layout" mapstructure:"layout"`
	Provider   ProviderConfig   `yaml:"provider" mapstructure:"provider"`
	Cache      cache.Config     `yaml:"cache" mapstructure:"cache"`
	Store      store.Config     `yaml:"store" mapstructure:"store"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	WebSocket  WebSocketConfig  `yaml:"websocket" mapstructure:"websocket"`
	Watch      WatchConfig      `yaml:"watch" mapstructure:"watch"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// PipelineConfig controls the creative production run
type PipelineConfig struct {
	OutputDir     string `yaml:"output_dir" mapstructure:"output_dir"`
	Workers       int    `yaml:"workers" mapstructure:"workers"`
	ForceGenerate bool   `yaml:"force_generate" mapstructure:"force_generate"`
}

// ComplianceConfig locates the prohibited-term rule set and selects the
// engine mode: sanitize replaces matched terms, otherwise matches are
// flagged only
type ComplianceConfig struct {
	RulesPath string `yaml:"rules_path" mapstructure:"rules_path"`
	Sanitize  bool   `yaml:"sanitize" mapstructure:"sanitize"`
}

// LayoutConfig contains the headline fitting parameters
type LayoutConfig struct {
	FontPath    string  `yaml:"font_path" mapstructure:"font_path"`
	MinFontSize float64 `yaml:"min_font_size" mapstructure:"min_font_size"`
	MaxFontSize float64 `yaml:"max_font_size" mapstructure:"max_font_size"`
	MaxLines    int     `yaml:"max_lines" mapstructure:"max_lines"`
	TextScale   float64 `yaml:"text_scale" mapstructure:"text_scale"`
}

// ProviderConfig selects and configures the hero image backend
type ProviderConfig struct {
	Kind              string `yaml:"kind" mapstructure:"kind"` // openai or stub
	Model             string `yaml:"model" mapstructure:"model"`
	APIKey            string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL           string `yaml:"base_url" mapstructure:"base_url"`
	GenerateSize      int    `yaml:"generate_size" mapstructure:"generate_size"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// ServerConfig contains dashboard HTTP server configuration
type ServerConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// WebSocketConfig controls dashboard event broadcasting
type WebSocketConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
	Events  struct {
		BroadcastRuns       bool `yaml:"broadcast_runs" mapstructure:"broadcast_runs"`
		BroadcastCompliance bool `yaml:"broadcast_compliance" mapstructure:"broadcast_compliance"`
		BroadcastCreatives  bool `yaml:"broadcast_creatives" mapstructure:"broadcast_creatives"`
		BroadcastSystem     bool `yaml:"broadcast_system" mapstructure:"broadcast_system"`
	} `yaml:"events" mapstructure:"events"`
}

// WatchConfig controls the brief drop-directory watcher
type WatchConfig struct {
	Dir      string        `yaml:"dir" mapstructure:"dir"`
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
		Path    string `yaml:"path" mapstructure:"path"`
	} `yaml:"file" mapstructure:"file"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	cfg := &Config{
		Pipeline: PipelineConfig{
			OutputDir: "out",
			Workers:   4,
		},
		Compliance: ComplianceConfig{
			RulesPath: "configs/compliance_rules.yaml",
			Sanitize:  true,
		},
		Layout: LayoutConfig{
			MinFontSize: 24,
			MaxFontSize: 96,
			MaxLines:    3,
			TextScale:   1.0,
		},
		Provider: ProviderConfig{
			Kind:              "stub",
			Model:             "gpt-image-1",
			GenerateSize:      1536,
			RequestsPerMinute: 15,
		},
		Cache: cache.Config{
			Enabled:        false,
			RedisURL:       "redis://localhost:6379/0",
			MaxConnections: 10,
			MinIdleConns:   2,
			DefaultTTL:     24 * time.Hour,
		},
		Store: store.Config{
			Enabled:         false,
			DatabaseURL:     "postgres://localhost:5432/brandforge?sslmode=disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 10 * time.Minute,
		},
		Server: ServerConfig{
			Enabled:      true,
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Watch: WatchConfig{
			Dir:      "briefs",
			Debounce: 2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
	cfg.WebSocket.Enabled = true
	cfg.WebSocket.Path = "/ws"
	cfg.WebSocket.Events.BroadcastRuns = true
	cfg.WebSocket.Events.BroadcastCompliance = true
	cfg.WebSocket.Events.BroadcastCreatives = true
	cfg.WebSocket.Events.BroadcastSystem = true
	return cfg
}
