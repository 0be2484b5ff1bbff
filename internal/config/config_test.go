package config

import (
	"strings"
	"testing"
)

// TestGetDefaults tests that the default configuration is valid
func TestGetDefaults(t *testing.T) {
	cfg := GetDefaults()
	if err := validateConfig(cfg); err != nil {
		t.Fatalf("Default configuration should validate: %v", err)
	}
	if cfg.Pipeline.Workers < 1 {
		t.Errorf("Default worker count invalid: %d", cfg.Pipeline.Workers)
	}
	if cfg.Provider.Kind != "stub" {
		t.Errorf("Default provider should be offline-safe, got %q", cfg.Provider.Kind)
	}
	if !cfg.Compliance.Sanitize {
		t.Error("Sanitize should default to on")
	}
	if cfg.Layout.MinFontSize > cfg.Layout.MaxFontSize {
		t.Errorf("Default font range inverted: %g..%g",
			cfg.Layout.MinFontSize, cfg.Layout.MaxFontSize)
	}
}

// TestValidateConfig tests configuration validation rules
func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ZeroWorkers", func(c *Config) { c.Pipeline.Workers = 0 }, "worker count"},
		{"UnknownProvider", func(c *Config) { c.Provider.Kind = "dalle" }, "provider kind"},
		{"TinyGenerateSize", func(c *Config) { c.Provider.GenerateSize = 128 }, "generate size"},
		{"BadPort", func(c *Config) { c.Server.Port = 99999 }, "server port"},
		{"BadLogLevel", func(c *Config) { c.Logging.Level = "verbose" }, "log level"},
		{"BadLogFormat", func(c *Config) { c.Logging.Format = "xml" }, "log format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := GetDefaults()
			tc.mutate(cfg)
			err := validateConfig(cfg)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Error %q should mention %q", err, tc.wantErr)
			}
		})
	}

	t.Run("DisabledServerSkipsPortCheck", func(t *testing.T) {
		cfg := GetDefaults()
		cfg.Server.Enabled = false
		cfg.Server.Port = 0
		if err := validateConfig(cfg); err != nil {
			t.Errorf("Port should not be checked when the server is disabled: %v", err)
		}
	})
}
