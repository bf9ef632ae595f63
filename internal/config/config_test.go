// Package config_test tests configuration loading and validation.
package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kvolkova/unitconv/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":8000" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8000")
	}
	if cfg.History.Size != 5 {
		t.Errorf("History.Size = %d, want 5", cfg.History.Size)
	}
	if cfg.Converter.DefaultCategory != "length" {
		t.Errorf("Converter.DefaultCategory = %q, want %q", cfg.Converter.DefaultCategory, "length")
	}
	if cfg.Converter.DefaultAmount != 100 {
		t.Errorf("Converter.DefaultAmount = %d, want 100", cfg.Converter.DefaultAmount)
	}
	if cfg.Log.AccessPath != "responses.log" {
		t.Errorf("Log.AccessPath = %q, want %q", cfg.Log.AccessPath, "responses.log")
	}
	if cfg.Stats.Interval != 5*time.Minute {
		t.Errorf("Stats.Interval = %v, want 5m", cfg.Stats.Interval)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9090"
  read_timeout: 5s
log:
  level: debug
  json: false
history:
  size: 10
converter:
  default_category: temperature
stats:
  interval: 30s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":9090")
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Log.Level != "debug" || cfg.Log.JSON {
		t.Errorf("Log = %+v, want debug text", cfg.Log)
	}
	if cfg.History.Size != 10 {
		t.Errorf("History.Size = %d, want 10", cfg.History.Size)
	}
	if cfg.Converter.DefaultCategory != "temperature" {
		t.Errorf("Converter.DefaultCategory = %q, want %q", cfg.Converter.DefaultCategory, "temperature")
	}
	if cfg.Stats.Interval != 30*time.Second {
		t.Errorf("Stats.Interval = %v, want 30s", cfg.Stats.Interval)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			name: "Bad log level",
			content: `
log:
  level: chatty
`,
		},
		{
			name: "Non-positive history size",
			content: `
history:
  size: 0
`,
		},
		{
			name: "Unknown default category",
			content: `
converter:
  default_category: pressure
`,
		},
		{
			name: "Zero rate limit",
			content: `
server:
  rate_limit: 0
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := config.Load(path); err == nil {
				t.Error("Load() succeeded, want validation error")
			}
		})
	}
}
