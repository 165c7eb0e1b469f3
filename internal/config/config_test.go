package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/textburn/textburn/internal/config"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Overlay.BaseFontSize != 48 {
		t.Fatalf("unexpected base font size: %d", cfg.Overlay.BaseFontSize)
	}
	if cfg.Limits.MaxDurationSeconds != 12 {
		t.Fatalf("unexpected duration ceiling: %v", cfg.Limits.MaxDurationSeconds)
	}
	if cfg.Limits.Reject {
		t.Fatal("expected warn-and-proceed validation by default")
	}
	if cfg.Server.Bind != "127.0.0.1:8470" {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textburn.toml")
	content := `
verbose = true

[overlay]
base_font_size = 64
font_file = "/tmp/custom.ttf"

[limits]
max_duration_seconds = 10
reject = true

[server]
bind = "0.0.0.0:9000"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Overlay.BaseFontSize != 64 {
		t.Fatalf("base font size not overridden: %d", cfg.Overlay.BaseFontSize)
	}
	if cfg.Overlay.FontFile != "/tmp/custom.ttf" {
		t.Fatalf("font file not overridden: %q", cfg.Overlay.FontFile)
	}
	if cfg.Overlay.MinFontSize != 16 {
		t.Fatalf("untouched default changed: %d", cfg.Overlay.MinFontSize)
	}
	if !cfg.Limits.Reject || cfg.Limits.MaxDurationSeconds != 10 {
		t.Fatalf("limits not overridden: %+v", cfg.Limits)
	}
	if !cfg.Verbose {
		t.Fatal("verbose not overridden")
	}
	if cfg.Server.Bind != "0.0.0.0:9000" {
		t.Fatalf("bind not overridden: %q", cfg.Server.Bind)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero base font", "[overlay]\nbase_font_size = 0\n"},
		{"inverted font range", "[overlay]\nmin_font_size = 90\nmax_font_size = 20\n"},
		{"negative margin", "[overlay]\npixel_margin = -1\n"},
		{"zero duration ceiling", "[limits]\nmax_duration_seconds = 0\n"},
		{"empty bind", "[server]\nbind = \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "textburn.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := config.Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
