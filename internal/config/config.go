package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Overlay contains text-overlay rendering settings.
type Overlay struct {
	BaseFontSize int      `toml:"base_font_size"`
	MinFontSize  int      `toml:"min_font_size"`
	MaxFontSize  int      `toml:"max_font_size"`
	PixelMargin  int      `toml:"pixel_margin"`
	FontFile     string   `toml:"font_file"`
	FontSearch   []string `toml:"font_search"`
}

// Limits contains input validation settings. Violations are logged as
// warnings and the render is attempted anyway unless Reject is set.
type Limits struct {
	MaxDurationSeconds float64 `toml:"max_duration_seconds"`
	Reject             bool    `toml:"reject"`
}

// Server contains HTTP API settings.
type Server struct {
	Bind         string `toml:"bind"`
	MaxUploadMiB int    `toml:"max_upload_mib"`
}

// Config is the full textburn configuration.
type Config struct {
	Overlay Overlay `toml:"overlay"`
	Limits  Limits  `toml:"limits"`
	Server  Server  `toml:"server"`
	WorkDir string  `toml:"work_dir"`
	Verbose bool    `toml:"verbose"`
}

const (
	defaultBaseFontSize       = 48
	defaultMinFontSize        = 16
	defaultMaxFontSize        = 96
	defaultPixelMargin        = 10
	defaultMaxDurationSeconds = 12
	defaultBind               = "127.0.0.1:8470"
	defaultMaxUploadMiB       = 100
)

// Common font locations tried when no explicit font file is configured.
// Missing fonts are not an error; the full-text strategy renders with the
// encoder's default font instead.
var defaultFontSearch = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
	"/System/Library/Fonts/Helvetica.ttc",
}

// PlaceholderPalette is the fixed color cycle for the geometric-placeholder
// strategy, indexed by annotation position in the list.
var PlaceholderPalette = []string{"red", "blue", "green", "yellow", "magenta"}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Overlay: Overlay{
			BaseFontSize: defaultBaseFontSize,
			MinFontSize:  defaultMinFontSize,
			MaxFontSize:  defaultMaxFontSize,
			PixelMargin:  defaultPixelMargin,
			FontSearch:   append([]string(nil), defaultFontSearch...),
		},
		Limits: Limits{
			MaxDurationSeconds: defaultMaxDurationSeconds,
		},
		Server: Server{
			Bind:         defaultBind,
			MaxUploadMiB: defaultMaxUploadMiB,
		},
	}
}

// Load reads configuration from the given TOML file, layered over the
// defaults. An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the render pipeline cannot work with.
func (c *Config) Validate() error {
	if c.Overlay.BaseFontSize <= 0 {
		return fmt.Errorf("overlay.base_font_size must be positive, got %d", c.Overlay.BaseFontSize)
	}
	if c.Overlay.MinFontSize <= 0 || c.Overlay.MaxFontSize < c.Overlay.MinFontSize {
		return fmt.Errorf("overlay font size range [%d, %d] is invalid",
			c.Overlay.MinFontSize, c.Overlay.MaxFontSize)
	}
	if c.Overlay.PixelMargin < 0 {
		return fmt.Errorf("overlay.pixel_margin must not be negative, got %d", c.Overlay.PixelMargin)
	}
	if c.Limits.MaxDurationSeconds <= 0 {
		return fmt.Errorf("limits.max_duration_seconds must be positive, got %v", c.Limits.MaxDurationSeconds)
	}
	if c.Server.Bind == "" {
		return fmt.Errorf("server.bind must not be empty")
	}
	return nil
}
