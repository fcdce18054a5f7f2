// CLAUDE:SUMMARY Defines selection engine config structs and parses YAML configuration files with defaults.
// Package config handles selection engine configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level engine configuration.
type Config struct {
	Browser   BrowserConfig   `yaml:"browser"`
	Selection SelectionConfig `yaml:"selection"`
	Overlay   OverlayConfig   `yaml:"overlay"`
	Sinks     []SinkConfig    `yaml:"sinks"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	Remote          string        `yaml:"remote"`
	Headless        bool          `yaml:"headless"`
	Stealth         bool          `yaml:"stealth"`
	NavigateTimeout time.Duration `yaml:"navigate_timeout"`
}

// SelectionConfig controls the selection state machine.
type SelectionConfig struct {
	// DragThreshold is the pointer displacement, in px, past which a held
	// primary button becomes an area drag instead of a click.
	DragThreshold float64 `yaml:"drag_threshold"`

	// Screenshot attaches a clipped PNG to every committed region.
	Screenshot bool `yaml:"screenshot"`
}

// OverlayConfig controls spotlight presentation.
type OverlayConfig struct {
	Padding    float64 `yaml:"padding"`
	Radius     float64 `yaml:"radius"`
	DimOpacity float64 `yaml:"dim_opacity"`
	BlurPx     float64 `yaml:"blur_px"`
}

// SinkConfig defines an output backend.
type SinkConfig struct {
	Type string `yaml:"type"` // stdout | webhook
	URL  string `yaml:"url"`  // for webhook
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills zero fields with working defaults.
func (c *Config) ApplyDefaults() {
	if c.Browser.NavigateTimeout <= 0 {
		c.Browser.NavigateTimeout = 30 * time.Second
	}
	if c.Selection.DragThreshold <= 0 {
		c.Selection.DragThreshold = 5
	}
	if c.Overlay.Padding <= 0 {
		c.Overlay.Padding = 8
	}
	if c.Overlay.Radius <= 0 {
		c.Overlay.Radius = 8
	}
	if c.Overlay.DimOpacity <= 0 {
		c.Overlay.DimOpacity = 0.5
	}
	if c.Overlay.BlurPx < 0 {
		c.Overlay.BlurPx = 0
	}
}
