package selection

import (
	"github.com/akhatua2/designx/selection/internal/config"
)

// Config is the top-level engine configuration. Re-exported from internal.
type Config = config.Config

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig = config.BrowserConfig

// SelectionConfig controls the selection state machine.
type SelectionConfig = config.SelectionConfig

// OverlayConfig controls spotlight presentation.
type OverlayConfig = config.OverlayConfig

// SinkConfig defines an output backend.
type SinkConfig = config.SinkConfig

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}
