package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the configuration file.
type FileConfig struct {
	Label   LabelSection   `toml:"label" yaml:"label"`
	Display DisplaySection `toml:"display" yaml:"display"`
}

// LabelSection maps label state machine settings.
type LabelSection struct {
	KeyMode   *string  `toml:"key-mode" yaml:"key-mode"`
	BakMode   *string  `toml:"bak-mode" yaml:"bak-mode"`
	ModsMode  *string  `toml:"mods-mode" yaml:"mods-mode"`
	ModsOnly  *bool    `toml:"mods-only" yaml:"mods-only"`
	Multiline *bool    `toml:"multiline" yaml:"multiline"`
	VisShift  *bool    `toml:"vis-shift" yaml:"vis-shift"`
	VisSpace  *bool    `toml:"vis-space" yaml:"vis-space"`
	RecentThr *float64 `toml:"recent-thr" yaml:"recent-thr"`
	ComprCnt  *int     `toml:"compr-cnt" yaml:"compr-cnt"`
	Ignore    []string `toml:"ignore" yaml:"ignore"`
}

// DisplaySection maps terminal display settings.
type DisplaySection struct {
	Timeout *float64 `toml:"timeout" yaml:"timeout"`
	Fg      *string  `toml:"fg" yaml:"fg"`
	Bg      *string  `toml:"bg" yaml:"bg"`
	Fonts   []string `toml:"fonts" yaml:"fonts"`
}

// LoadConfig reads a config file from the given path. Paths ending in .yaml
// or .yml are decoded as YAML, anything else as TOML. Missing file is not an
// error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	}
	return cfg, nil
}
