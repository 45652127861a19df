// Package config handles loading, validating, and serializing the settings
// for the ogcards image generator.
package config

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aellingwood/ogcards/internal/card"
	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given explicitly.
const DefaultPath = "ogcards.yaml"

// Config is the top-level configuration. Card content is fixed; only where
// and how the cards are written is configurable.
type Config struct {
	BaseURL string       `yaml:"baseURL" toml:"baseURL" mapstructure:"baseURL"`
	Output  OutputConfig `yaml:"output"  toml:"output"  mapstructure:"output"`
	Fonts   FontConfig   `yaml:"fonts"   toml:"fonts"   mapstructure:"fonts"`
}

// OutputConfig controls where and how images are written.
type OutputConfig struct {
	Dir     string `yaml:"dir"     toml:"dir"     mapstructure:"dir"`
	Quality int    `yaml:"quality" toml:"quality" mapstructure:"quality"`
}

// FontConfig holds the TrueType font paths. Missing files fall back to a
// built-in bitmap font.
type FontConfig struct {
	Bold    string `yaml:"bold"    toml:"bold"    mapstructure:"bold"`
	Regular string `yaml:"regular" toml:"regular" mapstructure:"regular"`
}

// Default returns a Config populated with the built-in values.
func Default() *Config {
	return &Config{
		BaseURL: "https://yourdomain.com",
		Output: OutputConfig{
			Dir:     "public",
			Quality: 90,
		},
		Fonts: FontConfig{
			Bold:    card.DefaultBoldFont,
			Regular: card.DefaultRegularFont,
		},
	}
}

// Load reads a configuration file from configPath (YAML or TOML) and returns
// a Config with defaults applied first and file values overlaid on top.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType(FormatOf(configPath))
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks the Config for common errors.
// It returns a descriptive error if:
//   - Output.Dir is empty
//   - Output.Quality is outside 1-100
//   - BaseURL has a trailing slash
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		return fmt.Errorf("config: output.dir is required")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("config: output.quality must be between 1 and 100 (got %d)", c.Output.Quality)
	}

	if c.BaseURL != "" && strings.HasSuffix(c.BaseURL, "/") {
		return fmt.Errorf("config: baseURL must not have a trailing slash (got %q)", c.BaseURL)
	}

	return nil
}

// WithOverrides applies CLI flag overrides to the config. Known keys are
// mapped to their corresponding struct fields. The modified config is returned
// for convenient chaining.
func (c *Config) WithOverrides(overrides map[string]any) *Config {
	for key, val := range overrides {
		switch key {
		case "baseURL":
			if s, ok := val.(string); ok {
				c.BaseURL = s
			}
		case "destination":
			if s, ok := val.(string); ok {
				c.Output.Dir = s
			}
		case "quality":
			if n, ok := val.(int); ok {
				c.Output.Quality = n
			}
		case "boldFont":
			if s, ok := val.(string); ok {
				c.Fonts.Bold = s
			}
		case "regularFont":
			if s, ok := val.(string); ok {
				c.Fonts.Regular = s
			}
		}
	}
	return c
}

// Write serializes the config to w in the given format ("yaml" or "toml").
func (c *Config) Write(w io.Writer, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "toml":
		if err := toml.NewEncoder(w).Encode(c); err != nil {
			return fmt.Errorf("encoding toml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("config: unsupported format %q", format)
	}
}

// FormatOf returns the config format implied by path's extension, "toml"
// for .toml files and "yaml" for everything else.
func FormatOf(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "toml":
		return "toml"
	default:
		// yaml, yml, and anything unrecognised.
		return "yaml"
	}
}
