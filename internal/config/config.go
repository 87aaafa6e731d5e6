// Package config loads the site configuration file.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// DefaultFile is the config file looked up when none is given
const DefaultFile = "sitefilter.yaml"

// EnvPrefix prefixes environment overrides, e.g. SITEFILTER_OUTPUT_DIR
const EnvPrefix = "SITEFILTER"

// Log settings
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// FilterSpec names one filter application and its params
type FilterSpec struct {
	Name   string         `mapstructure:"name"`
	Params map[string]any `mapstructure:"params"`
}

// Rule says how items matching Pattern are compiled
type Rule struct {
	// Pattern is a glob over item identifiers, e.g. "/posts/**"
	Pattern string `mapstructure:"pattern"`

	// Rep names the produced item rep, "default" if empty
	Rep string `mapstructure:"rep"`

	Filters []FilterSpec `mapstructure:"filters"`

	// Layout is the identifier of the layout to wrap the result in
	Layout string `mapstructure:"layout"`

	// Extension of the output file, ".html" if empty
	Extension string `mapstructure:"extension"`
}

// LayoutRule picks the filter used to evaluate matching layouts
type LayoutRule struct {
	Pattern string         `mapstructure:"pattern"`
	Filter  string         `mapstructure:"filter"`
	Params  map[string]any `mapstructure:"params"`
}

// Config is the complete site configuration
type Config struct {
	ContentDir string `mapstructure:"content_dir"`
	LayoutsDir string `mapstructure:"layouts_dir"`
	OutputDir  string `mapstructure:"output_dir"`
	Workers    int    `mapstructure:"workers"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Site is handed to every filter as the "config" assign
	Site map[string]any `mapstructure:"site"`

	Rules       []Rule       `mapstructure:"rules"`
	LayoutRules []LayoutRule `mapstructure:"layout_rules"`
}

// Default returns a configuration with every default applied and no rules
func Default() *Config {
	return &Config{
		ContentDir: "content",
		LayoutsDir: "layouts",
		OutputDir:  "output",
		Workers:    4,
		LogLevel:   LogLevelInfo,
		LogFormat:  LogFormatConsole,
		Site:       map[string]any{},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("content_dir", d.ContentDir)
	v.SetDefault("layouts_dir", d.LayoutsDir)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
}

// Load reads the config file at path, applies defaults and environment
// overrides, and validates the result
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if cfg.Site == nil {
		cfg.Site = map[string]any{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first problem found in the configuration
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if len(c.Rules) == 0 {
		return errors.New("at least one rule is required")
	}
	for i, rule := range c.Rules {
		if strings.TrimSpace(rule.Pattern) == "" {
			return errors.Errorf("rule %d: pattern is required", i)
		}
		for j, f := range rule.Filters {
			if strings.TrimSpace(f.Name) == "" {
				return errors.Errorf("rule %d (%s): filter %d has no name", i, rule.Pattern, j)
			}
		}
	}
	for i, rule := range c.LayoutRules {
		if strings.TrimSpace(rule.Pattern) == "" {
			return errors.Errorf("layout rule %d: pattern is required", i)
		}
		if strings.TrimSpace(rule.Filter) == "" {
			return errors.Errorf("layout rule %d (%s): filter is required", i, rule.Pattern)
		}
	}
	switch c.LogFormat {
	case LogFormatConsole, LogFormatJSON:
	default:
		return errors.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
