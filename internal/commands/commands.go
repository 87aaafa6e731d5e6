// Package commands holds the sitefilter subcommands.
package commands

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mmichie/sitefilter/internal/config"
	"github.com/mmichie/sitefilter/internal/logging"
	"github.com/mmichie/sitefilter/pkg/filters"
	"github.com/mmichie/sitefilter/pkg/site"
)

// Version is reported by the version command
var Version = "v0.1.0"

// Env is shared by every command. The root command fills in ConfigFile and
// Logger before any subcommand runs.
type Env struct {
	Registry   *filters.Registry
	Logger     *zap.Logger
	ConfigFile string
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return logging.Nop()
	}
	return e.Logger
}

func (e *Env) configFile() string {
	if e.ConfigFile == "" {
		return config.DefaultFile
	}
	return e.ConfigFile
}

// LoadConfig reads and validates the site configuration.
func (e *Env) LoadConfig() (*config.Config, error) {
	return config.Load(e.configFile())
}

// siteConfig returns the free-form site settings, or an empty config when
// no config file is present.
func (e *Env) siteConfig() (site.Config, error) {
	if _, err := os.Stat(e.configFile()); errors.Is(err, os.ErrNotExist) {
		return site.Config{}, nil
	}
	cfg, err := e.LoadConfig()
	if err != nil {
		return nil, err
	}
	return site.Config(cfg.Site), nil
}

// InitAll adds every subcommand to rootCmd.
func InitAll(rootCmd *cobra.Command, env *Env) {
	InitFilterCommand(rootCmd, env)
	InitFiltersCommand(rootCmd, env)
	InitCompileCommand(rootCmd, env)
	InitPreviewCommand(rootCmd, env)
	InitVersionCommand(rootCmd)
}
