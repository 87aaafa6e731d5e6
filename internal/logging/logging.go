// Package logging builds the zap logger used by the CLI and the compiler.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mmichie/sitefilter/internal/config"
)

// Options selects the logger level and encoding
type Options struct {
	Level   string
	Format  string
	Verbose bool

	// OutputPaths defaults to stderr
	OutputPaths []string
}

// New builds a logger. Verbose forces the debug level.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Format == config.LogFormatJSON {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.Development = false
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if len(opts.OutputPaths) > 0 {
		cfg.OutputPaths = opts.OutputPaths
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// ParseLevel converts a config level name into a zap level. An empty name
// means info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "", config.LogLevelInfo:
		return zapcore.InfoLevel, nil
	case config.LogLevelDebug:
		return zapcore.DebugLevel, nil
	case config.LogLevelWarn:
		return zapcore.WarnLevel, nil
	case config.LogLevelError:
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
}

// Nop returns a logger that discards everything
func Nop() *zap.Logger {
	return zap.NewNop()
}
