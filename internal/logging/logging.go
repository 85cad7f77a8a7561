// Package logging builds the zap loggers used by the CLI.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Option adjusts the zap configuration before it is built.
type Option func(*zap.Config)

// WithOutputPaths replaces the sinks (default stderr).
func WithOutputPaths(paths ...string) Option {
	return func(cfg *zap.Config) {
		if len(paths) > 0 {
			cfg.OutputPaths = paths
		}
	}
}

// WithEncoding selects "json" or "console".
func WithEncoding(encoding string) Option {
	return func(cfg *zap.Config) {
		if encoding != "" {
			cfg.Encoding = encoding
		}
	}
}

// Config returns the production configuration, at debug level when verbose.
func Config(verbose bool, options ...Option) zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// New builds a logger named "curriculo".
func New(verbose bool, options ...Option) (*zap.Logger, error) {
	logger, err := Config(verbose, options...).Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger.Named("curriculo"), nil
}
