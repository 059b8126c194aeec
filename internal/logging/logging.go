// Package logging configures the structured logger shared across the
// indexer, retriever, and CLI.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once   sync.Once
	global *zap.SugaredLogger
)

// New builds a console-friendly zap logger. Verbose enables debug level.
func New(verbose bool) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.CallerKey = ""
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		// Fall back to a no-op logger rather than failing startup over logging.
		logger = zap.NewNop()
	}
	return logger.Sugar()
}

// Default returns a process-wide logger, building it lazily on first use.
// A prior call to SetDefault short-circuits the lazy build.
func Default() *zap.SugaredLogger {
	once.Do(func() {
		if global == nil {
			global = New(false)
		}
	})
	return global
}

// SetDefault overrides the process-wide logger, used by the CLI after
// flags are parsed. Safe to call before or after Default.
func SetDefault(l *zap.SugaredLogger) {
	once.Do(func() {})
	global = l
}
