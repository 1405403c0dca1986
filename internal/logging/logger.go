// Package logging provides structured logging using zap
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	sugar  *zap.SugaredLogger
	once   sync.Once
)

// Config holds logging configuration
type Config struct {
	Level       string // debug, info, warn, error
	Development bool   // enables development mode (more verbose)
	JSON        bool   // output as JSON (for production)
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Development: false,
		JSON:        false,
	}
}

// Init initializes the global logger
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		err = initLogger(cfg)
	})
	return err
}

func initLogger(cfg Config) error {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg = zap.NewProductionConfig()
		if !cfg.JSON {
			zapCfg.Encoding = "console"
			zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
			// Import runs print progress lines; keep them unadorned.
			zapCfg.EncoderConfig.TimeKey = ""
			zapCfg.DisableCaller = true
			zapCfg.DisableStacktrace = true
		}
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	l, err := zapCfg.Build()
	if err != nil {
		return err
	}
	logger = l
	sugar = l.Sugar()
	return nil
}

// L returns the global logger, initializing with defaults if needed
func L() *zap.Logger {
	if logger == nil {
		_ = Init(DefaultConfig())
	}
	return logger
}

// S returns the global sugared logger, initializing with defaults if needed
func S() *zap.SugaredLogger {
	if sugar == nil {
		_ = Init(DefaultConfig())
	}
	return sugar
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
