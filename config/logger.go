package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
)

// NewLogger builds the process logger. JSON output uses the production
// encoder; otherwise a colored console encoder is used.
func NewLogger(level string, json bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Config("invalid log level "+level, err)
	}

	var cfg zap.Config
	if json {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true

	return cfg.Build()
}
