package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger's encoder and level.
type Options struct {
	// Level is parsed with zapcore.ParseLevel; empty or unknown values mean warn.
	Level string

	// Development selects the colored console encoder.
	Development bool

	// OutputPaths defaults to stderr so logs never mix with command output.
	OutputPaths []string
}

// New builds a zap logger. It never fails; an unbuildable config yields a
// no-op logger.
func New(opts Options) *zap.Logger {
	var cfg zap.Config

	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.WarnLevel
	if parsed, err := zapcore.ParseLevel(opts.Level); err == nil && opts.Level != "" {
		level = parsed
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	cfg.OutputPaths = []string{"stderr"}
	if len(opts.OutputPaths) > 0 {
		cfg.OutputPaths = opts.OutputPaths
	}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}

	return logger
}
