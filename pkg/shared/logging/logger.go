package logging

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the logging sink's verbosity and encoding.
type Config struct {
	Level  string // debug|info|warn|error
	Format string // json|console
}

// NewZapLogger builds a zap.Logger from Config, defaulting to info/json —
// the production-safe default for a service shelling out to untrusted text.
func NewZapLogger(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, err
		}
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.Format == "console" {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	return zcfg.Build()
}

// NewLogr adapts a zap.Logger to the logr.Logger interface so that
// components written against logr (the convention carried over from the
// teacher's controller-style packages) share one sink with the rest of the
// service.
func NewLogr(z *zap.Logger) logr.Logger {
	return zapr.NewLogger(z)
}

// Log emits msg at info level with fields flattened to key/value pairs.
func Log(l logr.Logger, msg string, fields Fields) {
	l.Info(msg, fields.ToArgs()...)
}

// LogError emits err at error level with fields flattened to key/value pairs.
func LogError(l logr.Logger, err error, msg string, fields Fields) {
	l.Error(err, msg, fields.ToArgs()...)
}
