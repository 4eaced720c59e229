package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bannerkit/banners/internal/pkg/config"
)

type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

// New builds a sugared zap logger from the logger section of the config.
// Empty output lists fall back to stderr.
func New(cfg config.Logger) (Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse level error: %w", err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if len(cfg.Output) != 0 {
		zapCfg.OutputPaths = cfg.Output
	}

	if len(cfg.ErrOutput) != 0 {
		zapCfg.ErrorOutputPaths = cfg.ErrOutput
	}

	l, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger error: %w", err)
	}

	return l.Sugar(), nil
}
