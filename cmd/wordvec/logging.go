package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/embeddb/wordvec/internal/config"
)

// newLogger builds a zap logger from the log configuration. Console format
// gets the development encoder with colored levels; anything else is
// production JSON.
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = level
	zapCfg.OutputPaths = []string{"stderr"}
	return zapCfg.Build()
}
