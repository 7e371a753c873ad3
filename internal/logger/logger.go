package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sumanshinde/cloth-pos/internal/config"
)

// New builds the application logger. Development environments get a console encoder at debug level.
func New(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Server.AppEnv == "development" {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.Logger.Encoding != "" {
		zapCfg.Encoding = cfg.Logger.Encoding
	}
	zapCfg.DisableCaller = cfg.Logger.DisableCaller
	zapCfg.DisableStacktrace = cfg.Logger.DisableStacktrace

	return zapCfg.Build()
}
