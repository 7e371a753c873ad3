package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/sumanshinde/cloth-pos/internal/config"
)

func TestNewLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"nonsense", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		cfg := &config.Config{}
		cfg.Server.AppEnv = "production"
		cfg.Logger.Level = tt.level

		log, err := New(cfg)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.level, err)
		}
		if !log.Core().Enabled(tt.want) || (tt.want > zapcore.DebugLevel && log.Core().Enabled(tt.want-1)) {
			t.Errorf("%s: logger not at %v", tt.level, tt.want)
		}
	}
}
