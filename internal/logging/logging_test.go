package logging

import (
	"testing"

	"github.com/milk9111/isocore/config"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		name  string
		cfg   config.LoggingConfig
		level zapcore.Level
	}{
		{"debug_console", config.LoggingConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel},
		{"warn_json", config.LoggingConfig{Level: "warn", Format: "json"}, zapcore.WarnLevel},
		{"unknown_falls_back", config.LoggingConfig{Level: "loud"}, zapcore.InfoLevel},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			logger, err := New(c.cfg)
			if err != nil {
				t.Fatalf("new logger: %v", err)
			}
			defer func() { _ = logger.Sync() }()

			if !logger.Core().Enabled(c.level) {
				t.Fatalf("expected %s to be enabled", c.level)
			}
			if c.level > zapcore.DebugLevel && logger.Core().Enabled(c.level-1) {
				t.Fatalf("expected %s to be disabled", c.level-1)
			}
		})
	}
}
