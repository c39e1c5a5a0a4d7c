// Package logging builds the zap logger a leaderboard run writes to.
//
// Runs are short batch jobs, so sampling is disabled: every team that comes back without
// score data gets its own warning, even when hundreds share the same message.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the run logger. Development mode writes colored console lines at debug level;
// otherwise entries are JSON at info level.
func New(development bool) (*zap.Logger, error) {
	logger, err := newConfig(development).Build()
	if err != nil {
		return nil, fmt.Errorf("build leaderboard logger (development=%t): %w", development, err)
	}
	return logger, nil
}

func newConfig(development bool) zap.Config {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.Sampling = nil
	return cfg
}

// ForRun tags every entry with the run id.
func ForRun(logger *zap.Logger, runID string) *zap.Logger {
	return logger.With(zap.String("run_id", runID))
}
