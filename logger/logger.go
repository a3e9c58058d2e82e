package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log stays silent until Init is called, so packages can log from tests.
var Log = zap.NewNop().Sugar()

// Init replaces Log with a production logger at the given level
// (debug, info, warn, error). An empty level means info.
func Init(level string) error {
	cfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = logger.Sugar()
	return nil
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}
