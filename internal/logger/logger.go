package logger

import "go.uber.org/zap"

// Log is package level logger. It is no-op until Initialize is called.
var Log = zap.NewNop()

// Initialize creates logger with log level
func Initialize(level string) error {
	loggerLvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	loggerCfg := zap.NewProductionConfig()
	loggerCfg.Level = loggerLvl

	logger, err := loggerCfg.Build()
	if err != nil {
		return err
	}

	Log = logger

	return nil
}
