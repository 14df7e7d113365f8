package observability

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *zap.Logger
	loggerOnce   sync.Once
)

// InitLogger builds the global logger. Output always goes to stderr:
// stdout carries the protocol stream.
func InitLogger(level string, isDev bool) error {
	var initErr error
	loggerOnce.Do(func() {
		var cfg zap.Config
		if isDev {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			cfg = zap.NewProductionConfig()
		}
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}

		if level != "" {
			lvl, err := zap.ParseAtomicLevel(level)
			if err != nil {
				initErr = err
				return
			}
			cfg.Level = lvl
		}

		globalLogger, initErr = cfg.Build()
	})
	return initErr
}

// Logger returns the global logger, or a no-op logger before InitLogger.
func Logger() *zap.Logger {
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// Sync flushes buffered entries.
func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}
