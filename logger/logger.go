package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局日志。Init 之前是 no-op，测试里不需要初始化。
var Log = zap.NewNop().Sugar()

// Init builds the production logger at the given level ("debug", "info",
// "warn", "error").
func Init(level string) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}

// Sync flushes buffered entries, called on shutdown.
func Sync() {
	_ = Log.Sync()
}
