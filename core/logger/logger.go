package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init builds the global logger. level is one of debug|info|warn|error.
func Init(level string) {
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if os.Getenv("APP_ENV") == "development" {
			cfg = zap.NewDevelopmentConfig()
		}
		if lvl, err := zapcore.ParseLevel(level); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
		l, err := cfg.Build(zap.AddCallerSkip(1))
		if err != nil {
			l = zap.NewNop()
		}
		sugar = l.Sugar()
	})
}

func get() *zap.SugaredLogger {
	if sugar == nil {
		Init("info")
	}
	return sugar
}

// normalize turns mixed call styles into proper key/value pairs.
// Services log either (msg, "key", value, ...) or (msg, err).
func normalize(args []any) []any {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			return []any{"error", err}
		}
	}
	if len(args)%2 != 0 {
		return append(args[:len(args)-1:len(args)-1], "detail", args[len(args)-1])
	}
	return args
}

func Debug(msg string, args ...any) {
	get().Debugw(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	get().Infow(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	get().Warnw(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	get().Errorw(msg, normalize(args)...)
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
