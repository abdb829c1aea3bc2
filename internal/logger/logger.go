package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logEnvKey     = "LOG_ENV"
	logFileKey    = "LOG_FILE"
	defaultLogEnv = "dev"

	maxFileSizeMB  = 10
	maxFileBackups = 5
)

var logger *zap.Logger

// Options controls the process-wide logger.
type Options struct {
	// Env is "dev" or "prod".
	Env string
	// File enables a rotating log file receiving every level.
	File string
	// ConsoleLevel filters what reaches stderr.
	ConsoleLevel zapcore.Level
}

func init() {
	env := os.Getenv(logEnvKey)
	if env == "" {
		env = defaultLogEnv
	}

	Configure(Options{
		Env:          env,
		File:         os.Getenv(logFileKey),
		ConsoleLevel: zapcore.DebugLevel,
	})
	if logger == nil {
		log.Fatal("logger init")
	}
}

// Configure rebuilds the logger. Safe to call before any goroutines log.
func Configure(opts Options) {
	var encCfg zapcore.EncoderConfig
	var consoleEnc zapcore.Encoder
	switch opts.Env {
	case "prod":
		encCfg = zap.NewProductionEncoderConfig()
		consoleEnc = zapcore.NewJSONEncoder(encCfg)
	default:
		encCfg = zap.NewDevelopmentEncoderConfig()
		consoleEnc = zapcore.NewConsoleEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stderr), opts.ConsoleLevel),
	}
	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxFileSizeMB,
			MaxBackups: maxFileBackups,
		}
		fileEnc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEnc, zapcore.AddSync(rotating), zapcore.DebugLevel))
	}

	logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}

// Sync flushes buffered entries, errors from syncing stderr are ignored.
func Sync() {
	_ = logger.Sync()
}

// Zap exposes the underlying logger for libraries that accept one.
func Zap() *zap.Logger {
	return logger
}
