package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/user/lifequest/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel converts a config log level to a zap level. Unknown levels
// fall back to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewFileWriter returns a rotating log file writer
func NewFileWriter(cfg config.LoggingConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   false,
	}
}

// New builds the server logger: JSON on stdout, plus a rotating file when enabled
func New(level string, cfg config.LoggingConfig) (*zap.Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	enabler := zap.NewAtomicLevelAt(ParseLevel(level))

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), enabler),
	}

	if cfg.FileEnabled {
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("log file path is required when file logging is enabled")
		}
		cores = append(cores, zapcore.NewCore(encoder.Clone(), zapcore.AddSync(NewFileWriter(cfg)), enabler))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
