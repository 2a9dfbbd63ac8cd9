// Package logger builds the process logger: console output plus an optional rotating log file.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level string
	// Log file path. Empty means console only.
	File string
	// Overrides Level with debug level
	Debug bool

	// Console output (stderr by default)
	Console io.Writer
}

type Logger struct {
	*zap.SugaredLogger
	file *lumberjack.Logger
}

func New(config Config) (*Logger, error) {
	level := zapcore.InfoLevel
	if config.Debug {
		level = zapcore.DebugLevel
	} else if config.Level != "" {
		var err error
		if level, err = zapcore.ParseLevel(config.Level); err != nil {
			return nil, fmt.Errorf("invalid log level: %q", config.Level)
		}
	}

	console := config.Console
	if console == nil {
		console = os.Stderr
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006.01.02 15:04:05.000")

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(console), level),
	}

	var file *lumberjack.Logger
	if config.File != "" {
		if err := os.MkdirAll(filepath.Dir(config.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		file = &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    64,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		}

		fileEncoderConfig := encoderConfig
		fileEncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(fileEncoderConfig), zapcore.AddSync(file), level))
	}

	return &Logger{
		SugaredLogger: zap.New(zapcore.NewTee(cores...)).Sugar(),
		file:          file,
	}, nil
}

// Close flushes the logger and closes the log file.
func (l *Logger) Close() error {
	_ = l.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
