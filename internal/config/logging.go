package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger based on configuration and a command line
// override of the level.
func NewLogger(loggingConfig LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// CLI override takes precedence
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}

		file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", loggingConfig.OutputFile, err)
		}
		_ = file.Close()

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}
