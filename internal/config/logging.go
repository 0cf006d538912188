package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/jsternberg/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig selects the log encoding (console, json or logfmt) and the minimum level.
type LoggingConfig struct {
	Format string `yaml:"logFormat" env:"LOG_FORMAT" env-default:"console"`
	Level  string `yaml:"logLevel" env:"LOG_LEVEL" env-default:"info"`
}

var logFormats = []string{"console", "json", "logfmt"}

func parseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("logLevel must be one of debug, info, warn, error, got %q", name)
}

// ValidateLogging lower-cases both settings in place.
func ValidateLogging(cfg *LoggingConfig) error {
	cfg.Format = strings.ToLower(cfg.Format)
	known := false
	for _, f := range logFormats {
		known = known || f == cfg.Format
	}
	if !known {
		return fmt.Errorf("logFormat must be one of %s, got %q", strings.Join(logFormats, ", "), cfg.Format)
	}

	cfg.Level = strings.ToLower(cfg.Level)
	_, err := parseLevel(cfg.Level)
	return err
}

// NewLogger builds the process logger. The logfmt variant writes to stdout so the
// board's journald picks it up like the controller's other output.
func NewLogger(cfg *LoggingConfig) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	switch cfg.Format {
	case "logfmt":
		enc := zaplogfmt.NewEncoder(zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		})
		return zap.New(zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), level)), nil
	case "json":
		return build(zap.NewProductionConfig(), level, cfg.Format)
	default:
		zc := zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return build(zc, level, cfg.Format)
	}
}

func build(zc zap.Config, level zapcore.Level, format string) (*zap.Logger, error) {
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s logger: %w", format, err)
	}
	return logger, nil
}
