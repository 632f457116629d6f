package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// envConfig holds logger configuration read from the environment
type envConfig struct {
	Level      Level
	Format     string // "console" or "json"
	Caller     bool   // Include caller information
	Stacktrace string // Level at which to include stack traces
}

// configFromEnv creates a logger configuration from environment variables
func configFromEnv() *envConfig {
	cfg := &envConfig{
		Level:      InfoLevel,
		Format:     "console",
		Caller:     false,
		Stacktrace: "panic",
	}

	if levelStr := os.Getenv("RUNWAITER_LOG_LEVEL"); levelStr != "" {
		cfg.Level = LevelFromString(levelStr)
	}

	if format := os.Getenv("RUNWAITER_LOG_FORMAT"); format != "" {
		cfg.Format = strings.ToLower(format)
	}

	cfg.Caller = os.Getenv("RUNWAITER_LOG_CALLER") == "true"

	if stacktrace := os.Getenv("RUNWAITER_LOG_STACKTRACE"); stacktrace != "" {
		cfg.Stacktrace = strings.ToLower(stacktrace)
	}

	return cfg
}

// developmentFromEnv reports whether console encoding is requested; any
// casing of "json" selects the production encoder.
func developmentFromEnv() bool {
	return configFromEnv().Format != "json"
}

// New creates a logger with the specified level and encoding
func New(level Level, development bool) (*Logger, error) {
	var config zap.Config

	if development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	// Progress markers own stdout; logs go to stderr only.
	config.OutputPaths = []string{"stderr"}

	switch level {
	case DebugLevel:
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case InfoLevel:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case ErrorLevel:
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	z, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return &Logger{zap: z, sugar: z.Sugar()}, nil
}

// NewFromEnv creates a logger configured from RUNWAITER_LOG_* environment
// variables
func NewFromEnv() (*Logger, error) {
	cfg := configFromEnv()

	l, err := New(cfg.Level, cfg.Format != "json")
	if err != nil {
		return nil, err
	}

	if cfg.Caller {
		l.zap = l.zap.WithOptions(zap.AddCaller())
	}

	var stacktraceLevel zapcore.Level
	switch cfg.Stacktrace {
	case "error":
		stacktraceLevel = zap.ErrorLevel
	case "panic":
		stacktraceLevel = zap.PanicLevel
	default:
		stacktraceLevel = zap.FatalLevel
	}
	l.zap = l.zap.WithOptions(zap.AddStacktrace(stacktraceLevel))
	l.sugar = l.zap.Sugar()

	return l, nil
}
