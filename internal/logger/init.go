package logger

import (
	"os"

	"github.com/borsuksoftware/awsdevicefarm-runwaiter/internal/config"
)

// InitializeFromConfig sets up the global logger based on the CLI
// configuration. An explicit RUNWAITER_LOG_LEVEL wins over the verbosity
// setting.
func InitializeFromConfig(cfg *config.Config) {
	if os.Getenv("RUNWAITER_LOG_LEVEL") != "" {
		if l, err := NewFromEnv(); err == nil {
			SetLogger(l)
		}
		return
	}

	var level Level
	switch cfg.Verbosity {
	case config.VerbosityDebug:
		level = DebugLevel
	case config.VerbosityVerbose:
		level = InfoLevel
	default:
		level = ErrorLevel
	}

	if l, err := New(level, developmentFromEnv()); err == nil {
		SetLogger(l)
	}
}
