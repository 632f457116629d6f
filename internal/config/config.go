// Package config provides configuration management for the run waiter CLI.
// It loads configuration from an optional YAML file and environment
// variables with sensible defaults; command-line flags are layered on top by
// the cli package.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Verbosity represents the output verbosity level
type Verbosity string

const (
	// VerbosityNormal shows only essential output
	VerbosityNormal Verbosity = "normal"
	// VerbosityVerbose includes resolution steps and timing
	VerbosityVerbose Verbosity = "verbose"
	// VerbosityDebug provides full debug logging
	VerbosityDebug Verbosity = "debug"
)

const (
	// DefaultTimeout is how long the waiter polls before giving up.
	DefaultTimeout = 30 * time.Minute

	// DefaultPollInterval is the delay between status checks.
	DefaultPollInterval = 5 * time.Second

	// MinPollInterval is the shortest allowed delay between status checks.
	MinPollInterval = time.Second
)

// Config holds all configuration for the run waiter CLI
type Config struct {
	// Project is the Device Farm project name or ARN
	Project string

	// Run is the test run name or ARN
	Run string

	// Timeout is the maximum time to wait for the run to complete
	Timeout time.Duration

	// PollInterval is the delay between status checks
	PollInterval time.Duration

	// Region is the AWS region override; empty means the service default
	Region string

	// Verbosity controls output level
	Verbosity Verbosity
}

// fileConfig is the YAML shape of an optional config file.
type fileConfig struct {
	Project             string `yaml:"project"`
	Run                 string `yaml:"run"`
	TimeoutSeconds      *int   `yaml:"timeout_seconds"`
	PollIntervalSeconds *int   `yaml:"poll_interval_seconds"`
	Region              string `yaml:"region"`
}

// Load creates a Config from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence. An empty path
// means no config file; a non-empty path that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Run:          DefaultRunName(time.Now()),
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
		Verbosity:    VerbosityNormal,
	}

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.PollInterval < MinPollInterval {
		return nil, fmt.Errorf("poll interval must be at least %s, got: %s", MinPollInterval, cfg.PollInterval)
	}

	return cfg, nil
}

// DefaultRunName returns the date-stamped name used when no run is given.
func DefaultRunName(now time.Time) string {
	return "Automated run " + now.Format("2006-01-02")
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.Project != "" {
		c.Project = fc.Project
	}
	if fc.Run != "" {
		c.Run = fc.Run
	}
	if fc.TimeoutSeconds != nil {
		c.Timeout = time.Duration(*fc.TimeoutSeconds) * time.Second
	}
	if fc.PollIntervalSeconds != nil {
		c.PollInterval = time.Duration(*fc.PollIntervalSeconds) * time.Second
	}
	if fc.Region != "" {
		c.Region = fc.Region
	}
	return nil
}

func (c *Config) applyEnv() error {
	if project := os.Getenv("RUNWAITER_PROJECT"); project != "" {
		c.Project = project
	}
	if run := os.Getenv("RUNWAITER_RUN"); run != "" {
		c.Run = run
	}

	if timeoutStr := os.Getenv("RUNWAITER_TIMEOUT"); timeoutStr != "" {
		seconds, err := strconv.Atoi(timeoutStr)
		if err != nil {
			return fmt.Errorf("RUNWAITER_TIMEOUT must be a number of seconds, got: %s", timeoutStr)
		}
		c.Timeout = time.Duration(seconds) * time.Second
	}

	if intervalStr := os.Getenv("RUNWAITER_POLL_INTERVAL"); intervalStr != "" {
		seconds, err := strconv.Atoi(intervalStr)
		if err != nil {
			return fmt.Errorf("RUNWAITER_POLL_INTERVAL must be a number of seconds, got: %s", intervalStr)
		}
		c.PollInterval = time.Duration(seconds) * time.Second
	}

	if region := os.Getenv("RUNWAITER_REGION"); region != "" {
		c.Region = region
	}

	if verbosity := os.Getenv("RUNWAITER_VERBOSITY"); verbosity != "" {
		switch Verbosity(verbosity) {
		case VerbosityNormal, VerbosityVerbose, VerbosityDebug:
			c.Verbosity = Verbosity(verbosity)
		default:
			return fmt.Errorf("RUNWAITER_VERBOSITY must be one of: normal, verbose, debug; got: %s", verbosity)
		}
	}
	return nil
}
