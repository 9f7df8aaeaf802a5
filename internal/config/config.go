package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"memocache/internal/logs"
	"memocache/internal/store"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultMaxEntries      = store.DefaultMaxEntries
	DefaultCleanupInterval = 10 * time.Second
	DefaultCronSpec        = "@every 10s"
	DefaultLogLevel        = logs.INFO
	DefaultLogBuffer       = 1000
)

// Scheduler kinds accepted by cleanup.scheduler.
const (
	SchedulerInterval = "interval"
	SchedulerCron     = "cron"
)

// Config is the top-level configuration of the memocache binary.
type Config struct {
	Cache   CacheConfig   `yaml:"cache"`
	Cleanup CleanupConfig `yaml:"cleanup"`
	Log     LogConfig     `yaml:"log"`
	Admin   AdminConfig   `yaml:"admin"`
}

// CacheConfig holds store settings.
type CacheConfig struct {
	// MaxEntries is the entry count above which the next set flushes the store.
	MaxEntries int `yaml:"max_entries"`
}

// CleanupConfig selects how expired entries are swept.
type CleanupConfig struct {
	// Scheduler is one of: interval | cron.
	Scheduler string `yaml:"scheduler"`

	// Interval is the sweep period for the interval scheduler.
	Interval time.Duration `yaml:"interval"`

	// Cron is the schedule for the cron scheduler, e.g. "@every 10s".
	Cron string `yaml:"cron"`
}

// LogConfig configures the in-memory logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Buffer int    `yaml:"buffer"`
}

// AdminConfig configures the observability endpoint.
type AdminConfig struct {
	// Addr is the listen address; empty disables the endpoint.
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			MaxEntries: DefaultMaxEntries,
		},
		Cleanup: CleanupConfig{
			Scheduler: SchedulerInterval,
			Interval:  DefaultCleanupInterval,
			Cron:      DefaultCronSpec,
		},
		Log: LogConfig{
			Level:  string(DefaultLogLevel),
			Buffer: DefaultLogBuffer,
		},
	}
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data on top of the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Validate checks structural constraints.
func (c *Config) Validate() error {
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be positive")
	}

	switch c.Cleanup.Scheduler {
	case SchedulerInterval:
		if c.Cleanup.Interval <= 0 {
			return fmt.Errorf("cleanup.interval must be positive")
		}
	case SchedulerCron:
		if c.Cleanup.Cron == "" {
			return fmt.Errorf("cleanup.cron is required for the cron scheduler")
		}
	default:
		return fmt.Errorf("cleanup.scheduler: unknown scheduler %q", c.Cleanup.Scheduler)
	}

	if _, err := logs.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Buffer < 0 {
		return fmt.Errorf("log.buffer must not be negative")
	}
	return nil
}

// LogLevel returns the validated log level.
func (c *Config) LogLevel() logs.Level {
	level, err := logs.ParseLevel(c.Log.Level)
	if err != nil {
		return DefaultLogLevel
	}
	return level
}
