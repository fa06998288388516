// Package config loads the gateway's YAML configuration file, applies an
// environment-variable overlay, and validates the result before cmd/gatewayd
// wires any component from it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP programmatic API.
type ServerConfig struct {
	Port        string `yaml:"port"`
	MetricsPort string `yaml:"metrics_port"`
}

// SecurityConfig selects the policy engine's mode and the block-list file
// it watches for hot reload.
type SecurityConfig struct {
	Mode       string `yaml:"mode"` // strict|permissive
	PolicyFile string `yaml:"policy_file"`
}

// ExecutorConfig bounds a single command's resource usage.
type ExecutorConfig struct {
	MaxWallClockSecs int `yaml:"max_wall_clock_secs"`
	MaxOutputBytes   int `yaml:"max_output_bytes"`
}

// LimiterConfig bounds process-wide concurrency (spec.md §5 soft caps).
type LimiterConfig struct {
	MaxConcurrentPlaybooks int    `yaml:"max_concurrent_playbooks"`
	MaxConcurrentChildren  int    `yaml:"max_concurrent_children"`
	RedisAddr              string `yaml:"redis_addr"` // empty means in-process limiter
}

// ProvidersConfig toggles which cloud provider gateways start.
type ProvidersConfig struct {
	AWS   bool `yaml:"aws"`
	GCP   bool `yaml:"gcp"`
	Azure bool `yaml:"azure"`
}

// NotificationConfig selects the notification transport.
type NotificationConfig struct {
	SlackToken string `yaml:"slack_token"`
	FileDir    string `yaml:"file_dir"` // fallback transport when SlackToken is empty
}

// AuditConfig configures the durable audit sink. An empty PostgresDSN means
// audit records are kept in memory only.
type AuditConfig struct {
	PostgresDSN string `yaml:"postgres_dsn"`
}

// LoggingConfig selects the logging sink's verbosity and encoding.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the gateway's top-level configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Security     SecurityConfig     `yaml:"security"`
	Executor     ExecutorConfig     `yaml:"executor"`
	Limiter      LimiterConfig      `yaml:"limiter"`
	Providers    ProvidersConfig    `yaml:"providers"`
	Notification NotificationConfig `yaml:"notification"`
	Audit        AuditConfig        `yaml:"audit"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// MaxWallClock returns the configured per-command timeout as a
// time.Duration.
func (c Config) MaxWallClock() time.Duration {
	return time.Duration(c.Executor.MaxWallClockSecs) * time.Second
}

func defaults() Config {
	return Config{
		Server:   ServerConfig{Port: "8080", MetricsPort: "9090"},
		Security: SecurityConfig{Mode: "strict"},
		Executor: ExecutorConfig{MaxWallClockSecs: 30, MaxOutputBytes: 1 << 20},
		Limiter:  LimiterConfig{MaxConcurrentPlaybooks: 16, MaxConcurrentChildren: 64},
		Logging:  LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads path, applies defaults for unset fields, overlays environment
// variables, validates the result, and returns the Config.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	loadFromEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// loadFromEnv overlays the environment variables named in SPEC_FULL.md's
// ambient-stack section onto cfg, taking precedence over the YAML file.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("SECURITY_MODE"); v != "" {
		cfg.Security.Mode = v
	}
	if v := os.Getenv("MAX_WALL_CLOCK_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Executor.MaxWallClockSecs = n
		}
	}
	if v := os.Getenv("MAX_OUTPUT_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Executor.MaxOutputBytes = n
		}
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func validate(cfg *Config) error {
	switch cfg.Security.Mode {
	case "strict", "permissive":
	default:
		return fmt.Errorf("unsupported security mode %q", cfg.Security.Mode)
	}
	if cfg.Executor.MaxWallClockSecs <= 0 {
		return fmt.Errorf("executor max wall clock must be greater than 0")
	}
	if cfg.Executor.MaxOutputBytes <= 0 {
		return fmt.Errorf("executor max output bytes must be greater than 0")
	}
	if cfg.Limiter.MaxConcurrentPlaybooks <= 0 {
		return fmt.Errorf("max concurrent playbooks must be greater than 0")
	}
	if cfg.Limiter.MaxConcurrentChildren <= 0 {
		return fmt.Errorf("max concurrent children must be greater than 0")
	}
	if !cfg.Providers.AWS && !cfg.Providers.GCP && !cfg.Providers.Azure {
		return fmt.Errorf("at least one provider must be enabled")
	}
	return nil
}
