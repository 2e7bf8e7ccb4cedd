// Package config provides loading and parsing of scanner configuration.
// Configuration comes from a YAML file, optionally overridden by
// PYACCESSIBILITY_* environment variables; a .env file is honored when
// present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level scanner configuration.
type Config struct {
	// Scan controls rule selection and evaluation.
	Scan *ScanConfig `yaml:"scan,omitempty"`

	// Fetch controls page retrieval.
	Fetch *FetchConfig `yaml:"fetch,omitempty"`

	// Redis configures the scan job queue.
	Redis *RedisConfig `yaml:"redis,omitempty"`

	// Worker configures queue-based execution.
	Worker *WorkerConfig `yaml:"worker,omitempty"`

	// Registry configures optional etcd service registration for workers.
	Registry *RegistryConfig `yaml:"registry,omitempty"`

	// Email configures report delivery. Reports are only emailed when
	// this section is present.
	Email *EmailConfig `yaml:"email,omitempty"`

	// LogLevel is one of debug, info, warn, error. Default: info.
	LogLevel string `yaml:"log_level,omitempty"`
}

// ScanConfig controls rule selection and evaluation.
type ScanConfig struct {
	// Rules lists the rule ids to run. Empty means all built-in rules.
	Rules []string `yaml:"rules,omitempty"`

	// Timeout bounds a whole scan.
	// Format: Go duration string (e.g., "10s", "1m")
	// Default: 10s
	Timeout string `yaml:"timeout,omitempty"`

	// Filter is an optional CEL expression applied to findings.
	Filter string `yaml:"filter,omitempty"`
}

// GetTimeout parses the scan timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (s *ScanConfig) GetTimeout() time.Duration {
	if s == nil || s.Timeout == "" {
		return 10 * time.Second
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetRules returns the configured rule ids, or nil when all rules should
// run.
func (s *ScanConfig) GetRules() []string {
	if s == nil {
		return nil
	}
	return s.Rules
}

// GetFilter returns the CEL filter expression, or empty when unset.
func (s *ScanConfig) GetFilter() string {
	if s == nil {
		return ""
	}
	return s.Filter
}

// FetchConfig controls page retrieval.
type FetchConfig struct {
	// Timeout bounds a single page fetch.
	// Format: Go duration string. Default: 30s
	Timeout string `yaml:"timeout,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"user_agent,omitempty"`
}

// GetTimeout parses the fetch timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (f *FetchConfig) GetTimeout() time.Duration {
	if f == nil || f.Timeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(f.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// RedisConfig configures the scan job queue.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"` // Default: localhost:6379
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// GetAddr returns the Redis address or the default value.
func (r *RedisConfig) GetAddr() string {
	if r == nil || r.Addr == "" {
		return "localhost:6379"
	}
	return r.Addr
}

// GetPassword returns the Redis password, empty when unset.
func (r *RedisConfig) GetPassword() string {
	if r == nil {
		return ""
	}
	return r.Password
}

// GetDB returns the Redis database number.
func (r *RedisConfig) GetDB() int {
	if r == nil {
		return 0
	}
	return r.DB
}

// WorkerConfig defines configuration for queue-based scan execution.
type WorkerConfig struct {
	// Concurrency is the number of concurrent scan goroutines.
	// Scans are I/O-bound (page fetches), so moderate values work well.
	// Default: 4
	Concurrency int `yaml:"concurrency,omitempty"`

	// ShutdownTimeout is the time to wait for graceful shutdown.
	// Format: Go duration string (e.g., "30s", "1m")
	// Default: 30s
	ShutdownTimeout string `yaml:"shutdown_timeout,omitempty"`

	// HeartbeatInterval is the interval between worker heartbeats.
	// Format: Go duration string (e.g., "10s")
	// Default: 10s
	HeartbeatInterval string `yaml:"heartbeat_interval,omitempty"`

	// QueuePrefix is the Redis key prefix for the scan queue.
	// Default: "scan"
	QueuePrefix string `yaml:"queue_prefix,omitempty"`

	// MaxRetries is the maximum number of times to retry a failed job.
	// Default: 0 (no retries)
	MaxRetries int `yaml:"max_retries,omitempty"`
}

// GetConcurrency returns the configured concurrency or the default value.
func (w *WorkerConfig) GetConcurrency() int {
	if w == nil || w.Concurrency <= 0 {
		return 4
	}
	return w.Concurrency
}

// GetShutdownTimeout parses the shutdown timeout string and returns a
// duration. Returns the default value if not set or invalid.
func (w *WorkerConfig) GetShutdownTimeout() time.Duration {
	if w == nil || w.ShutdownTimeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(w.ShutdownTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetHeartbeatInterval parses the heartbeat interval string and returns a
// duration. Returns the default value if not set or invalid.
func (w *WorkerConfig) GetHeartbeatInterval() time.Duration {
	if w == nil || w.HeartbeatInterval == "" {
		return 10 * time.Second
	}
	d, err := time.ParseDuration(w.HeartbeatInterval)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetQueuePrefix returns the queue prefix or the default value.
func (w *WorkerConfig) GetQueuePrefix() string {
	if w == nil || w.QueuePrefix == "" {
		return "scan"
	}
	return w.QueuePrefix
}

// GetMaxRetries returns the retry limit, zero when unset.
func (w *WorkerConfig) GetMaxRetries() int {
	if w == nil || w.MaxRetries < 0 {
		return 0
	}
	return w.MaxRetries
}

// RegistryConfig configures etcd service registration.
type RegistryConfig struct {
	// Endpoints lists etcd endpoints. Registration is skipped when empty.
	Endpoints []string `yaml:"endpoints,omitempty"`

	// DialTimeout bounds the initial etcd connection.
	// Format: Go duration string. Default: 5s
	DialTimeout string `yaml:"dial_timeout,omitempty"`

	// LeaseTTL is the registration lease in seconds. Default: 30
	LeaseTTL int64 `yaml:"lease_ttl,omitempty"`
}

// GetDialTimeout parses the dial timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (r *RegistryConfig) GetDialTimeout() time.Duration {
	if r == nil || r.DialTimeout == "" {
		return 5 * time.Second
	}
	d, err := time.ParseDuration(r.DialTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// GetLeaseTTL returns the lease TTL in seconds or the default value.
func (r *RegistryConfig) GetLeaseTTL() int64 {
	if r == nil || r.LeaseTTL <= 0 {
		return 30
	}
	return r.LeaseTTL
}

// EmailConfig configures emailed report delivery.
type EmailConfig struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port,omitempty"` // Default: 587
	Username string   `yaml:"username,omitempty"`
	Password string   `yaml:"password,omitempty"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

// GetPort returns the SMTP port or the default value.
func (e *EmailConfig) GetPort() int {
	if e == nil || e.Port <= 0 {
		return 587
	}
	return e.Port
}

// GetLogLevel returns the configured log level or the default value.
func (c *Config) GetLogLevel() string {
	if c == nil || c.LogLevel == "" {
		return "info"
	}
	return strings.ToLower(c.LogLevel)
}

// Load reads and parses a config file from the given path. If the path is
// a directory, it looks for a11yscan.yaml or a11yscan.yml in that
// directory. Environment overrides are applied after parsing.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		yamlPath := filepath.Join(path, "a11yscan.yaml")
		if _, err := os.Stat(yamlPath); err == nil {
			configPath = yamlPath
		} else {
			ymlPath := filepath.Join(path, "a11yscan.yml")
			if _, err := os.Stat(ymlPath); err != nil {
				return nil, fmt.Errorf("no a11yscan.yaml or a11yscan.yml found in %s", path)
			}
			configPath = ymlPath
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// LoadOrDefault loads the config from path when it is non-empty, and
// otherwise returns a default config with environment overrides applied.
// A .env file in the working directory is honored either way.
func LoadOrDefault(path string) (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	if path != "" {
		return Load(path)
	}

	config := &Config{}
	config.applyEnv()
	return config, nil
}

// applyEnv overlays PYACCESSIBILITY_* environment variables onto the
// config. Set variables win over file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("PYACCESSIBILITY_RULES"); v != "" {
		if c.Scan == nil {
			c.Scan = &ScanConfig{}
		}
		c.Scan.Rules = splitList(v)
	}
	if v := os.Getenv("PYACCESSIBILITY_SCAN_TIMEOUT"); v != "" {
		if c.Scan == nil {
			c.Scan = &ScanConfig{}
		}
		c.Scan.Timeout = v
	}
	if v := os.Getenv("PYACCESSIBILITY_FILTER"); v != "" {
		if c.Scan == nil {
			c.Scan = &ScanConfig{}
		}
		c.Scan.Filter = v
	}
	if v := os.Getenv("PYACCESSIBILITY_FETCH_TIMEOUT"); v != "" {
		if c.Fetch == nil {
			c.Fetch = &FetchConfig{}
		}
		c.Fetch.Timeout = v
	}
	if v := os.Getenv("PYACCESSIBILITY_REDIS_ADDR"); v != "" {
		if c.Redis == nil {
			c.Redis = &RedisConfig{}
		}
		c.Redis.Addr = v
	}
	if v := os.Getenv("PYACCESSIBILITY_REDIS_PASSWORD"); v != "" {
		if c.Redis == nil {
			c.Redis = &RedisConfig{}
		}
		c.Redis.Password = v
	}
	if v := os.Getenv("PYACCESSIBILITY_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			if c.Redis == nil {
				c.Redis = &RedisConfig{}
			}
			c.Redis.DB = n
		}
	}
	if v := os.Getenv("PYACCESSIBILITY_WORKER_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			if c.Worker == nil {
				c.Worker = &WorkerConfig{}
			}
			c.Worker.Concurrency = n
		}
	}
	if v := os.Getenv("PYACCESSIBILITY_ETCD_ENDPOINTS"); v != "" {
		if c.Registry == nil {
			c.Registry = &RegistryConfig{}
		}
		c.Registry.Endpoints = splitList(v)
	}
	if v := os.Getenv("PYACCESSIBILITY_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
