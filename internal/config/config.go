package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the seriedex API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	BCRP     BCRPConfig     `yaml:"bcrp"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SnapshotConfig holds catalog snapshot storage settings.
type SnapshotConfig struct {
	Driver           string   `yaml:"driver"`    // file, redis (default: file)
	CacheDir         string   `yaml:"cache_dir"` // file driver; default: user cache dir
	Addrs            []string `yaml:"addrs"`     // redis driver
	Password         string   `yaml:"password"`
	MaxAgeHours      int      `yaml:"max_age_hours"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	RefreshOnStale   bool     `yaml:"refresh_on_stale"`
}

// BCRPConfig holds upstream BCRP API settings.
type BCRPConfig struct {
	BaseURL      string `yaml:"base_url"`
	TimeoutSec   int    `yaml:"timeout_sec"`
	RequestGapMS int    `yaml:"request_gap_ms"`
	UserAgent    string `yaml:"user_agent"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// Series data calls proxy a slow upstream.
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Snapshot.Driver == "" {
		c.Snapshot.Driver = "file"
	}
	if c.Snapshot.MaxAgeHours <= 0 {
		// BCRP publishes metadata updates roughly weekly.
		c.Snapshot.MaxAgeHours = 168
	}
	if c.Snapshot.ReadinessTimeout <= 0 {
		c.Snapshot.ReadinessTimeout = 10
	}
	if c.BCRP.TimeoutSec <= 0 {
		c.BCRP.TimeoutSec = 30
	}
	if c.BCRP.RequestGapMS <= 0 {
		c.BCRP.RequestGapMS = 500
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Snapshot.Driver {
	case "file":
	case "redis":
		if len(c.Snapshot.Addrs) == 0 {
			return fmt.Errorf("snapshot.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("snapshot.driver must be \"file\" or \"redis\", got %q", c.Snapshot.Driver)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
