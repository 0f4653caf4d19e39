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

// Config holds the trinetra API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Scorer     ScorerConfig     `yaml:"scorer"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
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

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// ScorerConfig selects and configures the semantic scorer.
type ScorerConfig struct {
	Driver   string         `yaml:"driver"` // heuristic, zeroshot (default: heuristic)
	Provider ProviderConfig `yaml:"provider"`
}

// ProviderConfig holds zero-shot model provider settings.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// ClassifierConfig holds category labels and keyword registry settings.
// Empty Keywords means the built-in keyword groups are used.
type ClassifierConfig struct {
	Labels   []string        `yaml:"labels"`
	Target   string          `yaml:"target"`
	Fallback string          `yaml:"fallback"`
	Keywords []KeywordConfig `yaml:"keywords"`
}

// KeywordConfig describes one keyword group.
type KeywordConfig struct {
	Name       string   `yaml:"name"`
	Weight     float64  `yaml:"weight"`
	Symbolic   bool     `yaml:"symbolic"`
	HighSignal bool     `yaml:"high_signal"`
	Terms      []string `yaml:"terms"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix            string `yaml:"key_prefix"`
	MaxResultsPerChannel int    `yaml:"max_results_per_channel"`
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
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Scorer.Driver == "" {
		c.Scorer.Driver = "heuristic"
	}
	if c.Scorer.Provider.Model == "" {
		c.Scorer.Provider.Model = "gpt-4o-mini"
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "trinetra:"
	}
	if c.Storage.MaxResultsPerChannel <= 0 {
		c.Storage.MaxResultsPerChannel = 1000
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Scorer.Driver {
	case "heuristic", "zeroshot":
	default:
		return fmt.Errorf("scorer.driver must be \"heuristic\" or \"zeroshot\", got %q", c.Scorer.Driver)
	}
	if c.Scorer.Driver == "zeroshot" && c.Scorer.Provider.APIKey == "" {
		return fmt.Errorf("scorer.provider.api_key is required for the zeroshot driver")
	}
	for i, kw := range c.Classifier.Keywords {
		if kw.Name == "" {
			return fmt.Errorf("classifier.keywords[%d].name is required", i)
		}
		if kw.Weight < 0 || kw.Weight > 1 {
			return fmt.Errorf("classifier.keywords.%s.weight must be in [0, 1], got %g", kw.Name, kw.Weight)
		}
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
