package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all service configuration
type Config struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	DataDir   string `yaml:"data_dir"`
	StoreFile string `yaml:"store_file"`
	LogFile   string `yaml:"log_file"`
	IndexDir  string `yaml:"index_dir"` // Empty disables search
	Workers   int    `yaml:"workers"`
	StoreURL  string `yaml:"store_url"`
	AdminURL  string `yaml:"admin_url"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads configuration from a YAML file and applies defaults and
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	applyDefaults(cfg)
	if err := applyEnvironmentOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// GetConfigPath returns the config file path from environment or default
func GetConfigPath() string {
	if path := os.Getenv("PUBLISHER_CONFIG"); path != "" {
		return path
	}
	return "./publisher.yaml"
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "."
	}
	if cfg.StoreFile == "" {
		cfg.StoreFile = "products_database.json"
	}
	if cfg.LogFile == "" {
		cfg.LogFile = "published_products.log"
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
	if cfg.StoreURL == "" {
		cfg.StoreURL = "https://mockstore.example.com/products"
	}
	if cfg.AdminURL == "" {
		cfg.AdminURL = "https://admin.mockstore.example.com/products"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
}

func applyEnvironmentOverrides(cfg *Config) error {
	if port := os.Getenv("PUBLISHER_PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PUBLISHER_PORT %q: %w", port, err)
		}
		cfg.Port = n
	}
	if dir := os.Getenv("PUBLISHER_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	return nil
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorePath returns the store file location; absolute store_file values are used as-is
func (c *Config) StorePath() string {
	return c.resolve(c.StoreFile)
}

// LogPath returns the audit log location
func (c *Config) LogPath() string {
	return c.resolve(c.LogFile)
}

// IndexPath returns the search index location, or "" when search is disabled
func (c *Config) IndexPath() string {
	if c.IndexDir == "" {
		return ""
	}
	return c.resolve(c.IndexDir)
}

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// Level parses LogLevel
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// NewLogger builds the service logger described by LogLevel and LogFormat
func (c *Config) NewLogger() (*slog.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}
