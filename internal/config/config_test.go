package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "publisher.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, "products_database.json", cfg.StoreFile)
	assert.Equal(t, "published_products.log", cfg.LogFile)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "https://mockstore.example.com/products", cfg.StoreURL)
	assert.Equal(t, "https://admin.mockstore.example.com/products", cfg.AdminURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.IndexPath())
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrideDefaults(t *testing.T) {
	path := writeConfig(t, `
host: 127.0.0.1
port: 9090
data_dir: /var/lib/publisher
store_file: db.json
log_file: /var/log/publisher.log
index_dir: catalog.bleve
workers: 8
log_level: debug
log_format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "/var/lib/publisher/db.json", cfg.StorePath())
	assert.Equal(t, "/var/log/publisher.log", cfg.LogPath())
	assert.Equal(t, "/var/lib/publisher/catalog.bleve", cfg.IndexPath())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("PUBLISHER_PORT", "7070")
	t.Setenv("PUBLISHER_DATA_DIR", "/tmp/pub")

	cfg, err := Load(writeConfig(t, "port: 9090\n"))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "/tmp/pub/products_database.json", cfg.StorePath())
}

func TestLoadInvalidEnvPort(t *testing.T) {
	t.Setenv("PUBLISHER_PORT", "eighty")

	_, err := Load(writeConfig(t, "\n"))
	assert.ErrorContains(t, err, "PUBLISHER_PORT")
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "port: [not a number\n"))
	assert.ErrorContains(t, err, "parse config yaml")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"port too high", func(c *Config) { c.Port = 70000 }, "port"},
		{"negative port", func(c *Config) { c.Port = -1 }, "port"},
		{"no workers", func(c *Config) { c.Workers = -2 }, "workers"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("PUBLISHER_CONFIG", "")
	assert.Equal(t, "./publisher.yaml", GetConfigPath())

	t.Setenv("PUBLISHER_CONFIG", "/etc/publisher.yaml")
	assert.Equal(t, "/etc/publisher.yaml", GetConfigPath())
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.NotNil(t, logger)

	cfg.LogFormat = "json"
	logger, err = cfg.NewLogger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
