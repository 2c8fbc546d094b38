package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diamondprep/internal/diamonds"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "cut", cfg.Dataset.Mode)
	assert.Equal(t, DefaultSourceURL, cfg.Dataset.Source)
	assert.Equal(t, "csv", cfg.Dataset.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, "prometheus", cfg.Telemetry.Metrics)
	require.NoError(t, cfg.Validate())
}

func TestLoadFrom_NoFile(t *testing.T) {
	cfg, err := LoadFrom("")
	require.NoError(t, err)
	assert.Equal(t, Default().Dataset, cfg.Dataset)
}

func TestLoadFrom_File(t *testing.T) {
	path := writeConfigFile(t, `
dataset:
  mode: cut_binary
  source: ./diamonds.csv
  format: jsonl
  fetch_timeout: 5s
server:
  port: 9090
logging:
  level: debug
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "cut_binary", cfg.Dataset.Mode)
	assert.Equal(t, "./diamonds.csv", cfg.Dataset.Source)
	assert.Equal(t, "jsonl", cfg.Dataset.Format)
	assert.Equal(t, 5*time.Second, cfg.Dataset.FetchTimeout)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// untouched sections keep their defaults
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultRetryRate, cfg.Dataset.RetryRate)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "dataset:\n  mode: cut_binary\nserver:\n  port: 9090\n")
	t.Setenv("DIAMONDS_DATASET_MODE", "encoding")
	t.Setenv("DIAMONDS_SERVER_RATE_LIMIT_BURST", "7")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "encoding", cfg.Dataset.Mode)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 7, cfg.Server.RateLimit.Burst)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{"unknown mode", "dataset:\n  mode: sparkle\n", nil},
		{"unknown format", "dataset:\n  format: parquet\n", nil},
		{"bad port", "server:\n  port: 70000\n", nil},
		{"bad log level", "logging:\n  level: loud\n", nil},
		{"bad sample ratio", "telemetry:\n  sample_ratio: 2\n", nil},
		{"bad yaml", "dataset: [\n", nil},
		{"bad env duration", "", map[string]string{"DIAMONDS_DATASET_FETCH_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.content != "" {
				path = writeConfigFile(t, tt.content)
			}
			_, err := LoadFrom(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ConfigEnv(t *testing.T) {
	path := writeConfigFile(t, "dataset:\n  format: xlsx\n")
	t.Setenv("DIAMONDS_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "xlsx", cfg.Dataset.Format)
}

func TestValidate_Mode(t *testing.T) {
	cfg := Default()
	cfg.Dataset.Mode = ""
	assert.NoError(t, cfg.Validate())

	cfg.Dataset.Mode = "foo"
	err := cfg.Validate()
	var cfgErr *diamonds.UnknownConfigError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "foo", cfgErr.Mode)

	path := writeConfigFile(t, "dataset:\n  mode: sparkle\n")
	_, err = LoadFrom(path)
	assert.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, "sparkle", cfgErr.Mode)
}
