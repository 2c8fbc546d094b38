package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diamondprep/internal/config"
	"diamondprep/internal/shared/testutil"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	paths, err := config.GetPaths(config.PathsConfig{BaseDir: t.TempDir()})
	require.NoError(t, err)
	return paths
}

func TestHealthService_HealthCheck(t *testing.T) {
	hs := NewHealthService("1.2.3", "", nil, testLogger())

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)

	alive := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", alive.Status)
	assert.Contains(t, alive.Runtime, "goroutines")

	assert.Equal(t, "1.2.3", hs.Version()["version"])
}

func TestHealthService_Readiness(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, paths.EnsureDirectories())

	source := filepath.Join(paths.DataDir, "diamonds.csv")
	require.NoError(t, os.WriteFile(source, []byte(testutil.SampleCSV), 0644))

	tests := []struct {
		name    string
		source  string
		paths   *config.Paths
		want    string
		failing string
	}{
		{"local source", source, paths, "ready", ""},
		{"remote source", config.DefaultSourceURL, paths, "ready", ""},
		{"missing source", filepath.Join(paths.DataDir, "missing.csv"), paths, "not_ready", "source"},
		{"no source", "", paths, "not_ready", "source"},
		{"no paths", source, nil, "not_ready", "reports"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := NewHealthService("1.0.0", tt.source, tt.paths, testLogger())

			status := hs.ReadinessCheck(context.Background())
			assert.Equal(t, tt.want, status.Status)
			if tt.failing != "" {
				assert.Equal(t, "not_ready", status.Services[tt.failing].Status)
				assert.NotEmpty(t, status.Services[tt.failing].Message)
			}
		})
	}
}

func TestHealthService_ReportsDirMissing(t *testing.T) {
	hs := NewHealthService("1.0.0", config.DefaultSourceURL, testPaths(t), testLogger())

	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)
	assert.Equal(t, "not_ready", status.Services["reports"].Status)
}
