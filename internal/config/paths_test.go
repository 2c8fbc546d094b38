package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaths(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere")

	paths, err := GetPaths(PathsConfig{BaseDir: base, LogsDir: abs})
	require.NoError(t, err)

	assert.Equal(t, base, paths.BaseDir)
	assert.Equal(t, filepath.Join(base, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(base, "data", "reports"), paths.ReportsDir)
	assert.Equal(t, filepath.Join(base, "data", "cache"), paths.CacheDir)
	assert.Equal(t, abs, paths.LogsDir)

	assert.Equal(t, filepath.Join(paths.ReportsDir, "price.png"), paths.GetReportPath("price.png"))
	assert.Equal(t, filepath.Join(paths.LogsDir, "app.log"), paths.GetLogPath("app.log"))
	assert.Equal(t, filepath.Join(paths.CacheDir, "src.csv"), paths.GetCachePath("src.csv"))
	assert.Equal(t, filepath.Join(paths.DataDir, "d.csv"), paths.GetDataPath("d.csv"))
}

func TestGetPaths_ExecutableBase(t *testing.T) {
	paths, err := GetPaths(PathsConfig{})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(paths.BaseDir))
}

func TestEnsureDirectories(t *testing.T) {
	paths, err := GetPaths(PathsConfig{BaseDir: t.TempDir()})
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.DataDir, paths.ReportsDir, paths.CacheDir, paths.LogsDir} {
		assert.True(t, FileExists(dir), dir)
	}
	assert.False(t, FileExists(filepath.Join(paths.BaseDir, "missing")))
}
