package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths, resolved against one base directory
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	CacheDir   string
	LogsDir    string
}

// GetPaths resolves the configured directories. Relative entries are joined
// onto BaseDir, which defaults to the directory holding the executable.
func GetPaths(pc PathsConfig) (*Paths, error) {
	base := pc.BaseDir
	if base == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}

		// Resolve symlinks to get the actual executable location
		exe, err = filepath.EvalSymlinks(exe)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
		}
		base = filepath.Dir(exe)
	}

	resolve := func(dir, fallback string) string {
		if dir == "" {
			dir = fallback
		}
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(base, dir)
	}

	return &Paths{
		BaseDir:    base,
		DataDir:    resolve(pc.DataDir, DefaultDataDir),
		ReportsDir: resolve(pc.ReportsDir, DefaultReportsDir),
		CacheDir:   resolve(pc.CacheDir, DefaultCacheDir),
		LogsDir:    resolve(pc.LogsDir, DefaultLogsDir),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ReportsDir,
		p.CacheDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetCachePath returns the path for a cache file
func (p *Paths) GetCachePath(filename string) string {
	return filepath.Join(p.CacheDir, filename)
}

// GetDataPath returns the path for a dataset file
func (p *Paths) GetDataPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved directories
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("reports", p.ReportsDir),
			slog.String("cache", p.CacheDir),
			slog.String("logs", p.LogsDir),
		))
}
