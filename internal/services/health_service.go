package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"diamondprep/internal/config"
	"diamondprep/internal/files"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	source    string
	paths     *config.Paths
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual dependency health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service for the given source and paths
func NewHealthService(version, source string, paths *config.Paths, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("source", source))

	return &HealthService{
		version:   version,
		source:    source,
		paths:     paths,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports whether the source and output directories are usable
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"source":  hs.checkSource(),
			"reports": hs.checkReportsDir(),
		},
	}

	for name, sh := range status.Services {
		if sh.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "Readiness check failed",
				slog.String("check", name),
				slog.String("message", sh.Message))
		}
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	return map[string]interface{}{
		"version":    hs.version,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"source":     hs.source,
		"uptime":     time.Since(hs.startTime).Seconds(),
		"start_time": hs.startTime.Format(time.RFC3339),
	}
}

func (hs *HealthService) checkSource() ServiceHealth {
	switch {
	case hs.source == "":
		return ServiceHealth{Status: "not_ready", Message: "no dataset source configured"}
	case files.IsRemote(hs.source):
		return ServiceHealth{Status: "ready", Message: "remote source"}
	case !config.FileExists(hs.source):
		return ServiceHealth{Status: "not_ready", Message: fmt.Sprintf("source not found: %s", hs.source)}
	}
	return ServiceHealth{Status: "ready", Message: "local source"}
}

func (hs *HealthService) checkReportsDir() ServiceHealth {
	if hs.paths == nil {
		return ServiceHealth{Status: "not_ready", Message: "paths not configured"}
	}

	info, err := os.Stat(hs.paths.ReportsDir)
	if err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("reports directory unavailable: %v", err),
		}
	}
	if !info.IsDir() {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("not a directory: %s", hs.paths.ReportsDir),
		}
	}
	return ServiceHealth{Status: "ready"}
}
