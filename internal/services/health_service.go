package services

import (
	"context"
	"runtime"
	"time"

	"salescli/internal/config"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	paths     *config.Paths
	startTime time.Time
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	InputFile bool      `json:"input_file_present"`
}

// VersionInfo represents build version information
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, paths *config.Paths) *HealthService {
	return &HealthService{
		version:   version,
		paths:     paths,
		startTime: time.Now(),
	}
}

// HealthCheck reports overall service health. The service is degraded rather
// than down when the input CSV is missing, since report endpoints will fail
// but the process itself is fine.
func (s *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	inputPresent := config.FileExists(s.paths.InputCSV)

	status := "healthy"
	if !inputPresent {
		status = "degraded"
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		InputFile: inputPresent,
	}
}

// LivenessCheck reports process liveness.
func (s *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	}
}

// Version returns build version information.
func (s *HealthService) Version() VersionInfo {
	return VersionInfo{
		Version:   s.version,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
