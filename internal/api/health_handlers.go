package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shirou/gopsutil/v4/disk"
)

// diskDegradedPercent is the data-directory usage above which the server reports degraded.
const diskDegradedPercent = 95.0

// Component health states.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma. Status is 503 when unhealthy.
type HealthOutput struct {
	Status int
	Body   HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"database": s.checkDatabase(ctx),
		"disk":     s.checkDisk(ctx),
	}

	overall := statusHealthy
	for _, c := range components {
		switch c.Status {
		case statusUnhealthy:
			overall = statusUnhealthy
		case statusDegraded:
			if overall == statusHealthy {
				overall = statusDegraded
			}
		}
	}

	status := http.StatusOK
	if overall == statusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	return &HealthOutput{
		Status: status,
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkDatabase pings the SQLite connection pool.
func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.opts.DB == nil {
		return ComponentHealth{
			Status:  statusDegraded,
			Message: "database not configured",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := s.opts.DB.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		s.logger.Warn("health check: database ping failed", "error", err)
		return ComponentHealth{
			Status:  statusUnhealthy,
			Latency: latency.String(),
			Message: "database unreachable",
		}
	}

	return ComponentHealth{
		Status:  statusHealthy,
		Latency: latency.String(),
	}
}

// checkDisk reports usage of the filesystem holding the data directory.
func (s *Server) checkDisk(ctx context.Context) ComponentHealth {
	if s.opts.DataPath == "" {
		return ComponentHealth{
			Status:  statusDegraded,
			Message: "data path not configured",
		}
	}

	usage, err := disk.UsageWithContext(ctx, s.opts.DataPath)
	if err != nil {
		s.logger.Warn("health check: disk usage failed", "path", s.opts.DataPath, "error", err)
		return ComponentHealth{
			Status:  statusDegraded,
			Message: "disk usage unavailable",
		}
	}

	return diskHealth(usage.UsedPercent, usage.Free)
}

func diskHealth(usedPercent float64, free uint64) ComponentHealth {
	msg := fmt.Sprintf("%.1f%% used, %d MiB free", usedPercent, free>>20)
	if usedPercent > diskDegradedPercent {
		return ComponentHealth{Status: statusDegraded, Message: msg}
	}
	return ComponentHealth{Status: statusHealthy, Message: msg}
}
