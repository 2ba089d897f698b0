package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	sales     *SalesDataService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	BuildTime string                 `json:"build_time,omitempty"`
	Uptime    string                 `json:"uptime"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	SalesData FileStatus             `json:"sales_data"`
}

const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// NewHealthService creates a new health service
func NewHealthService(version, buildTime string, sales *SalesDataService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		sales:     sales,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// Check reports the server as degraded until a result file exists
func (h *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC(),
		Version:   h.version,
		BuildTime: h.buildTime,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Runtime: map[string]interface{}{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
			"os":         runtime.GOOS,
			"arch":       runtime.GOARCH,
		},
	}

	fileStatus, err := h.sales.Status(ctx)
	status.SalesData = fileStatus
	if err != nil {
		h.logger.WarnContext(ctx, "Result file status check failed",
			slog.String("error", err.Error()))
	}
	if err != nil || !fileStatus.Exists {
		status.Status = StatusDegraded
	}

	return status
}
