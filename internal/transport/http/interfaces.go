package http

import (
	"context"
	"os"

	"salesheatmap/internal/dataprocessing"
	"salesheatmap/internal/services"
)

// SalesDataServiceInterface is what the sales handler needs from the service layer
type SalesDataServiceInterface interface {
	Open(ctx context.Context) (*os.File, error)
	Hourly(ctx context.Context) ([]dataprocessing.ResultRow, error)
}

// HealthServiceInterface is what the health handler needs from the service layer
type HealthServiceInterface interface {
	Check(ctx context.Context) services.HealthStatus
}

var (
	_ SalesDataServiceInterface = (*services.SalesDataService)(nil)
	_ HealthServiceInterface    = (*services.HealthService)(nil)
)
