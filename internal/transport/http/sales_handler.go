package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "salesheatmap/internal/errors"
	"salesheatmap/internal/exporter"
	"salesheatmap/internal/infrastructure"
	"salesheatmap/internal/middleware"
	"salesheatmap/internal/services"
)

// SalesHandler serves the processed heatmap
type SalesHandler struct {
	service      SalesDataServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(service SalesDataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SalesHandler {
	return &SalesHandler{
		service:      service,
		logger:       infrastructure.WithComponent(logger, "sales_handler"),
		errorHandler: errorHandler,
	}
}

// Routes returns the sales routes, mounted under /api/sales-data
func (h *SalesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetSalesData)
	r.Get("/hourly", h.GetHourly)
	return r
}

// GetSalesData handles GET /api/sales-data. The file is copied verbatim.
func (h *SalesHandler) GetSalesData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	f, err := h.service.Open(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	n, err := io.Copy(w, f)
	if err != nil {
		// Headers are gone; all we can do is log.
		h.logger.ErrorContext(ctx, "Failed to stream result file",
			slog.String("request_id", middleware.GetRequestID(ctx)),
			slog.Int64("bytes_written", n),
			slog.String("error", err.Error()))
		return
	}

	h.logger.DebugContext(ctx, "Served sales data",
		slog.String("request_id", middleware.GetRequestID(ctx)),
		slog.Int64("bytes", n))
}

// GetHourly handles GET /api/sales-data/hourly
func (h *SalesHandler) GetHourly(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Hourly(r.Context())
	if errors.Is(err, services.ErrCorruptSalesData) {
		err = apierrors.ErrSalesDataCorrupted.Wrap(err)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := exporter.EncodeJSON(w, rows); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to encode hourly view",
			slog.String("error", err.Error()))
	}
}
