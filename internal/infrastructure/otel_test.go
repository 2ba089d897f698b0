package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesheatmap/internal/dataprocessing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitializeOTel(t *testing.T) {
	providers, err := InitializeOTel(nil, quietLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestInitializeOTel_StdoutTracing(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "stdout"
	cfg.TraceWriter = &buf
	cfg.MetricExporter = "none"

	providers, err := InitializeOTel(cfg, quietLogger())
	require.NoError(t, err)

	ctx, span := providers.Tracer.Start(context.Background(), "test-operation")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	span.End()

	require.NoError(t, providers.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "test-operation")
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "jaeger"
	_, err := InitializeOTel(cfg, quietLogger())
	assert.Error(t, err)

	cfg = DefaultOTelConfig()
	cfg.MetricExporter = "statsd"
	_, err = InitializeOTel(cfg, quietLogger())
	assert.Error(t, err)
}

func TestPipelineMetrics_Exported(t *testing.T) {
	providers, err := InitializeOTel(nil, quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := NewPipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.ObserveRun(ctx, dataprocessing.Summary{
		RowsLoaded:          10,
		RowsWithoutBillDate: 2,
		RowsAfterFilter:     6,
		RowsOutsideWindow:   2,
	}, 250*time.Millisecond, nil)
	metrics.ObserveRun(ctx, dataprocessing.Summary{}, time.Millisecond, errors.New("boom"))

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "heatmap_rows_loaded_total")
	assert.Contains(t, body, "heatmap_rows_without_bill_date_total")
	assert.Regexp(t, `heatmap_rows_filtered_out_total(\{[^}]*\})? 2\n`, body)
	assert.Regexp(t, `heatmap_rows_without_bill_date_total(\{[^}]*\})? 2\n`, body)
	assert.Contains(t, body, `status="error"`)
	assert.Contains(t, body, "heatmap_aggregation_duration_seconds")
}
