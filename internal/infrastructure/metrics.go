package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"salesheatmap/internal/dataprocessing"
)

// PipelineMetrics records aggregation runs. It satisfies
// dataprocessing.Observer.
type PipelineMetrics struct {
	runs               metric.Int64Counter
	rowsLoaded         metric.Int64Counter
	rowsWithoutBill    metric.Int64Counter
	rowsFilteredOut    metric.Int64Counter
	aggregationSeconds metric.Float64Histogram
}

var _ dataprocessing.Observer = (*PipelineMetrics)(nil)

// NewPipelineMetrics creates the aggregation instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	runs, err := meter.Int64Counter(
		"heatmap_runs_total",
		metric.WithDescription("Total number of aggregation runs"),
	)
	if err != nil {
		return nil, err
	}

	rowsLoaded, err := meter.Int64Counter(
		"heatmap_rows_loaded_total",
		metric.WithDescription("Rows read from input files"),
	)
	if err != nil {
		return nil, err
	}

	rowsWithoutBill, err := meter.Int64Counter(
		"heatmap_rows_without_bill_date_total",
		metric.WithDescription("Rows whose bill-open timestamp could not be parsed"),
	)
	if err != nil {
		return nil, err
	}

	rowsFilteredOut, err := meter.Int64Counter(
		"heatmap_rows_filtered_out_total",
		metric.WithDescription("Rows dropped by the recency window"),
	)
	if err != nil {
		return nil, err
	}

	aggregationSeconds, err := meter.Float64Histogram(
		"heatmap_aggregation_duration_seconds",
		metric.WithDescription("Aggregation run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		runs:               runs,
		rowsLoaded:         rowsLoaded,
		rowsWithoutBill:    rowsWithoutBill,
		rowsFilteredOut:    rowsFilteredOut,
		aggregationSeconds: aggregationSeconds,
	}, nil
}

// ObserveRun records one aggregation run
func (m *PipelineMetrics) ObserveRun(ctx context.Context, summary dataprocessing.Summary, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(attribute.String("status", status))

	m.runs.Add(ctx, 1, attrs)
	m.aggregationSeconds.Record(ctx, elapsed.Seconds(), attrs)

	if err != nil {
		return
	}

	m.rowsLoaded.Add(ctx, int64(summary.RowsLoaded))
	m.rowsWithoutBill.Add(ctx, int64(summary.RowsWithoutBillDate))
	if summary.RowsOutsideWindow > 0 {
		m.rowsFilteredOut.Add(ctx, int64(summary.RowsOutsideWindow))
	}
}
