package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "salesheatmap/dataprocessing"

// Observer receives the outcome of every pipeline run
type Observer interface {
	ObserveRun(ctx context.Context, summary Summary, elapsed time.Duration, err error)
}

// Processor runs the normalize, filter and aggregate stages over a loaded table
type Processor struct {
	logger   *slog.Logger
	observer Observer
	tracer   trace.Tracer
}

// ProcessorOption customizes a Processor
type ProcessorOption func(*Processor)

// WithObserver reports run outcomes to o
func WithObserver(o Observer) ProcessorOption {
	return func(p *Processor) {
		p.observer = o
	}
}

// NewProcessor creates a new processor instance
func NewProcessor(logger *slog.Logger, opts ...ProcessorOption) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		logger: logger.With(slog.String("component", "processor")),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessFile loads path and processes it
func (p *Processor) ProcessFile(ctx context.Context, path string, load LoadOptions, opts Options) (*Result, error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "dataprocessing.load",
		trace.WithAttributes(attribute.String("file", path)))
	table, err := LoadFile(path, load)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		err = fmt.Errorf("failed to load %s: %w", path, err)
		if p.observer != nil {
			p.observer.ObserveRun(ctx, Summary{}, time.Since(start), err)
		}
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", len(table.Records)))
	span.End()

	return p.Process(ctx, table, opts)
}

// Process normalizes, filters and aggregates table. It either returns a
// complete result or an error; there are no partial results.
func (p *Processor) Process(ctx context.Context, table *Table, opts Options) (result *Result, err error) {
	start := time.Now()
	if opts.Measure == "" {
		opts.Measure = MeasureTotal
	}

	ctx, span := p.tracer.Start(ctx, "dataprocessing.process",
		trace.WithAttributes(
			attribute.String("measure", string(opts.Measure)),
			attribute.String("recent_window", opts.RecentWindow.String()),
		))
	defer span.End()

	summary := Summary{RowsLoaded: len(table.Records)}
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if p.observer != nil {
			p.observer.ObserveRun(ctx, summary, time.Since(start), err)
		}
	}()

	records, err := Normalize(table)
	if err != nil {
		p.logger.ErrorContext(ctx, "Normalization failed",
			slog.Int("rows", len(table.Records)),
			slog.String("error", err.Error()))
		return nil, err
	}

	for _, r := range records {
		if !r.HasBillDate {
			summary.RowsWithoutBillDate++
		}
	}
	summary.MaxBillDate, _ = MaxBillDate(records)

	records = FilterRecent(records, opts.RecentWindow)
	summary.RowsAfterFilter = len(records)
	if opts.RecentWindow > 0 {
		summary.RowsOutsideWindow = summary.RowsLoaded - summary.RowsWithoutBillDate - summary.RowsAfterFilter
	}

	rows := Aggregate(records, Buckets(), opts.Measure)
	summary.Weekdays = ObservedWeekdays(records)

	p.logger.InfoContext(ctx, "Aggregation complete",
		slog.String("measure", string(opts.Measure)),
		slog.Int("rows_loaded", summary.RowsLoaded),
		slog.Int("rows_without_bill_date", summary.RowsWithoutBillDate),
		slog.Int("rows_after_filter", summary.RowsAfterFilter),
		slog.Any("weekdays", summary.Weekdays),
		slog.Duration("elapsed", time.Since(start)))

	return &Result{
		Rows:     rows,
		Weekdays: summary.Weekdays,
		Measure:  opts.Measure,
		Summary:  summary,
	}, nil
}
