package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"salesheatmap/internal/config"
	"salesheatmap/internal/dataprocessing"
	"salesheatmap/internal/exporter"
	"salesheatmap/internal/files"
	"salesheatmap/internal/infrastructure"
	"salesheatmap/internal/validation"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type options struct {
	configFile  string
	variant     string
	measure     string
	windowDays  int
	format      string
	encoding    string
	sheet       string
	logLevel    string
	trace       bool
	metricsFile string
	input       string
	output      string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("processor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: processor [flags] [input file or directory] [output]\n\n")
		fmt.Fprintf(stderr, "Without an input the newest export in the data directory is used.\n\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.configFile, "config", "", "config file (defaults to SALES_CONFIG_FILE or ./config.yaml)")
	fs.StringVar(&opts.variant, "variant", "", "preset: revenue or weekly-quantity")
	fs.StringVar(&opts.measure, "measure", "", "column to sum: total or quantity")
	fs.IntVar(&opts.windowDays, "window-days", -1, "keep bills within this many days of the newest bill, 0 keeps all")
	fs.StringVar(&opts.format, "format", "", "output format: json, csv, xlsx or parquet (defaults to the output extension)")
	fs.StringVar(&opts.encoding, "encoding", "", "CSV encoding: utf-8 or windows-874")
	fs.StringVar(&opts.sheet, "sheet", "", "worksheet to read from an XLSX export")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level override")
	fs.BoolVar(&opts.trace, "trace", false, "print pipeline spans to stderr")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.input = fs.Arg(0)
	case 2:
		opts.input, opts.output = fs.Arg(0), fs.Arg(1)
	default:
		fs.Usage()
		return nil, errors.New("expected at most an input and an output")
	}
	return opts, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// newLogger logs to stderr unless the config asks for a log file
func newLogger(cfg config.LoggingConfig, stderr io.Writer) (*slog.Logger, error) {
	if cfg.Output == "console" {
		return infrastructure.NewLogger(stderr, cfg.Level), nil
	}
	return infrastructure.InitializeLogger(cfg)
}

// engineOptions layers variant, then explicit flags, over the configured defaults
func engineOptions(cfg *config.Config, opts *options) (dataprocessing.Options, error) {
	engine, err := cfg.Processing.Options()
	if err != nil {
		return engine, err
	}
	if opts.variant != "" {
		v, err := dataprocessing.ParseVariant(opts.variant)
		if err != nil {
			return engine, err
		}
		engine = v.Options()
	}
	if opts.measure != "" {
		m, err := dataprocessing.ParseMeasure(opts.measure)
		if err != nil {
			return engine, err
		}
		engine.Measure = m
	}
	if opts.windowDays >= 0 {
		engine.RecentWindow = time.Duration(opts.windowDays) * 24 * time.Hour
	}
	return engine, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return exitFailure
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	logger, err := newLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return exitFailure
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.EnsureTraceID(ctx)

	paths, err := cfg.ResolvePaths()
	if err != nil {
		logger.ErrorContext(ctx, "Failed to resolve paths", slog.String("error", err.Error()))
		return exitFailure
	}
	if opts.output == "" {
		opts.output = paths.ResultFile
	}
	if opts.input == "" {
		opts.input = paths.DataDir
	} else if !config.FileExists(opts.input) && !filepath.IsAbs(opts.input) {
		// a bare name may refer to an export inside the data directory
		if inData := paths.GetDataPath(opts.input); config.FileExists(inData) {
			opts.input = inData
		}
	}

	input, err := files.NewDiscovery("").ResolveInput(opts.input)
	if err != nil {
		logger.ErrorContext(ctx, "No export to process",
			slog.String("input", opts.input),
			slog.String("error", err.Error()))
		return exitUsage
	}
	if input != opts.input {
		logger.InfoContext(ctx, "Using newest export", slog.String("file", input))
	}
	opts.input = input

	v := validation.NewFileValidator(infrastructure.WithComponent(logger, "validation"))
	if err := v.ValidateRequest(validation.ProcessRequest{
		Input:      opts.input,
		Output:     opts.output,
		Format:     opts.format,
		Encoding:   opts.encoding,
		Measure:    opts.measure,
		Variant:    opts.variant,
		WindowDays: opts.windowDays,
	}); err != nil {
		logger.ErrorContext(ctx, "Invalid arguments", slog.String("error", err.Error()))
		return exitUsage
	}

	engine, err := engineOptions(cfg, opts)
	if err != nil {
		logger.ErrorContext(ctx, "Invalid processing options", slog.String("error", err.Error()))
		return exitUsage
	}

	load := cfg.Processing.LoadOptions()
	if opts.encoding != "" {
		load.Encoding = opts.encoding
	}
	if opts.sheet != "" {
		load.Sheet = opts.sheet
	}

	format := opts.format
	if format == "" {
		format = exporter.FormatFromPath(opts.output)
	}
	writer, err := exporter.NewWriter(format)
	if err != nil {
		logger.ErrorContext(ctx, "Invalid output format", slog.String("error", err.Error()))
		return exitUsage
	}

	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.MetricExporter = "none"
	if opts.metricsFile != "" {
		otelCfg.MetricExporter = "prometheus"
	}
	if opts.trace {
		otelCfg.TraceExporter = "stdout"
		otelCfg.TraceWriter = stderr
	}
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize telemetry", slog.String("error", err.Error()))
		return exitFailure
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create pipeline metrics", slog.String("error", err.Error()))
		return exitFailure
	}

	logger.InfoContext(ctx, "Processing sales export",
		slog.String("input", opts.input),
		slog.String("output", opts.output),
		slog.String("format", writer.Extension()),
		slog.String("measure", string(engine.Measure)),
		slog.Duration("recent_window", engine.RecentWindow))

	processor := dataprocessing.NewProcessor(logger, dataprocessing.WithObserver(metrics))
	result, err := processor.ProcessFile(ctx, opts.input, load, engine)
	if opts.metricsFile != "" {
		if merr := providers.WriteMetricsFile(opts.metricsFile); merr != nil {
			logger.WarnContext(ctx, "Failed to write metrics file",
				slog.String("file", opts.metricsFile),
				slog.String("error", merr.Error()))
		}
	}
	if err != nil {
		logger.ErrorContext(ctx, "Processing failed",
			slog.String("input", opts.input),
			slog.String("error", err.Error()))
		return exitFailure
	}

	if err := writer.Write(opts.output, result); err != nil {
		logger.ErrorContext(ctx, "Failed to write result",
			slog.String("output", opts.output),
			slog.String("error", err.Error()))
		return exitFailure
	}

	abs, _ := filepath.Abs(opts.output)
	logger.InfoContext(ctx, "Heatmap written",
		slog.String("output", abs),
		slog.Int("rows", len(result.Rows)),
		slog.Any("weekdays", result.Weekdays),
		slog.Int("rows_loaded", result.Summary.RowsLoaded),
		slog.Int("rows_after_filter", result.Summary.RowsAfterFilter))
	return exitOK
}
