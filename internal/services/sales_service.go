package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"salesheatmap/internal/dataprocessing"
)

// SalesDataService reads the result file written by the processor. It never
// writes; regeneration is the processor's job and is expected to replace the
// file atomically.
type SalesDataService struct {
	resultFile string
	logger     *slog.Logger
}

// NewSalesDataService creates a service over the given result file
func NewSalesDataService(resultFile string, logger *slog.Logger) *SalesDataService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("SalesDataService initialized",
		slog.String("result_file", resultFile))

	return &SalesDataService{
		resultFile: resultFile,
		logger:     logger.With(slog.String("service", "sales_data")),
	}
}

// ResultFile returns the path being served
func (s *SalesDataService) ResultFile() string {
	return s.resultFile
}

// Open returns the raw result file. The caller must close it.
func (s *SalesDataService) Open(ctx context.Context) (*os.File, error) {
	f, err := os.Open(s.resultFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.WarnContext(ctx, "Result file missing",
				slog.String("result_file", s.resultFile))
			return nil, ErrNoSalesData
		}
		return nil, fmt.Errorf("failed to open result file: %w", err)
	}
	return f, nil
}

// Rows decodes the result file
func (s *SalesDataService) Rows(ctx context.Context) ([]dataprocessing.ResultRow, error) {
	f, err := s.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []dataprocessing.ResultRow
	if err := json.NewDecoder(f).Decode(&rows); err != nil {
		s.logger.ErrorContext(ctx, "Failed to decode result file",
			slog.String("result_file", s.resultFile),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrCorruptSalesData, err)
	}

	return rows, nil
}

// Hourly returns the result folded into 24 hourly rows
func (s *SalesDataService) Hourly(ctx context.Context) ([]dataprocessing.ResultRow, error) {
	rows, err := s.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return dataprocessing.HourlyView(rows), nil
}

// FileStatus describes the result file for health reporting
type FileStatus struct {
	Path     string `json:"path"`
	Exists   bool   `json:"exists"`
	Size     int64  `json:"size_bytes,omitempty"`
	Modified string `json:"modified,omitempty"`
}

// Status stats the result file
func (s *SalesDataService) Status(ctx context.Context) (FileStatus, error) {
	st := FileStatus{Path: s.resultFile}

	info, err := os.Stat(s.resultFile)
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("failed to stat result file: %w", err)
	}

	st.Exists = true
	st.Size = info.Size()
	st.Modified = info.ModTime().UTC().Format("2006-01-02T15:04:05Z")
	return st, nil
}
