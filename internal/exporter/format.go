package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"salesheatmap/internal/dataprocessing"
)

const (
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatXLSX    = "xlsx"
	FormatParquet = "parquet"
)

// Writer persists a heatmap result at path
type Writer interface {
	Write(path string, result *dataprocessing.Result) error
	Extension() string
}

// NewWriter returns the writer for a format name
func NewWriter(format string) (Writer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON, "":
		return JSONWriter{}, nil
	case FormatCSV:
		return NewCSVWriter(), nil
	case FormatXLSX:
		return XLSXWriter{}, nil
	case FormatParquet:
		return ParquetWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// FormatFromPath guesses the format from the file extension, JSON by default
func FormatFromPath(path string) string {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case FormatCSV, FormatXLSX, FormatParquet:
		return ext
	default:
		return FormatJSON
	}
}

// writeAtomic writes to a temporary file next to path and renames it into
// place once fn succeeds.
func writeAtomic(path string, fn func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = fn(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

// header returns the wide-table header: time then the observed weekdays
func header(result *dataprocessing.Result) []string {
	return append([]string{"time"}, result.Weekdays...)
}
