package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"salesheatmap/internal/dataprocessing"
)

// CSVWriter writes the heatmap as a wide CSV table
type CSVWriter struct {
	// BOMPrefix adds a UTF-8 BOM so Excel recognizes the encoding
	BOMPrefix bool
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter() CSVWriter {
	return CSVWriter{BOMPrefix: true}
}

func (CSVWriter) Extension() string { return FormatCSV }

func (c CSVWriter) Write(path string, result *dataprocessing.Result) error {
	slog.Info("Writing CSV file",
		slog.String("file_path", path),
		slog.Int("record_count", len(result.Rows)))

	return writeAtomic(path, func(w io.Writer) error {
		if c.BOMPrefix {
			if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
				return fmt.Errorf("failed to write BOM: %w", err)
			}
		}

		writer := csv.NewWriter(w)
		if err := writer.Write(header(result)); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}

		for i, row := range result.Rows {
			record := make([]string, 0, len(result.Weekdays)+1)
			record = append(record, row.Time)
			for _, day := range result.Weekdays {
				record = append(record, formatFloat(row.Values[day]))
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write record %d: %w", i, err)
			}
		}

		writer.Flush()
		return writer.Error()
	})
}

// formatFloat formats a cell with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
