package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/parquet-go/parquet-go"

	"salesheatmap/internal/dataprocessing"
)

// CellRecord is one heatmap cell in long format
type CellRecord struct {
	Time    string  `parquet:"time"`
	Weekday string  `parquet:"weekday"`
	Value   float64 `parquet:"value"`
}

// ParquetWriter writes one record per (bucket, weekday) cell
type ParquetWriter struct{}

func (ParquetWriter) Extension() string { return FormatParquet }

func (ParquetWriter) Write(path string, result *dataprocessing.Result) error {
	records := LongFormat(result)

	slog.Info("Writing Parquet file",
		slog.String("file_path", path),
		slog.Int("record_count", len(records)))

	return writeAtomic(path, func(w io.Writer) error {
		if err := parquet.Write(w, records); err != nil {
			return fmt.Errorf("failed to write parquet: %w", err)
		}
		return nil
	})
}

// LongFormat flattens rows into cells, bucket-major then weekday order
func LongFormat(result *dataprocessing.Result) []CellRecord {
	records := make([]CellRecord, 0, len(result.Rows)*len(result.Weekdays))
	for _, row := range result.Rows {
		for _, day := range result.Weekdays {
			records = append(records, CellRecord{Time: row.Time, Weekday: day, Value: row.Values[day]})
		}
	}
	return records
}
