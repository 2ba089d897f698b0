package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"salesheatmap/internal/dataprocessing"
)

// JSONWriter writes the rows as an indented JSON array
type JSONWriter struct{}

func (JSONWriter) Extension() string { return FormatJSON }

func (JSONWriter) Write(path string, result *dataprocessing.Result) error {
	slog.Info("Writing JSON file",
		slog.String("file_path", path),
		slog.Int("row_count", len(result.Rows)))

	return writeAtomic(path, func(w io.Writer) error {
		return EncodeJSON(w, result.Rows)
	})
}

// EncodeJSON writes rows with two-space indentation and a trailing newline
func EncodeJSON(w io.Writer, rows []dataprocessing.ResultRow) error {
	if rows == nil {
		rows = []dataprocessing.ResultRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
