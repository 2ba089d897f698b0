package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"salesheatmap/internal/dataprocessing"
)

// XLSXSheet is the name of the single sheet in exported workbooks
const XLSXSheet = "Heatmap"

// XLSXWriter writes the wide table into an Excel workbook
type XLSXWriter struct{}

func (XLSXWriter) Extension() string { return FormatXLSX }

func (XLSXWriter) Write(path string, result *dataprocessing.Result) error {
	slog.Info("Writing XLSX file",
		slog.String("file_path", path),
		slog.Int("row_count", len(result.Rows)))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", XLSXSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	head := header(result)
	cells := make([]interface{}, len(head))
	for i, h := range head {
		cells[i] = h
	}
	if err := f.SetSheetRow(XLSXSheet, "A1", &cells); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range result.Rows {
		cells := make([]interface{}, 0, len(head))
		cells = append(cells, row.Time)
		for _, day := range result.Weekdays {
			cells = append(cells, row.Values[day])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(XLSXSheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	return writeAtomic(path, func(w io.Writer) error {
		if err := f.Write(w); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		return nil
	})
}
