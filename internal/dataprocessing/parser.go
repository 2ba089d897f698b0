package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Supported text encodings for CSV exports
const (
	EncodingUTF8       = "utf-8"
	EncodingWindows874 = "windows-874"
	EncodingTIS620     = "tis-620"
)

// LoadOptions configures how an export is read
type LoadOptions struct {
	Columns  Columns
	Encoding string
	// Sheet selects the worksheet of an XLSX export, the first sheet when empty
	Sheet string
	// Delimiter defaults to a comma
	Delimiter rune
}

// DefaultLoadOptions returns options for a UTF-8, comma separated POS export
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Columns:   DefaultColumns(),
		Encoding:  EncodingUTF8,
		Delimiter: ',',
	}
}

// LoadFile reads a CSV or XLSX export depending on the file extension
func LoadFile(path string, opts LoadOptions) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return LoadXLSX(path, opts)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return LoadCSV(f, opts)
}

// LoadCSV reads a delimited export. A leading byte order mark is stripped.
func LoadCSV(r io.Reader, opts LoadOptions) (*Table, error) {
	dec, err := decoderFor(opts.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(dec)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return buildTable(rows, opts.Columns)
}

// LoadXLSX reads the rows of one worksheet of an XLSX export. Date-typed
// bill-open and order-time cells are converted to the text layouts the
// normalizer expects.
func LoadXLSX(path string, opts LoadOptions) (*Table, error) {
	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	convertDateCells(rows, opts.Columns.WithDefaults(), date1904)

	slog.Debug("Loaded worksheet",
		slog.String("file", path),
		slog.String("sheet", sheet),
		slog.Int("rows", len(rows)))

	return buildTable(rows, opts.Columns)
}

// convertDateCells rewrites numeric date serials in the bill-open and
// order-time columns as text. Cells that are already text are left alone.
func convertDateCells(rows [][]string, cols Columns, date1904 bool) {
	if len(rows) == 0 {
		return
	}

	layouts := map[int]string{}
	for i, h := range rows[0] {
		switch strings.TrimSpace(h) {
		case cols.BillOpen:
			layouts[i] = BillOpenLayout
		case cols.OrderTime:
			layouts[i] = orderTimeCellLayout
		}
	}

	for _, row := range rows[1:] {
		for i, layout := range layouts {
			if i >= len(row) {
				continue
			}
			serial, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			if err != nil || serial < 0 {
				continue
			}
			t, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				continue
			}
			row[i] = t.Round(time.Second).Format(layout)
		}
	}
}

func decoderFor(name string) (transform.Transformer, error) {
	var enc encoding.Encoding
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EncodingUTF8, "utf8":
		enc = unicode.UTF8
	case EncodingWindows874, EncodingTIS620, "cp874":
		enc = charmap.Windows874
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc.NewDecoder(), nil
}

// buildTable maps the header row onto every data row. Short rows get empty
// strings for the missing cells.
func buildTable(rows [][]string, cols Columns) (*Table, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	cols = cols.WithDefaults()

	header := make([]string, len(rows[0]))
	present := make(map[string]bool, len(header))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
		present[header[i]] = true
	}

	for _, name := range cols.Required() {
		if !present[name] {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}

	table := &Table{
		Header:  header,
		Records: make([]RawRecord, 0, len(rows)-1),
		Columns: cols,
	}

	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := make(RawRecord, len(header))
		for i, name := range header {
			// a repeated header keeps its first column
			if _, dup := rec[name]; dup {
				continue
			}
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		table.Records = append(table.Records, rec)
	}

	return table, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
