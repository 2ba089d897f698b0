package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrDataFormat is the root of every dataset-wide failure
	ErrDataFormat = errors.New("data format error")

	// ErrUnparseableBillDates is returned when no row has a valid bill-open timestamp
	ErrUnparseableBillDates = fmt.Errorf("%w: bill-open column could not be parsed as datetime", ErrDataFormat)

	// ErrMissingColumn is returned when the export lacks a required column
	ErrMissingColumn = fmt.Errorf("%w: required column missing", ErrDataFormat)

	// ErrEmptyInput is returned when the export has no header row
	ErrEmptyInput = fmt.Errorf("%w: input has no header row", ErrDataFormat)
)

// Measure selects the numeric column summed into each heatmap cell
type Measure string

const (
	MeasureTotal    Measure = "total"
	MeasureQuantity Measure = "quantity"
)

// ParseMeasure converts a user supplied name into a Measure
func ParseMeasure(s string) (Measure, error) {
	switch Measure(strings.ToLower(strings.TrimSpace(s))) {
	case MeasureTotal, "revenue":
		return MeasureTotal, nil
	case MeasureQuantity, "qty":
		return MeasureQuantity, nil
	}
	return "", fmt.Errorf("unknown measure %q", s)
}

// Variant is a named measure and filtering policy
type Variant string

const (
	// VariantRevenue sums the monetary total over the whole export
	VariantRevenue Variant = "revenue"
	// VariantWeeklyQuantity sums quantities over the 7 days ending at the newest bill
	VariantWeeklyQuantity Variant = "weekly-quantity"
)

// DefaultRecentWindow is the trailing window used by VariantWeeklyQuantity
const DefaultRecentWindow = 7 * 24 * time.Hour

// ParseVariant converts a user supplied name into a Variant
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantRevenue, VariantWeeklyQuantity:
		return v, nil
	}
	return "", fmt.Errorf("unknown variant %q", s)
}

// Options returns the processing options the variant stands for
func (v Variant) Options() Options {
	switch v {
	case VariantWeeklyQuantity:
		return Options{Measure: MeasureQuantity, RecentWindow: DefaultRecentWindow}
	default:
		return Options{Measure: MeasureTotal}
	}
}

// Options configures a single aggregation pass
type Options struct {
	// Measure is the column summed per cell
	Measure Measure

	// RecentWindow keeps only rows billed after max(bill date) - RecentWindow.
	// Zero disables the filter.
	RecentWindow time.Duration
}

// Columns names the four export columns the pipeline reads
type Columns struct {
	BillOpen  string `yaml:"bill_open" envconfig:"BILL_OPEN"`
	OrderTime string `yaml:"order_time" envconfig:"ORDER_TIME"`
	Total     string `yaml:"total" envconfig:"TOTAL"`
	Quantity  string `yaml:"quantity" envconfig:"QUANTITY"`
}

// DefaultColumns returns the headers of the POS export
func DefaultColumns() Columns {
	return Columns{
		BillOpen:  "วันที่เปิดบิล",
		OrderTime: "เวลาสั่ง",
		Total:     "ราคารวม",
		Quantity:  "จำนวน",
	}
}

// Required lists the column names in a fixed order
func (c Columns) Required() []string {
	return []string{c.BillOpen, c.OrderTime, c.Total, c.Quantity}
}

// WithDefaults fills empty names from DefaultColumns
func (c Columns) WithDefaults() Columns {
	d := DefaultColumns()
	if c.BillOpen == "" {
		c.BillOpen = d.BillOpen
	}
	if c.OrderTime == "" {
		c.OrderTime = d.OrderTime
	}
	if c.Total == "" {
		c.Total = d.Total
	}
	if c.Quantity == "" {
		c.Quantity = d.Quantity
	}
	return c
}

// RawRecord is one loaded row, keyed by column header
type RawRecord map[string]string

// Table is a loaded export
type Table struct {
	Header  []string
	Records []RawRecord
	Columns Columns
}

// Optional is a float64 that may be missing after coercion
type Optional struct {
	Value float64
	Valid bool
}

// Some wraps a present value
func Some(v float64) Optional {
	return Optional{Value: v, Valid: true}
}

// NormalizedRecord is a RawRecord after parsing and coercion
type NormalizedRecord struct {
	BillDate       time.Time
	HasBillDate    bool
	OrderTimestamp time.Time
	HasOrderTime   bool
	Total          Optional
	Quantity       Optional
	// Weekday is the full English day name, empty when HasBillDate is false
	Weekday string
}

// TimeOfDay returns the order time as a duration since midnight
func (r NormalizedRecord) TimeOfDay() (time.Duration, bool) {
	if !r.HasOrderTime {
		return 0, false
	}
	t := r.OrderTimestamp
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond()), true
}

// Value returns the record's value for the given measure
func (r NormalizedRecord) Value(m Measure) Optional {
	if m == MeasureQuantity {
		return r.Quantity
	}
	return r.Total
}

// Summary describes one pipeline run
type Summary struct {
	RowsLoaded          int `json:"rows_loaded"`
	RowsWithoutBillDate int `json:"rows_without_bill_date"`
	RowsAfterFilter     int `json:"rows_after_filter"`
	// RowsOutsideWindow counts dated rows dropped by the recency window
	RowsOutsideWindow int       `json:"rows_outside_window"`
	Weekdays          []string  `json:"weekdays"`
	MaxBillDate       time.Time `json:"max_bill_date"`
}

// Result is the output of a pipeline run
type Result struct {
	Rows     []ResultRow
	Weekdays []string
	Measure  Measure
	Summary  Summary
}
