package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// BillOpenLayout is the exact layout of the bill-open column
	BillOpenLayout = "2006-01-02 15:04:05"

	dateLayout = "2006-01-02"

	// orderTimeCellLayout renders a date-typed order-time cell
	orderTimeCellLayout = "15:04:05"
)

// Order times are appended to the bill's date before parsing. Fractional
// seconds are accepted by the first layout.
var orderTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Normalize parses every raw record. It fails only when no record has a
// parseable bill-open timestamp.
func Normalize(table *Table) ([]NormalizedRecord, error) {
	cols := table.Columns.WithDefaults()
	out := make([]NormalizedRecord, len(table.Records))
	parsed := 0

	for i, raw := range table.Records {
		rec := NormalizedRecord{
			Total:    CoerceNumber(raw[cols.Total]),
			Quantity: CoerceNumber(raw[cols.Quantity]),
		}

		if bill, ok := ParseBillOpen(raw[cols.BillOpen]); ok {
			rec.BillDate = bill
			rec.HasBillDate = true
			rec.Weekday = bill.Weekday().String()
			rec.OrderTimestamp, rec.HasOrderTime = CombineOrderTime(bill, raw[cols.OrderTime])
			parsed++
		}

		out[i] = rec
	}

	if parsed == 0 {
		return nil, ErrUnparseableBillDates
	}
	return out, nil
}

// ParseBillOpen parses a bill-open timestamp with BillOpenLayout
func ParseBillOpen(s string) (time.Time, bool) {
	t, err := time.Parse(BillOpenLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CombineOrderTime joins the bill's calendar date with an order time-of-day.
// The result is always on the bill's date, even when the order was placed
// after midnight on a bill opened the day before.
func CombineOrderTime(bill time.Time, orderTime string) (time.Time, bool) {
	orderTime = strings.TrimSpace(orderTime)
	if orderTime == "" {
		return time.Time{}, false
	}

	combined := bill.Format(dateLayout) + " " + orderTime
	for _, layout := range orderTimeLayouts {
		if t, err := time.Parse(layout, combined); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CoerceNumber strips thousands separators and parses a float.
// Anything unparseable is missing, never zero.
func CoerceNumber(s string) Optional {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return Optional{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Optional{}
	}
	return Some(v)
}
