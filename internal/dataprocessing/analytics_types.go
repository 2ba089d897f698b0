package dataprocessing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ResultRow is one heatmap row: a bucket label and one value per weekday
type ResultRow struct {
	Time   string
	Values map[string]float64
}

// Weekdays returns the row's keys in calendar order
func (r ResultRow) Weekdays() []string {
	days := make([]string, 0, len(r.Values))
	for day := range r.Values {
		days = append(days, day)
	}
	sort.SliceStable(days, func(i, j int) bool {
		wi, wj := weekdayIndex(days[i]), weekdayIndex(days[j])
		if wi != wj {
			return wi < wj
		}
		return days[i] < days[j]
	})
	return days
}

// MarshalJSON writes "time" first and the weekdays in calendar order
func (r ResultRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"time":`)
	label, err := json.Marshal(r.Time)
	if err != nil {
		return nil, err
	}
	buf.Write(label)

	for _, day := range r.Weekdays() {
		key, err := json.Marshal(day)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(FormatCell(r.Values[day]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a row written by MarshalJSON
func (r *ResultRow) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	timeRaw, ok := raw["time"]
	if !ok {
		return fmt.Errorf("result row has no time field")
	}
	if err := json.Unmarshal(timeRaw, &r.Time); err != nil {
		return fmt.Errorf("invalid time field: %w", err)
	}
	delete(raw, "time")

	r.Values = make(map[string]float64, len(raw))
	for day, v := range raw {
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return fmt.Errorf("invalid value for %s: %w", day, err)
		}
		r.Values[day] = f
	}
	return nil
}

// FormatCell renders a cell as a JSON number that always has a decimal point
func FormatCell(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
