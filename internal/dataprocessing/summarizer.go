package dataprocessing

import "strings"

// HourlyView folds consecutive half-hour rows into hourly rows labelled HH.
// All seven weekdays are present; a weekday missing from the input counts as 0.
func HourlyView(rows []ResultRow) []ResultRow {
	days := AllWeekdays()
	out := make([]ResultRow, 0, (len(rows)+1)/2)
	for i := 0; i < len(rows); i += 2 {
		label := rows[i].Time
		if idx := strings.LastIndex(label, ":"); idx > 0 {
			label = label[:idx]
		}

		values := make(map[string]float64, len(days))
		for _, day := range days {
			sum := rows[i].Values[day]
			if i+1 < len(rows) {
				sum += rows[i+1].Values[day]
			}
			values[day] = RoundHalfEven(sum, 2)
		}
		out = append(out, ResultRow{Time: label, Values: values})
	}
	return out
}
