package dataprocessing

import (
	"math"
	"time"
)

// weekdayOrder fixes the column order of every ResultRow
var weekdayOrder = []string{
	time.Monday.String(),
	time.Tuesday.String(),
	time.Wednesday.String(),
	time.Thursday.String(),
	time.Friday.String(),
	time.Saturday.String(),
	time.Sunday.String(),
}

// AllWeekdays returns the seven day names, Monday first
func AllWeekdays() []string {
	out := make([]string, len(weekdayOrder))
	copy(out, weekdayOrder)
	return out
}

func weekdayIndex(day string) int {
	for i, d := range weekdayOrder {
		if d == day {
			return i
		}
	}
	return len(weekdayOrder)
}

// ObservedWeekdays returns the distinct weekdays of records with a bill
// date, Monday first.
func ObservedWeekdays(records []NormalizedRecord) []string {
	var seen [7]bool
	for _, r := range records {
		if r.HasBillDate {
			// time.Weekday counts from Sunday
			seen[(int(r.BillDate.Weekday())+6)%7] = true
		}
	}

	out := make([]string, 0, len(weekdayOrder))
	for i, day := range weekdayOrder {
		if seen[i] {
			out = append(out, day)
		}
	}
	return out
}

// Aggregate sums the measure per bucket and weekday. Every row carries the
// same weekday keys; a cell with no matching record is 0.
func Aggregate(records []NormalizedRecord, buckets []TimeInterval, measure Measure) []ResultRow {
	weekdays := ObservedWeekdays(records)

	sums := make([]map[string]float64, len(buckets))
	for i := range sums {
		sums[i] = make(map[string]float64, len(weekdays))
		for _, day := range weekdays {
			sums[i][day] = 0
		}
	}

	for _, r := range records {
		if r.Weekday == "" {
			continue
		}
		v := r.Value(measure)
		if !v.Valid {
			continue
		}
		tod, ok := r.TimeOfDay()
		if !ok {
			continue
		}
		for i, b := range buckets {
			if b.Contains(tod) {
				sums[i][r.Weekday] += v.Value
				break
			}
		}
	}

	rows := make([]ResultRow, len(buckets))
	for i, b := range buckets {
		values := make(map[string]float64, len(weekdays))
		for day, sum := range sums[i] {
			values[day] = RoundHalfEven(sum, 2)
		}
		rows[i] = ResultRow{Time: b.Label(), Values: values}
	}
	return rows
}

// RoundHalfEven rounds v to the given number of decimals, ties to even
func RoundHalfEven(v float64, places int) float64 {
	pow := math.Pow10(places)
	return math.RoundToEven(v*pow) / pow
}
