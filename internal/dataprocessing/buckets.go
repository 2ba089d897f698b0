package dataprocessing

import (
	"fmt"
	"time"
)

const (
	BucketWidth   = 30 * time.Minute
	BucketsPerDay = int(24 * time.Hour / BucketWidth)
)

// TimeInterval is a half-open [Start, End) range of time-of-day
type TimeInterval struct {
	Start time.Duration
	End   time.Duration
}

// Label formats Start as HH:MM
func (i TimeInterval) Label() string {
	return formatClock(i.Start)
}

// Contains reports whether tod falls inside the interval
func (i TimeInterval) Contains(tod time.Duration) bool {
	return tod >= i.Start && tod < i.End
}

// Buckets returns the 48 half-hour intervals of a day in ascending order.
// The last interval ends at 24:00 so it bounds 23:59:59.
func Buckets() []TimeInterval {
	out := make([]TimeInterval, BucketsPerDay)
	for i := range out {
		start := time.Duration(i) * BucketWidth
		out[i] = TimeInterval{Start: start, End: start + BucketWidth}
	}
	return out
}

func formatClock(d time.Duration) string {
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%02d:%02d", h, m)
}
