package dataprocessing

import "time"

// MaxBillDate returns the newest valid bill date
func MaxBillDate(records []NormalizedRecord) (time.Time, bool) {
	var max time.Time
	found := false
	for _, r := range records {
		if !r.HasBillDate {
			continue
		}
		if !found || r.BillDate.After(max) {
			max = r.BillDate
			found = true
		}
	}
	return max, found
}

// FilterRecent keeps records billed strictly after MaxBillDate - window.
// A non-positive window returns records unchanged.
func FilterRecent(records []NormalizedRecord, window time.Duration) []NormalizedRecord {
	if window <= 0 {
		return records
	}

	max, ok := MaxBillDate(records)
	if !ok {
		return nil
	}
	cutoff := max.Add(-window)

	kept := make([]NormalizedRecord, 0, len(records))
	for _, r := range records {
		if r.HasBillDate && r.BillDate.After(cutoff) {
			kept = append(kept, r)
		}
	}
	return kept
}
