package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxBillDate(t *testing.T) {
	records := mustNormalize(t, testTable(
		[4]string{"2024-03-04 08:00:00", "08:15", "1", "1"},
		[4]string{"bad", "08:15", "1", "1"},
		[4]string{"2024-03-20 21:30:00", "21:35", "1", "1"},
		[4]string{"2024-03-10 08:00:00", "08:15", "1", "1"},
	))

	max, ok := MaxBillDate(records)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 20, 21, 30, 0, 0, time.UTC), max)

	_, ok = MaxBillDate(nil)
	assert.False(t, ok)
}

func TestFilterRecent(t *testing.T) {
	// Twenty days of bills ending 2024-03-20 12:00:00.
	var rows [][4]string
	for day := 1; day <= 20; day++ {
		bill := time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC)
		rows = append(rows, [4]string{bill.Format(BillOpenLayout), "12:00", "1", "1"})
	}
	// Exactly on the cutoff: excluded by the strict comparison.
	rows = append(rows, [4]string{"2024-03-13 12:00:00", "12:00", "1", "1"})
	// One second past the cutoff: kept.
	rows = append(rows, [4]string{"2024-03-13 12:00:01", "12:00", "1", "1"})
	rows = append(rows, [4]string{"garbage", "12:00", "1", "1"})

	records := mustNormalize(t, testTable(rows...))
	kept := FilterRecent(records, DefaultRecentWindow)

	cutoff := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	for _, r := range kept {
		require.True(t, r.HasBillDate)
		assert.True(t, r.BillDate.After(cutoff), "kept %s", r.BillDate)
	}
	// March 14..20 plus the record one second after the cutoff.
	assert.Len(t, kept, 8)
}

func TestFilterRecent_DisabledWindow(t *testing.T) {
	records := mustNormalize(t, testTable(
		[4]string{"2024-01-01 08:00:00", "08:15", "1", "1"},
		[4]string{"bad", "08:15", "1", "1"},
	))

	assert.Equal(t, records, FilterRecent(records, 0))
}
