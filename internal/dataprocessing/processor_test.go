package dataprocessing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockObserver struct {
	mock.Mock
}

func (m *mockObserver) ObserveRun(ctx context.Context, summary Summary, elapsed time.Duration, err error) {
	m.Called(summary, err)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("Weekly-Quantity")
	require.NoError(t, err)
	assert.Equal(t, VariantWeeklyQuantity, v)
	assert.Equal(t, Options{Measure: MeasureQuantity, RecentWindow: 7 * 24 * time.Hour}, v.Options())

	v, err = ParseVariant("revenue")
	require.NoError(t, err)
	assert.Equal(t, Options{Measure: MeasureTotal}, v.Options())

	_, err = ParseVariant("monthly")
	assert.Error(t, err)
}

func TestParseMeasure(t *testing.T) {
	m, err := ParseMeasure("revenue")
	require.NoError(t, err)
	assert.Equal(t, MeasureTotal, m)

	m, err = ParseMeasure(" Quantity ")
	require.NoError(t, err)
	assert.Equal(t, MeasureQuantity, m)

	_, err = ParseMeasure("profit")
	assert.Error(t, err)
}

func TestProcessor_Process_Revenue(t *testing.T) {
	observer := new(mockObserver)
	observer.On("ObserveRun", mock.MatchedBy(func(s Summary) bool {
		return s.RowsLoaded == 3 && s.RowsWithoutBillDate == 1 && s.RowsAfterFilter == 3
	}), nil).Once()

	p := NewProcessor(testLogger(), WithObserver(observer))
	table := testTable(
		[4]string{"2024-03-04 08:00:00", "08:15", "100", "1"},
		[4]string{"2024-03-04 08:00:00", "08:40", "50", "1"},
		[4]string{"nope", "08:40", "5000", "1"},
	)

	result, err := p.Process(context.Background(), table, VariantRevenue.Options())
	require.NoError(t, err)

	require.Len(t, result.Rows, 48)
	assert.Equal(t, MeasureTotal, result.Measure)
	assert.Equal(t, []string{"Monday"}, result.Weekdays)
	assert.Equal(t, 100.0, result.Rows[16].Values["Monday"])
	assert.Equal(t, 50.0, result.Rows[17].Values["Monday"])
	assert.Equal(t, time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), result.Summary.MaxBillDate)
	observer.AssertExpectations(t)
}

func TestProcessor_Process_WeeklyQuantity(t *testing.T) {
	var rows [][4]string
	for day := 1; day <= 20; day++ {
		bill := time.Date(2024, 3, day, 9, 0, 0, 0, time.UTC)
		rows = append(rows, [4]string{bill.Format(BillOpenLayout), "09:10", "1000", "2"})
	}
	rows = append(rows, [4]string{"", "09:10", "1000", "2"})

	result, err := NewProcessor(testLogger()).Process(context.Background(), testTable(rows...), VariantWeeklyQuantity.Options())
	require.NoError(t, err)

	assert.Equal(t, MeasureQuantity, result.Measure)
	assert.Equal(t, 7, result.Summary.RowsAfterFilter)
	assert.Equal(t, 1, result.Summary.RowsWithoutBillDate)
	assert.Equal(t, 13, result.Summary.RowsOutsideWindow)

	// March 14..20 are kept; each weekday appears exactly once.
	totals := columnTotals(result.Rows)
	assert.Len(t, totals, 7)
	for day, v := range totals {
		assert.Equal(t, 2.0, v, day)
	}
	assert.Equal(t, 2.0, result.Rows[18].Values["Thursday"])
}

func TestProcessor_Process_NoWindowDropsNothing(t *testing.T) {
	table := testTable(
		[4]string{"2024-03-04 08:00:00", "08:15", "100", "1"},
		[4]string{"nope", "08:40", "5000", "1"},
	)

	result, err := NewProcessor(testLogger()).Process(context.Background(), table, VariantRevenue.Options())
	require.NoError(t, err)
	assert.Zero(t, result.Summary.RowsOutsideWindow)
}

func TestProcessor_ProcessFile_LoadErrorIsObserved(t *testing.T) {
	observer := new(mockObserver)
	observer.On("ObserveRun", Summary{}, mock.MatchedBy(func(err error) bool {
		return errors.Is(err, os.ErrNotExist)
	})).Once()

	p := NewProcessor(testLogger(), WithObserver(observer))
	_, err := p.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), DefaultLoadOptions(), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
	observer.AssertExpectations(t)
}

func TestProcessor_Process_Fatal(t *testing.T) {
	observer := new(mockObserver)
	observer.On("ObserveRun", mock.Anything, ErrUnparseableBillDates).Once()

	p := NewProcessor(nil, WithObserver(observer))
	table := testTable([4]string{"03/04/2024", "08:15", "100", "1"})

	result, err := p.Process(context.Background(), table, Options{})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnparseableBillDates)
	observer.AssertExpectations(t)
}

func TestProcessor_ProcessFile_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	p := NewProcessor(testLogger())
	run := func() []byte {
		result, err := p.ProcessFile(context.Background(), path, DefaultLoadOptions(), VariantRevenue.Options())
		require.NoError(t, err)
		data, err := json.MarshalIndent(result.Rows, "", "  ")
		require.NoError(t, err)
		return data
	}

	first := run()
	assert.Equal(t, first, run())
	assert.True(t, strings.HasPrefix(string(first), "[\n  {\n    \"time\": \"00:00\",\n    \"Monday\": 0.0,"))
	assert.Contains(t, string(first), "\"Monday\": 1234.5")
}

func TestProcessor_ProcessFile_MissingFile(t *testing.T) {
	_, err := NewProcessor(testLogger()).ProcessFile(context.Background(), "does-not-exist.csv", DefaultLoadOptions(), Options{})
	assert.Error(t, err)
}
