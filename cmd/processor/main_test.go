package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesheatmap/internal/exporter"
)

const exportCSV = `วันที่เปิดบิล,เวลาสั่ง,ชื่อเมนู,จำนวน,ราคารวม
2024-03-04 08:00:00,08:15,ข้าวผัด,1,"1,234.50"
2024-03-04 08:00:00,08:40,กาแฟ,2,50
2024-03-05 12:00:00,12:10,ชาไทย,"1,000",abc
`

func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(exportCSV), 0644))
	return path
}

func readRows(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(data, &rows))
	return rows
}

func TestRun(t *testing.T) {
	t.Setenv("SALES_CONFIG_FILE", "")

	tests := []struct {
		name   string
		flags  []string
		checks func(t *testing.T, rows []map[string]any)
	}{
		{
			name: "revenue by default",
			checks: func(t *testing.T, rows []map[string]any) {
				require.Len(t, rows, 48)
				assert.Equal(t, "08:00", rows[16]["time"])
				assert.Equal(t, 1234.5, rows[16]["Monday"])
				assert.Equal(t, 50.0, rows[17]["Monday"])
				assert.Equal(t, 0.0, rows[24]["Tuesday"])
			},
		},
		{
			name:  "weekly quantity variant",
			flags: []string{"-variant", "weekly-quantity"},
			checks: func(t *testing.T, rows []map[string]any) {
				assert.Equal(t, 1.0, rows[16]["Monday"])
				assert.Equal(t, 2.0, rows[17]["Monday"])
				assert.Equal(t, 1000.0, rows[24]["Tuesday"])
			},
		},
		{
			name:  "window excludes older bills",
			flags: []string{"-measure", "quantity", "-window-days", "1"},
			checks: func(t *testing.T, rows []map[string]any) {
				_, hasMonday := rows[0]["Monday"]
				assert.False(t, hasMonday)
				assert.Equal(t, 1000.0, rows[24]["Tuesday"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := writeExport(t)
			output := filepath.Join(t.TempDir(), "out", "processed_sales_data.json")
			var stderr bytes.Buffer

			args := append(append([]string{}, tt.flags...), input, output)
			code := run(context.Background(), args, &stderr)
			require.Equal(t, exitOK, code, stderr.String())

			tt.checks(t, readRows(t, output))
			assert.Contains(t, stderr.String(), "Heatmap written")
		})
	}
}

func TestRun_DirectoryInput(t *testing.T) {
	t.Setenv("SALES_CONFIG_FILE", "")

	input := writeExport(t)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(input), "~$lock.xlsx"), []byte("x"), 0644))
	output := filepath.Join(t.TempDir(), "result.json")
	var stderr bytes.Buffer

	require.Equal(t, exitOK, run(context.Background(), []string{filepath.Dir(input), output}, &stderr), stderr.String())
	assert.Contains(t, stderr.String(), "Using newest export")
	assert.Len(t, readRows(t, output), 48)
}

func TestRun_MetricsFile(t *testing.T) {
	t.Setenv("SALES_CONFIG_FILE", "")

	input := writeExport(t)
	dir := t.TempDir()
	metricsFile := filepath.Join(dir, "heatmap.prom")
	var stderr bytes.Buffer

	args := []string{"-metrics-file", metricsFile, input, filepath.Join(dir, "out.json")}
	require.Equal(t, exitOK, run(context.Background(), args, &stderr), stderr.String())

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "heatmap_rows_loaded_total")
	assert.Contains(t, string(data), "heatmap_runs_total")
}

func TestRun_InputFromDataDirectory(t *testing.T) {
	t.Setenv("SALES_CONFIG_FILE", "")
	base := t.TempDir()
	t.Setenv("SALES_PATHS_BASE_DIR", base)

	require.NoError(t, os.MkdirAll(filepath.Join(base, "data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "data", "march.csv"), []byte(exportCSV), 0644))
	var stderr bytes.Buffer

	require.Equal(t, exitOK, run(context.Background(), []string{"march.csv"}, &stderr), stderr.String())

	rows := readRows(t, filepath.Join(base, "processed_sales_data.json"))
	require.Len(t, rows, 48)
	assert.Equal(t, 1234.5, rows[16]["Monday"])
}

func TestRun_ParquetOutput(t *testing.T) {
	t.Setenv("SALES_CONFIG_FILE", "")

	input := writeExport(t)
	output := filepath.Join(t.TempDir(), "heatmap.parquet")
	var stderr bytes.Buffer

	require.Equal(t, exitOK, run(context.Background(), []string{input, output}, &stderr), stderr.String())

	records, err := parquet.ReadFile[exporter.CellRecord](output)
	require.NoError(t, err)
	assert.Len(t, records, 48*2)
	assert.Equal(t, exporter.CellRecord{Time: "00:00", Weekday: "Monday", Value: 0}, records[0])
}

func TestRun_Failures(t *testing.T) {
	t.Setenv("SALES_CONFIG_FILE", "")

	dir := t.TempDir()
	noDates := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(noDates, []byte("วันที่เปิดบิล,เวลาสั่ง,จำนวน,ราคารวม\nyesterday,08:00,1,10\n"), 0644))
	output := filepath.Join(dir, "out.json")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "too many arguments", args: []string{noDates, output, "extra"}, want: exitUsage},
		{name: "directory without exports", args: []string{t.TempDir(), output}, want: exitUsage},
		{name: "unknown flag", args: []string{"-bogus", noDates}, want: exitUsage},
		{name: "missing input", args: []string{filepath.Join(dir, "missing.csv"), output}, want: exitUsage},
		{name: "bad variant", args: []string{"-variant", "monthly", noDates, output}, want: exitUsage},
		{name: "unparseable bill dates", args: []string{noDates, output}, want: exitFailure},
		{name: "help", args: []string{"-h"}, want: exitOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			assert.Equal(t, tt.want, run(context.Background(), tt.args, &stderr))
		})
	}

	_, err := os.Stat(output)
	assert.True(t, os.IsNotExist(err))
}
