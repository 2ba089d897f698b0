package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFiles creates names in dir, each one minute newer than the last
func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	for i, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("test content"), 0644))
		modTime := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, modTime, modTime))
	}
}

func TestIsExport(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"sales.csv", true},
		{"SALES.XLSX", true},
		{"export.txt", true},
		{"export.tsv", true},
		{"~$sales.xlsx", false},
		{".sales.csv.123.tmp", false},
		{"report.xls", false},
		{"notes.pdf", false},
		{"noext", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExport(tt.name))
		})
	}
}

func TestDiscovery_FindExports(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		expected []string
	}{
		{
			name:     "mixed file types",
			files:    []string{"b.csv", "readme.pdf", "a.xlsx", "~$a.xlsx"},
			expected: []string{"b.csv", "a.xlsx"},
		},
		{
			name:     "sorted oldest first",
			files:    []string{"old.csv", "mid.txt", "new.xlsx"},
			expected: []string{"old.csv", "mid.txt", "new.xlsx"},
		},
		{
			name:     "empty directory",
			files:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "exports"), 0755))
			writeFiles(t, filepath.Join(tmpDir, "exports"), tt.files...)
			require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "exports", "nested.csv"), 0755))

			found, err := NewDiscovery(tmpDir).FindExports("exports")
			require.NoError(t, err)

			var names []string
			for _, f := range found {
				names = append(names, f.Name)
				assert.Equal(t, filepath.Join(tmpDir, "exports", f.Name), f.Path)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestDiscovery_FindExports_MissingDirectory(t *testing.T) {
	_, err := NewDiscovery(t.TempDir()).FindExports("missing")
	assert.ErrorContains(t, err, "failed to read directory")
}

func TestDiscovery_LatestExport(t *testing.T) {
	dir := t.TempDir()
	d := NewDiscovery("")

	_, err := d.LatestExport(dir)
	assert.ErrorIs(t, err, ErrNoExports)

	writeFiles(t, dir, "monday.csv", "tuesday.xlsx", "notes.pdf")
	latest, err := d.LatestExport(dir)
	require.NoError(t, err)
	assert.Equal(t, "tuesday.xlsx", latest.Name)
	assert.Equal(t, int64(len("test content")), latest.Size)
}

func TestDiscovery_ResolveInput(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "first.csv", "second.csv")
	d := NewDiscovery("")

	got, err := d.ResolveInput(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "second.csv"), got)

	file := filepath.Join(dir, "first.csv")
	got, err = d.ResolveInput(file)
	require.NoError(t, err)
	assert.Equal(t, file, got)

	missing := filepath.Join(dir, "missing.csv")
	got, err = d.ResolveInput(missing)
	require.NoError(t, err)
	assert.Equal(t, missing, got)

	_, err = d.ResolveInput(t.TempDir())
	assert.ErrorIs(t, err, ErrNoExports)
}

func TestGetLatestFile(t *testing.T) {
	now := time.Now()

	_, ok := GetLatestFile(nil)
	assert.False(t, ok)

	latest, ok := GetLatestFile([]FileInfo{
		{Name: "a", ModTime: now.Add(-time.Hour)},
		{Name: "b", ModTime: now},
		{Name: "c", ModTime: now.Add(-2 * time.Hour)},
	})
	require.True(t, ok)
	assert.Equal(t, "b", latest.Name)

	latest, _ = GetLatestFile([]FileInfo{{Name: "x", ModTime: now}, {Name: "y", ModTime: now}})
	assert.Equal(t, "y", latest.Name)
}
