package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere.json")

	tests := []struct {
		name   string
		config PathsConfig
		want   Paths
	}{
		{
			name:   "relative entries join base",
			config: PathsConfig{BaseDir: base, DataDir: "data", WebDir: ".", LogsDir: "logs", ResultFile: "processed_sales_data.json"},
			want: Paths{
				BaseDir:    base,
				DataDir:    filepath.Join(base, "data"),
				WebDir:     base,
				LogsDir:    filepath.Join(base, "logs"),
				ResultFile: filepath.Join(base, "processed_sales_data.json"),
			},
		},
		{
			name:   "absolute result file kept",
			config: PathsConfig{BaseDir: base, ResultFile: abs},
			want:   Paths{BaseDir: base, ResultFile: abs},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePaths(tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestResolvePaths_DefaultsToWorkingDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	got, err := ResolvePaths(PathsConfig{ResultFile: "out.json"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "out.json"), got.ResultFile)
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths, err := ResolvePaths(PathsConfig{
		BaseDir:    base,
		DataDir:    "data",
		LogsDir:    "logs",
		ResultFile: "results/heatmap.json",
	})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{"data", "logs", "results"} {
		info, err := os.Stat(filepath.Join(base, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	assert.False(t, FileExists(paths.ResultFile))
	assert.Equal(t, filepath.Join(base, "data", "x.csv"), paths.GetDataPath("x.csv"))
}
