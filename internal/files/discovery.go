package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNoExports is returned when a directory holds no sales export
var ErrNoExports = errors.New("no sales export found")

// ExportExtensions are the file types recognized as sales exports
var ExportExtensions = []string{".csv", ".txt", ".tsv", ".xlsx"}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// IsExport reports whether name looks like a sales export. Excel lock
// files (~$name.xlsx) are never exports.
func IsExport(name string) bool {
	if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range ExportExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// FindExports lists the exports in dir, oldest first
func (d *Discovery) FindExports(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !IsExport(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	// Sort by modification time (oldest first)
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].Name < files[j].Name
		}
		return files[i].ModTime.Before(files[j].ModTime)
	})

	return files, nil
}

// LatestExport returns the most recently modified export in dir
func (d *Discovery) LatestExport(dir string) (FileInfo, error) {
	files, err := d.FindExports(dir)
	if err != nil {
		return FileInfo{}, err
	}
	latest, ok := GetLatestFile(files)
	if !ok {
		return FileInfo{}, fmt.Errorf("%w in %s", ErrNoExports, d.resolve(dir))
	}
	return latest, nil
}

// ResolveInput returns path itself for a file, or the newest export
// inside it for a directory.
func (d *Discovery) ResolveInput(path string) (string, error) {
	full := d.resolve(path)
	info, err := os.Stat(full)
	if err != nil || !info.IsDir() {
		return full, nil
	}
	latest, err := d.LatestExport(full)
	if err != nil {
		return "", err
	}
	return latest.Path, nil
}

// GetLatestFile returns the most recently modified file from a list. Ties go
// to the later entry.
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if !file.ModTime.Before(latest.ModTime) {
			latest = file
		}
	}

	return latest, true
}
