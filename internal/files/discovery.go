package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds dataset files on disk
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// datasetExts are the extensions the loader can parse
var datasetExts = []string{".csv", ".xlsx"}

// FindDatasetFiles lists the .csv and .xlsx files directly inside dir,
// sorted by name. Excel lock files (~$name.xlsx) are skipped.
func (d *Discovery) FindDatasetFiles(dir string) ([]FileInfo, error) {
	// If dir is already absolute, use it directly
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, "~$") || !hasDatasetExt(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// Unreferenced returns the files whose path is not in used.
func Unreferenced(found []FileInfo, used []string) []FileInfo {
	known := make(map[string]bool, len(used))
	for _, p := range used {
		known[filepath.Clean(p)] = true
	}

	var out []FileInfo
	for _, f := range found {
		if !known[filepath.Clean(f.Path)] {
			out = append(out, f)
		}
	}
	return out
}

func hasDatasetExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range datasetExts {
		if ext == e {
			return true
		}
	}
	return false
}
