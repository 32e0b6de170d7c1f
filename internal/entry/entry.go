// Package entry defines the normalized records produced by the walker and
// consumed by aggregation and duplicate detection.
package entry

import (
	"path/filepath"
	"time"
)

// FileRecord describes a single discovered file.
// It is never modified after the walker produces it.
type FileRecord struct {
	// Path is the absolute path of the file.
	Path string `json:"path"`
	// Size is the size in bytes as reported by metadata at scan time.
	Size int64 `json:"size"`
	// ModTime is the last modification time, if it could be determined.
	ModTime *time.Time `json:"modified,omitempty"`
	// IsSymlink marks files reached through a symbolic link.
	IsSymlink bool `json:"is_symlink"`
	// Depth is the depth relative to the scan root (root = 0).
	Depth int `json:"depth"`
}

// Parent returns the path of the directory containing the file.
func (f FileRecord) Parent() string {
	return filepath.Dir(f.Path)
}

// DirectoryRecord accumulates the rolled-up totals for one directory.
type DirectoryRecord struct {
	// Path is the absolute path of the directory.
	Path string `json:"path"`
	// TotalSize is the cumulative size of all files nested anywhere below.
	TotalSize int64 `json:"total_size"`
	// FileCount is the number of files whose immediate parent is this directory.
	FileCount int64 `json:"file_count"`
	// SubdirCount is the number of immediate subdirectories.
	SubdirCount int64 `json:"subdirectory_count"`
	// Depth is the depth relative to the scan root (root = 0).
	Depth int `json:"depth"`
}

// Directories maps absolute directory paths to their records.
type Directories map[string]*DirectoryRecord

// Seed registers an empty record for path unless one exists already.
func (d Directories) Seed(path string, depth int) {
	if _, ok := d[path]; ok {
		return
	}

	d[path] = &DirectoryRecord{Path: path, Depth: depth}
}

// Clone returns a deep copy of d.
func (d Directories) Clone() Directories {
	out := make(Directories, len(d))
	for path, rec := range d {
		cp := *rec
		out[path] = &cp
	}

	return out
}

// Reset returns a deep copy of d with all accumulator fields zeroed.
func (d Directories) Reset() Directories {
	out := make(Directories, len(d))
	for path, rec := range d {
		out[path] = &DirectoryRecord{Path: rec.Path, Depth: rec.Depth}
	}

	return out
}

// Sorted returns the records ordered by path.
func (d Directories) Sorted() []*DirectoryRecord {
	out := make([]*DirectoryRecord, 0, len(d))
	for _, rec := range d {
		out = append(out, rec)
	}

	sortByPath(out)

	return out
}
