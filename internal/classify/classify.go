// Package classify maps files to coarse type categories and size classes.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/idelchi/diranalyzer/internal/entry"
)

// Other is the category for unknown extensions.
const Other = "Other"

//nolint:gochecknoglobals // Lookup table
var categories = map[string][]string{
	"Documents":   {"pdf", "doc", "docx", "txt", "rtf", "odt", "pages", "md"},
	"Images":      {"jpg", "jpeg", "png", "gif", "bmp", "svg", "tiff", "webp", "ico"},
	"Videos":      {"mp4", "avi", "mkv", "mov", "wmv", "flv", "webm", "m4v"},
	"Audio":       {"mp3", "wav", "flac", "aac", "ogg", "wma", "m4a"},
	"Archives":    {"zip", "tar", "gz", "bz2", "xz", "7z", "rar", "zst"},
	"Code":        {"rs", "py", "js", "ts", "html", "css", "cpp", "c", "h", "java", "go", "php"},
	"Executables": {"exe", "bin", "app", "deb", "rpm", "msi", "dmg"},
}

// Classifier maps file extensions to categories.
type Classifier struct {
	byExt map[string]string
}

// New creates a Classifier with the built-in categories.
func New() Classifier {
	byExt := make(map[string]string)

	for category, exts := range categories {
		for _, ext := range exts {
			byExt[ext] = category
		}
	}

	return Classifier{byExt: byExt}
}

// Classify returns the category of path based on its extension.
func (c Classifier) Classify(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return Other
	}

	if category, ok := c.byExt[strings.ToLower(ext)]; ok {
		return category
	}

	return Other
}

const (
	// SmallLimit is the exclusive upper bound for small files.
	SmallLimit = 1 << 20
	// MediumLimit is the exclusive upper bound for medium files.
	MediumLimit = 100 << 20
)

// SizeBreakdown buckets files into size classes.
type SizeBreakdown struct {
	SmallCount  int64 `json:"small_files_count"`
	SmallSize   int64 `json:"small_files_size"`
	MediumCount int64 `json:"medium_files_count"`
	MediumSize  int64 `json:"medium_files_size"`
	LargeCount  int64 `json:"large_files_count"`
	LargeSize   int64 `json:"large_files_size"`
}

// Breakdown computes the size classes of files.
func Breakdown(files []entry.FileRecord) SizeBreakdown {
	var b SizeBreakdown

	for _, f := range files {
		switch {
		case f.Size < SmallLimit:
			b.SmallCount++
			b.SmallSize += f.Size
		case f.Size < MediumLimit:
			b.MediumCount++
			b.MediumSize += f.Size
		default:
			b.LargeCount++
			b.LargeSize += f.Size
		}
	}

	return b
}

// Percentage returns part as a percentage of total, or 0 if total is 0.
func Percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}

	return 100.0 * float64(part) / float64(total)
}
