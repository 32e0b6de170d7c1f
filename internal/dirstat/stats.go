package dirstat

import (
	"cmp"
	"runtime"
	"slices"
	"time"

	"github.com/idelchi/diranalyzer/internal/classify"
	"github.com/idelchi/diranalyzer/internal/duplicates"
	"github.com/idelchi/diranalyzer/internal/entry"
	"github.com/idelchi/diranalyzer/internal/walker"
)

// ScanInfo describes a single analysis run.
type ScanInfo struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`
	// Path is the absolute path that was analyzed.
	Path string `json:"path"`
	// Timestamp is when the analysis started.
	Timestamp time.Time `json:"timestamp"`
	// DepthLimit is the configured maximum depth (0=unlimited).
	DepthLimit int `json:"depth_limit"`
	// TotalFiles is the number of files discovered.
	TotalFiles int64 `json:"total_files"`
	// TotalDirectories is the number of directories discovered, root included.
	TotalDirectories int64 `json:"total_directories"`
	// TotalSize is the cumulative size of all files.
	TotalSize int64 `json:"total_size"`
	// Elapsed is the total time taken for analysis.
	Elapsed time.Duration `json:"elapsed"`
}

// FileInfo represents a single file in a report.
type FileInfo struct {
	Path     string     `json:"path"`
	Size     int64      `json:"size"`
	FileType string     `json:"file_type"`
	Modified *time.Time `json:"modified,omitempty"`
	Depth    int        `json:"depth"`
}

// DirectoryInfo represents a single directory in a report.
type DirectoryInfo struct {
	Path              string `json:"path"`
	Size              int64  `json:"size"`
	FileCount         int64  `json:"file_count"`
	SubdirectoryCount int64  `json:"subdirectory_count"`
	Depth             int    `json:"depth"`
}

// TypeStats holds the statistics for one file category.
type TypeStats struct {
	Count       int64     `json:"count"`
	TotalSize   int64     `json:"total_size"`
	AverageSize int64     `json:"average_size"`
	LargestFile *FileInfo `json:"largest_file,omitempty"`
}

// Statistics holds derived performance and duplicate figures.
type Statistics struct {
	FilesPerSecond   float64 `json:"files_per_second"`
	BytesPerSecond   int64   `json:"bytes_per_second"`
	MemoryUsageMB    float64 `json:"memory_usage_mb"`
	DuplicateFiles   int64   `json:"duplicate_files"`
	WastedSpace      int64   `json:"wasted_space"`
	CompressionRatio float64 `json:"compression_ratio"`
	HashFailures     int64   `json:"hash_failures"`
	Orphans          int     `json:"orphans"`
}

// Results is the complete outcome of an analysis.
type Results struct {
	ScanInfo           ScanInfo               `json:"scan_info"`
	SizeBreakdown      classify.SizeBreakdown `json:"size_breakdown"`
	FileTypes          map[string]TypeStats   `json:"file_type_distribution"`
	LargestFiles       []FileInfo             `json:"largest_files"`
	LargestDirectories []DirectoryInfo        `json:"largest_directories"`
	DuplicateDetection bool                   `json:"duplicate_detection"`
	DuplicateGroups    []duplicates.Group     `json:"duplicate_groups"`
	Statistics         Statistics             `json:"statistics"`
	Errors             []walker.ScanError     `json:"errors"`
	TopN               int                    `json:"top_n"`
}

// analyzeFiles builds the type distribution and the topN largest files.
func analyzeFiles(files []entry.FileRecord, classifier classify.Classifier, topN int) (map[string]TypeStats, []FileInfo) {
	types := make(map[string]TypeStats)
	infos := make([]FileInfo, 0, len(files))

	for _, f := range files {
		info := FileInfo{
			Path:     f.Path,
			Size:     f.Size,
			FileType: classifier.Classify(f.Path),
			Modified: f.ModTime,
			Depth:    f.Depth,
		}

		stat := types[info.FileType]
		stat.Count++
		stat.TotalSize += f.Size
		stat.AverageSize = stat.TotalSize / stat.Count

		if stat.LargestFile == nil || stat.LargestFile.Size < f.Size {
			largest := info
			stat.LargestFile = &largest
		}

		types[info.FileType] = stat

		infos = append(infos, info)
	}

	// Sort by size (largest first) and trim to top N
	slices.SortStableFunc(infos, func(a, b FileInfo) int {
		return cmp.Compare(b.Size, a.Size)
	})

	if len(infos) > topN {
		infos = infos[:topN]
	}

	return types, slices.Clip(infos)
}

// largestDirectories returns the topN directories by cumulative size.
func largestDirectories(dirs entry.Directories, topN int) []DirectoryInfo {
	out := make([]DirectoryInfo, 0, len(dirs))

	for _, rec := range dirs.Sorted() {
		out = append(out, DirectoryInfo{
			Path:              rec.Path,
			Size:              rec.TotalSize,
			FileCount:         rec.FileCount,
			SubdirectoryCount: rec.SubdirCount,
			Depth:             rec.Depth,
		})
	}

	slices.SortStableFunc(out, func(a, b DirectoryInfo) int {
		return cmp.Compare(b.Size, a.Size)
	})

	if len(out) > topN {
		out = out[:topN]
	}

	return slices.Clip(out)
}

// statistics derives throughput, memory and duplicate figures.
func statistics(info ScanInfo, groups []duplicates.Group) Statistics {
	var stats Statistics

	if secs := info.Elapsed.Seconds(); secs > 0 {
		stats.FilesPerSecond = float64(info.TotalFiles) / secs
		stats.BytesPerSecond = int64(float64(info.TotalSize) / secs)
	}

	var mem runtime.MemStats

	runtime.ReadMemStats(&mem)
	stats.MemoryUsageMB = float64(mem.HeapAlloc) / (1 << 20)

	stats.DuplicateFiles, stats.WastedSpace = duplicates.Summarize(groups)

	stats.CompressionRatio = 1.0
	if info.TotalSize > 0 {
		stats.CompressionRatio = float64(info.TotalSize-stats.WastedSpace) / float64(info.TotalSize)
	}

	return stats
}
