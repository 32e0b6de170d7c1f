package walker

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/rs/zerolog"

	"github.com/idelchi/diranalyzer/internal/entry"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// Options configures a walk.
type Options struct {
	// Root is the directory to walk.
	Root string
	// MaxDepth is the maximum traversal depth (0=unlimited).
	MaxDepth int
	// FollowLinks follows symbolic links to files and directories.
	FollowLinks bool
	// ShowHidden includes entries whose name starts with a dot.
	ShowHidden bool
	// Excludes contains regex patterns matched against slash-separated paths
	// relative to Root. Directories are also tried with a trailing slash.
	Excludes []string
	// IgnoreFile is an optional gitignore-style file; paths are matched relative to Root.
	IgnoreFile string
	// Workers is the number of fastwalk workers (0=fastwalk default).
	Workers int
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Logger receives debug output about skipped entries.
	Logger zerolog.Logger
}

// ErrorKind classifies per-entry scan errors.
type ErrorKind string

const (
	PermissionDenied ErrorKind = "permission_denied"
	NotFound         ErrorKind = "not_found"
	IOError          ErrorKind = "io_error"
	Other            ErrorKind = "other"
)

// ScanError records an entry that could not be inspected.
type ScanError struct {
	// Path is the offending path.
	Path string `json:"path"`
	// Message is the error text.
	Message string `json:"error"`
	// Kind classifies the error.
	Kind ErrorKind `json:"error_type"`
}

// Result is the outcome of a walk.
type Result struct {
	// Root is the absolute, cleaned root path.
	Root string
	// Files holds every discovered file ordered by path.
	Files []entry.FileRecord
	// Directories holds a zeroed record for every visited directory, root included.
	Directories entry.Directories
	// Errors lists the entries that were skipped because of errors.
	Errors []ScanError
	// TotalSize is the sum of all file sizes.
	TotalSize int64
}

// collector gathers entries from concurrent fastwalk callbacks using a mutex.
type collector struct {
	mu         sync.Mutex
	files      []entry.FileRecord
	dirs       entry.Directories
	errors     []ScanError
	totalBytes int64
	// linkDirs holds followed directory links; files below them are reached through a link.
	linkDirs []string
}

func newCollector() *collector {
	return &collector{
		files: make([]entry.FileRecord, 0),
		dirs:  make(entry.Directories),
	}
}

func (c *collector) addFile(rec entry.FileRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.files = append(c.files, rec)
	c.totalBytes += rec.Size
}

func (c *collector) addDir(path string, depth int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dirs.Seed(path, depth)
}

func (c *collector) addLinkDir(path string, depth int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dirs.Seed(path, depth)
	c.linkDirs = append(c.linkDirs, path)
}

func (c *collector) addError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errors = append(c.errors, ScanError{Path: path, Message: err.Error(), Kind: classifyError(err)})
}

// counts returns the number of files and bytes collected so far.
func (c *collector) counts() (int64, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return int64(len(c.files)), c.totalBytes
}

// finalize orders the collected entries by path and returns them.
// Files below a followed directory link are marked as symlinks here, once
// every link is known.
func (c *collector) finalize(root string) *Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.files {
		if !c.files[i].IsSymlink && underAny(c.files[i].Path, c.linkDirs) {
			c.files[i].IsSymlink = true
		}
	}

	entry.SortFiles(c.files)
	slices.SortFunc(c.errors, func(a, b ScanError) int {
		return cmp.Compare(a.Path, b.Path)
	})

	return &Result{
		Root:        root,
		Files:       c.files,
		Directories: c.dirs,
		Errors:      c.errors,
		TotalSize:   c.totalBytes,
	}
}

// underAny reports whether path lies below one of dirs.
func underAny(path string, dirs []string) bool {
	for _, dir := range dirs {
		if strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

func classifyError(err error) ErrorKind {
	var pathErr *fs.PathError

	switch {
	case errors.Is(err, fs.ErrPermission):
		return PermissionDenied
	case errors.Is(err, fs.ErrNotExist):
		return NotFound
	case errors.As(err, &pathErr):
		return IOError
	default:
		return Other
	}
}

// startProgressReporter invokes hook(files, bytes) on each tick until stop is called.
// stop returns once the last hook call has finished.
//
//nolint:varnamelen // c is idiomatic for collector
func startProgressReporter(ctx context.Context, c *collector, hook func(int64, int64), interval time.Duration) (stop func()) {
	if hook == nil {
		return func() {}
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	ticker := time.NewTicker(interval)

	go func() {
		defer close(done)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(c.counts())
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func fileRecord(path string, info fs.FileInfo, symlink bool, depth int) entry.FileRecord {
	rec := entry.FileRecord{
		Path:      path,
		Size:      max(info.Size(), 0),
		IsSymlink: symlink,
		Depth:     depth,
	}

	if mod := info.ModTime(); !mod.IsZero() {
		rec.ModTime = &mod
	}

	return rec
}

// Walk traverses opt.Root and returns every file and directory that passes
// the configured filters. Entries that cannot be read are recorded in
// Result.Errors and skipped.
//
// The walk can be cancelled via ctx. Progress updates are sent to
// progressHook if provided.
//
//nolint:gocognit,funlen,cyclop // Filtering order matters and reads best in one place.
func Walk(ctx context.Context, opt Options, progressHook func(int64, int64)) (*Result, error) {
	log := opt.Logger

	if opt.Root == "" {
		opt.Root = "."
	}

	root, err := filepath.Abs(filepath.Clean(opt.Root))
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	// validate path exists and is accessible
	if statInfo, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("accessing path %q: %w", opt.Root, err)
	} else if !statInfo.IsDir() {
		return nil, fmt.Errorf("path %q is not a directory", opt.Root)
	}

	if opt.MaxDepth < 0 {
		return nil, errors.New("depth cannot be negative")
	}

	excludeRegexes, err := compilePatterns(opt.Excludes)
	if err != nil {
		return nil, err
	}

	ignored, err := loadIgnorer(root, opt.IgnoreFile)
	if err != nil {
		return nil, err
	}

	for _, re := range excludeRegexes {
		log.Debug().Str("regex", re.String()).Msg("exclude pattern")
	}

	collector := newCollector()
	collector.addDir(root, 0)

	stopProgress := startProgressReporter(ctx, collector, progressHook, opt.ProgressInterval)
	defer stopProgress()

	conf := &fastwalk.Config{
		Follow:     opt.FollowLinks,
		NumWorkers: opt.Workers,
	}

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("error accessing path")
			collector.addError(path, err)

			return nil
		}

		// Check cancellation periodically
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == root {
			return nil
		}

		currentDepth := calculateDepth(path, root)
		if opt.MaxDepth > 0 && currentDepth > opt.MaxDepth {
			if d.IsDir() {
				log.Debug().Int("depth", opt.MaxDepth).Str("path", path).Msg("skipping directory beyond depth")

				return filepath.SkipDir
			}

			return nil
		}

		if !opt.ShowHidden && isHidden(d.Name()) {
			log.Debug().Str("path", path).Msg("skipping hidden entry")

			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if matched := shouldExcludeByPattern(root, path, d.IsDir(), excludeRegexes); matched != nil {
			log.Debug().Str("path", filepath.ToSlash(path)).Str("regex", matched.String()).Msg("excluding entry")

			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if ignored.matches(path, d.IsDir()) {
			log.Debug().Str("path", path).Msg("ignored by ignore file")

			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			collector.addDir(path, currentDepth)

			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if !opt.FollowLinks {
				info, err := d.Info()
				if err != nil {
					collector.addError(path, err)

					return nil //nolint:nilerr // Intentionally skip errors during walk
				}

				collector.addFile(fileRecord(path, info, true, currentDepth))

				return nil
			}

			target, err := fastwalk.StatDirEntry(path, d)
			if err != nil {
				collector.addError(path, err)

				return nil //nolint:nilerr // Broken links are recorded, not fatal
			}

			// fastwalk traverses the target itself unless it would loop.
			if target.IsDir() {
				collector.addLinkDir(path, currentDepth)

				return nil
			}

			if target.Mode().IsRegular() {
				collector.addFile(fileRecord(path, target, true, currentDepth))
			}

			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			collector.addError(path, err)

			return nil //nolint:nilerr // Intentionally skip errors during walk
		}

		collector.addFile(fileRecord(path, info, false, currentDepth))

		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	stopProgress()

	if progressHook != nil {
		progressHook(collector.counts())
	}

	result := collector.finalize(root)

	log.Debug().
		Int("files", len(result.Files)).
		Int("directories", len(result.Directories)).
		Int("errors", len(result.Errors)).
		Msg("walk complete")

	return result, nil
}
