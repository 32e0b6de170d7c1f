package dirstat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/idelchi/diranalyzer/internal/aggregate"
	"github.com/idelchi/diranalyzer/internal/classify"
	"github.com/idelchi/diranalyzer/internal/duplicates"
	"github.com/idelchi/diranalyzer/internal/walker"
)

// DefaultTopN is the number of largest entries kept when Options.TopN is unset.
const DefaultTopN = 20

// Options configures directory analysis.
type Options struct {
	// Path is the directory to analyze.
	Path string
	// Depth limits traversal depth (0=unlimited).
	Depth int
	// FollowLinks follows symbolic links.
	FollowLinks bool
	// ShowHidden includes hidden files and directories.
	ShowHidden bool
	// Excludes contains regex patterns to exclude paths.
	Excludes []string
	// IgnoreFile is an optional gitignore-style file.
	IgnoreFile string
	// TopN is the number of largest files and directories to report.
	TopN int
	// Duplicates enables duplicate detection.
	Duplicates bool
	// MinSize is the minimum file size considered for duplicate detection.
	MinSize int64
	// Threads bounds hashing concurrency (0=number of CPUs).
	Threads int
	// Hash selects the digest algorithm.
	Hash duplicates.Algorithm
	// Aggregation selects how directory totals are computed.
	Aggregation aggregate.Strategy
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Logger receives debug output.
	Logger zerolog.Logger
	// Fs is the filesystem hashed files are read from. Defaults to the OS filesystem.
	Fs afero.Fs
}

// Phase names a stage of the analysis.
type Phase string

const (
	PhaseScan       Phase = "scanning"
	PhaseAggregate  Phase = "aggregating"
	PhaseDuplicates Phase = "hashing"
)

// Hooks receive progress notifications. Any of them may be nil.
type Hooks struct {
	// Phase is called when a new stage starts.
	Phase func(Phase)
	// Scan receives the number of files and bytes seen so far.
	Scan func(files, bytes int64)
	// Hash receives the number of files hashed and the number scheduled.
	Hash func(done, total int64)
}

func (h Hooks) phase(p Phase) {
	if h.Phase != nil {
		h.Phase(p)
	}
}

// startHashReporter invokes hook(done, total) on each tick until stop is called.
// stop returns once the last hook call has finished.
func startHashReporter(
	ctx context.Context, progress *duplicates.Progress, hook func(int64, int64), interval time.Duration,
) (stop func()) {
	if hook == nil {
		return func() {}
	}

	if interval <= 0 {
		interval = walker.DefaultProgressInterval
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
				hook(progress.Done(), progress.Total())
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

// Run performs directory analysis and returns the full report.
// It walks the directory tree at opt.Path, aggregates directory totals,
// builds the type distribution and the largest entries and, if
// opt.Duplicates is set, groups files with identical content.
//
// The walk can be cancelled via ctx. Progress updates are sent to hooks.
//
//nolint:funlen // Linear pipeline.
func Run(ctx context.Context, opt Options, hooks Hooks) (*Results, error) {
	log := opt.Logger

	strategy, err := aggregate.ParseStrategy(string(opt.Aggregation))
	if err != nil {
		return nil, err
	}

	algo, err := duplicates.ParseAlgorithm(string(opt.Hash))
	if err != nil {
		return nil, err
	}

	if opt.TopN <= 0 {
		opt.TopN = DefaultTopN
	}

	if opt.MinSize < 0 {
		return nil, fmt.Errorf("minimum size cannot be negative: %d", opt.MinSize)
	}

	started := time.Now()

	hooks.phase(PhaseScan)

	walked, err := walker.Walk(ctx, walker.Options{
		Root:             opt.Path,
		MaxDepth:         opt.Depth,
		FollowLinks:      opt.FollowLinks,
		ShowHidden:       opt.ShowHidden,
		Excludes:         opt.Excludes,
		IgnoreFile:       opt.IgnoreFile,
		ProgressInterval: opt.ProgressInterval,
		Logger:           log,
	}, hooks.Scan)
	if err != nil {
		return nil, fmt.Errorf("scanning %q: %w", opt.Path, err)
	}

	hooks.phase(PhaseAggregate)

	dirs, report := strategy.Apply(walked.Files, walked.Directories)
	for _, orphan := range report.Orphans {
		log.Debug().Str("path", orphan).Msg("parent directory not recorded")
	}

	if n := len(report.Orphans); n > 0 {
		log.Warn().Int("files", n).Msg("some files have no recorded parent directory")
	}

	types, largest := analyzeFiles(walked.Files, classify.New(), opt.TopN)

	results := &Results{
		ScanInfo: ScanInfo{
			ID:               uuid.NewString(),
			Path:             walked.Root,
			Timestamp:        started,
			DepthLimit:       opt.Depth,
			TotalFiles:       int64(len(walked.Files)),
			TotalDirectories: int64(len(dirs)),
			TotalSize:        walked.TotalSize,
		},
		SizeBreakdown:      classify.Breakdown(walked.Files),
		FileTypes:          types,
		LargestFiles:       largest,
		LargestDirectories: largestDirectories(dirs, opt.TopN),
		DuplicateDetection: opt.Duplicates,
		DuplicateGroups:    []duplicates.Group{},
		Errors:             walked.Errors,
		TopN:               opt.TopN,
	}

	if results.Errors == nil {
		results.Errors = []walker.ScanError{}
	}

	var progress duplicates.Progress

	if opt.Duplicates {
		hooks.phase(PhaseDuplicates)

		stop := startHashReporter(ctx, &progress, hooks.Hash, opt.ProgressInterval)

		groups, err := duplicates.Finder{
			MinSize:   opt.MinSize,
			Threads:   opt.Threads,
			Algorithm: algo,
			Fs:        opt.Fs,
			Logger:    log,
			Progress:  &progress,
		}.FindDuplicates(walked.Files)

		stop()

		if err != nil {
			return nil, fmt.Errorf("finding duplicates: %w", err)
		}

		if hooks.Hash != nil {
			hooks.Hash(progress.Done(), progress.Total())
		}

		results.DuplicateGroups = groups
	}

	results.ScanInfo.Elapsed = time.Since(started)
	results.Statistics = statistics(results.ScanInfo, results.DuplicateGroups)
	results.Statistics.HashFailures = progress.Failed()
	results.Statistics.Orphans = len(report.Orphans)

	log.Debug().
		Str("id", results.ScanInfo.ID).
		Dur("elapsed", results.ScanInfo.Elapsed).
		Int("groups", len(results.DuplicateGroups)).
		Msg("analysis complete")

	return results, nil
}
