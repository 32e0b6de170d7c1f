package duplicates

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/idelchi/diranalyzer/internal/entry"
)

// Finder runs the full duplicate detection pipeline.
type Finder struct {
	// MinSize excludes files smaller than this many bytes.
	MinSize int64
	// Threads bounds hashing concurrency. Non-positive values select DefaultThreads.
	Threads int
	// Algorithm selects the digest. Empty selects DefaultAlgorithm.
	Algorithm Algorithm
	// Fs is the filesystem files are read from. Defaults to the OS filesystem.
	Fs afero.Fs
	// Logger receives debug output.
	Logger zerolog.Logger
	// Progress, if set, tracks hashing.
	Progress *Progress
}

// FindDuplicates returns the groups of byte-identical files among files.
// Symlinks and files below MinSize are never considered.
func (f Finder) FindDuplicates(files []entry.FileRecord) ([]Group, error) {
	algo, err := ParseAlgorithm(string(f.Algorithm))
	if err != nil {
		return nil, err
	}

	candidates := Candidates(files, f.MinSize)
	survivors := Prefilter(candidates)

	f.Logger.Debug().
		Int("files", len(files)).
		Int("candidates", len(candidates)).
		Int("to_hash", len(survivors)).
		Msg("size pre-filter done")

	if len(survivors) == 0 {
		return []Group{}, nil
	}

	hasher := Hasher{
		Fs:        f.Fs,
		Threads:   f.Threads,
		Algorithm: algo,
		Logger:    f.Logger,
		Progress:  f.Progress,
	}

	digests := hasher.Hash(survivors)

	sizes := make(map[string]int64, len(survivors))
	for _, s := range survivors {
		sizes[s.Path] = s.Size
	}

	groups := Groups(digests.Snapshot(), sizes)

	f.Logger.Debug().
		Int("digests", digests.Len()).
		Int("groups", len(groups)).
		Msg("hashing done")

	return groups, nil
}

// FindDuplicates runs a Finder with the default algorithm on the OS filesystem.
func FindDuplicates(files []entry.FileRecord, minSize int64, threads int) ([]Group, error) {
	return Finder{MinSize: minSize, Threads: threads}.FindDuplicates(files)
}
