package duplicates

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"github.com/idelchi/diranalyzer/internal/entry"
)

// DefaultThreads returns the number of logical CPUs, never less than one.
func DefaultThreads() int {
	return max(runtime.NumCPU(), 1)
}

// ResolveThreads returns n, or DefaultThreads if n is not positive.
func ResolveThreads(n int) int {
	if n <= 0 {
		return DefaultThreads()
	}

	return n
}

// Progress counts hashed files. All counters only ever increase and may be
// read from any goroutine while hashing is in flight.
type Progress struct {
	total  atomic.Int64
	done   atomic.Int64
	failed atomic.Int64
}

// Total returns the number of files scheduled for hashing.
func (p *Progress) Total() int64 { return p.total.Load() }

// Done returns the number of files finished, successfully or not.
func (p *Progress) Done() int64 { return p.done.Load() }

// Failed returns the number of files that could not be read.
func (p *Progress) Failed() int64 { return p.failed.Load() }

// Hasher computes content digests for candidate files in parallel.
type Hasher struct {
	// Fs is the filesystem files are read from. Defaults to the OS filesystem.
	Fs afero.Fs
	// Threads bounds the number of concurrent workers. Defaults to DefaultThreads.
	Threads int
	// Algorithm selects the digest. Defaults to DefaultAlgorithm.
	Algorithm Algorithm
	// Logger receives per-file failures at debug level.
	Logger zerolog.Logger
	// Progress, if set, is updated once per completed file.
	Progress *Progress
}

// Hash digests every candidate and returns the digest to paths mapping.
// Files that cannot be read are left out. Hash returns once all workers are done.
func (h *Hasher) Hash(candidates []*entry.FileRecord) *DigestMap {
	fsys := h.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	algo := h.Algorithm
	if algo == "" {
		algo = DefaultAlgorithm
	}

	progress := h.Progress
	if progress == nil {
		progress = &Progress{}
	}

	progress.total.Add(int64(len(candidates)))

	digests := NewDigestMap()

	buffers := sync.Pool{
		New: func() any {
			buf := make([]byte, ChunkSize)

			return &buf
		},
	}

	workers := pool.New().WithMaxGoroutines(ResolveThreads(h.Threads))

	for _, candidate := range candidates {
		workers.Go(func() {
			defer progress.done.Add(1)

			buf := buffers.Get().(*[]byte) //nolint:forcetypeassert // Pool only holds *[]byte
			defer buffers.Put(buf)

			sum, err := digestFile(fsys, candidate.Path, algo, *buf)
			if err != nil {
				progress.failed.Add(1)
				h.Logger.Debug().Err(err).Str("path", candidate.Path).Msg("skipping file")

				return
			}

			digests.Add(sum, candidate.Path)
		})
	}

	workers.Wait()

	return digests
}
