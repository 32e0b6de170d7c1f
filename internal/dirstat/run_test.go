package dirstat_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/diranalyzer/internal/aggregate"
	"github.com/idelchi/diranalyzer/internal/dirstat"
)

func tree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	files := map[string]string{
		"a/x.bin":   "0123456789",
		"a/y.bin":   "0123456789",
		"b/z.bin":   "9876543210",
		"a/b/w.go":  "01234",
		"readme.md": "hi",
	}

	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}

	return root
}

func TestRunWithDuplicates(t *testing.T) {
	t.Parallel()

	root := tree(t)

	var phases []dirstat.Phase

	results, err := dirstat.Run(context.Background(), dirstat.Options{
		Path:       root,
		Duplicates: true,
		MinSize:    1,
	}, dirstat.Hooks{
		Phase: func(p dirstat.Phase) { phases = append(phases, p) },
	})
	require.NoError(t, err)

	assert.Equal(t, []dirstat.Phase{dirstat.PhaseScan, dirstat.PhaseAggregate, dirstat.PhaseDuplicates}, phases)

	info := results.ScanInfo
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, int64(5), info.TotalFiles)
	assert.Equal(t, int64(4), info.TotalDirectories)
	assert.Equal(t, int64(37), info.TotalSize)

	require.Len(t, results.DuplicateGroups, 1)
	group := results.DuplicateGroups[0]
	assert.Equal(t, int64(10), group.Size)
	assert.Equal(t, int64(10), group.WastedSpace)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "x.bin"),
		filepath.Join(root, "a", "y.bin"),
	}, group.Files)

	assert.Equal(t, int64(2), results.Statistics.DuplicateFiles)
	assert.Equal(t, int64(10), results.Statistics.WastedSpace)
	assert.InDelta(t, 27.0/37.0, results.Statistics.CompressionRatio, 1e-9)
	assert.Zero(t, results.Statistics.HashFailures)

	require.NotEmpty(t, results.LargestDirectories)
	assert.Equal(t, root, results.LargestDirectories[0].Path)
	assert.Equal(t, int64(37), results.LargestDirectories[0].Size)
	assert.Equal(t, int64(1), results.LargestDirectories[0].FileCount)
	assert.Equal(t, int64(2), results.LargestDirectories[0].SubdirectoryCount)

	assert.Equal(t, int64(3), results.FileTypes["Executables"].Count)
	assert.Equal(t, int64(1), results.FileTypes["Code"].Count)
	assert.Equal(t, int64(1), results.FileTypes["Documents"].Count)
	assert.Equal(t, int64(5), results.SizeBreakdown.SmallCount)
}

func TestRunWithoutDuplicates(t *testing.T) {
	t.Parallel()

	results, err := dirstat.Run(context.Background(), dirstat.Options{
		Path:        tree(t),
		TopN:        2,
		Aggregation: aggregate.BottomUp,
	}, dirstat.Hooks{})
	require.NoError(t, err)

	assert.False(t, results.DuplicateDetection)
	assert.Empty(t, results.DuplicateGroups)
	assert.NotNil(t, results.DuplicateGroups)
	assert.Len(t, results.LargestFiles, 2)
	assert.Len(t, results.LargestDirectories, 2)
	assert.Equal(t, 1.0, results.Statistics.CompressionRatio)
	assert.Equal(t, int64(10), results.LargestFiles[0].Size)
}

func TestRunFollowedLinkIsNotItsOwnDuplicate(t *testing.T) {
	t.Parallel()

	root := tree(t)

	if err := os.Symlink(filepath.Join(root, "a"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	results, err := dirstat.Run(context.Background(), dirstat.Options{
		Path:        root,
		FollowLinks: true,
		Duplicates:  true,
		MinSize:     1,
	}, dirstat.Hooks{})
	require.NoError(t, err)

	require.Len(t, results.DuplicateGroups, 1)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "x.bin"),
		filepath.Join(root, "a", "y.bin"),
	}, results.DuplicateGroups[0].Files)
	assert.Equal(t, int64(10), results.Statistics.WastedSpace)
}

func TestRunHashProgressEndsWithFinalCount(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		calls [][2]int64
	)

	_, err := dirstat.Run(context.Background(), dirstat.Options{
		Path:             tree(t),
		Duplicates:       true,
		MinSize:          1,
		ProgressInterval: time.Microsecond,
	}, dirstat.Hooks{
		Hash: func(done, total int64) {
			mu.Lock()
			defer mu.Unlock()

			calls = append(calls, [2]int64{done, total})
		},
	})
	require.NoError(t, err)

	mu.Lock()
	seen := len(calls)
	require.NotZero(t, seen)
	assert.Equal(t, [2]int64{3, 3}, calls[seen-1])
	mu.Unlock()

	time.Sleep(10 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	assert.Len(t, calls, seen)
}

func TestRunRejectsInvalidOptions(t *testing.T) {
	t.Parallel()

	root := tree(t)

	_, err := dirstat.Run(context.Background(), dirstat.Options{Path: root, Hash: "md5"}, dirstat.Hooks{})
	require.Error(t, err)

	_, err = dirstat.Run(context.Background(), dirstat.Options{Path: root, Aggregation: "sideways"}, dirstat.Hooks{})
	require.Error(t, err)

	_, err = dirstat.Run(context.Background(), dirstat.Options{Path: root, MinSize: -1}, dirstat.Hooks{})
	require.Error(t, err)

	_, err = dirstat.Run(context.Background(), dirstat.Options{Path: filepath.Join(root, "missing")}, dirstat.Hooks{})
	require.Error(t, err)
}
