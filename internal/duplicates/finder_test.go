package duplicates_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/diranalyzer/internal/duplicates"
	"github.com/idelchi/diranalyzer/internal/entry"
)

func writeFile(t *testing.T, path, body string) entry.FileRecord {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return entry.FileRecord{Path: path, Size: int64(len(body))}
}

func TestFindDuplicatesExampleTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := []entry.FileRecord{
		writeFile(t, filepath.Join(root, "a", "x.bin"), "0123456789"),
		writeFile(t, filepath.Join(root, "a", "y.bin"), "0123456789"),
		writeFile(t, filepath.Join(root, "b", "z.bin"), "9876543210"),
		writeFile(t, filepath.Join(root, "a", "b", "w.bin"), "01234"),
	}

	groups, err := duplicates.FindDuplicates(files, 0, 0)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	assert.Equal(t, int64(10), groups[0].Size)
	assert.Equal(t, int64(10), groups[0].WastedSpace)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "x.bin"),
		filepath.Join(root, "a", "y.bin"),
	}, groups[0].Files)
	assert.Len(t, groups[0].Digest, 64)
}

func TestFindDuplicatesThreadCountDoesNotMatter(t *testing.T) {
	t.Parallel()

	contents := map[string]string{}
	for i, body := range []string{"alpha", "bravo", "alpha", "delta", "bravo", "alpha", "omega", "delta"} {
		contents[string(rune('a'+i))+".txt"] = body
	}

	fsys, files := memTree(t, contents)

	single, err := duplicates.Finder{Fs: fsys, Threads: 1}.FindDuplicates(files)
	require.NoError(t, err)

	parallel, err := duplicates.Finder{Fs: fsys, Threads: 8}.FindDuplicates(files)
	require.NoError(t, err)

	require.Len(t, single, 3)
	assert.ElementsMatch(t, pathSets(single), pathSets(parallel))
	assert.Equal(t, single, parallel)
}

func TestFindDuplicatesHonoursMinSizeAndSymlinks(t *testing.T) {
	t.Parallel()

	fsys, files := memTree(t, map[string]string{
		"small1": "ab",
		"small2": "ab",
		"big1":   "abcdefgh",
		"big2":   "abcdefgh",
		"link":   "abcdefgh",
	})

	for i := range files {
		if filepath.Base(files[i].Path) == "link" {
			files[i].IsSymlink = true
		}
	}

	groups, err := duplicates.Finder{Fs: fsys, MinSize: 4}.FindDuplicates(files)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"/data/big1", "/data/big2"}, groups[0].Files)

	for _, g := range groups {
		for _, f := range g.Files {
			assert.NotContains(t, []string{"/data/small1", "/data/small2", "/data/link"}, f)
		}
	}
}

func TestFindDuplicatesDifferentSizeSamePrefix(t *testing.T) {
	t.Parallel()

	fsys, files := memTree(t, map[string]string{
		"short": "0123456789",
		"long":  "0123456789-and-more",
	})

	// The hasher must never see these: an fs that fails every open proves it.
	broken := faultyFs{Fs: fsys, failOpen: map[string]bool{"/data/short": true, "/data/long": true}}
	progress := &duplicates.Progress{}

	groups, err := duplicates.Finder{Fs: broken, Progress: progress}.FindDuplicates(files)
	require.NoError(t, err)
	assert.Empty(t, groups)
	assert.Equal(t, int64(0), progress.Total())
}

func TestFindDuplicatesUnreadableMember(t *testing.T) {
	t.Parallel()

	mem, files := memTree(t, map[string]string{
		"pair/a":   "duplicate!",
		"pair/b":   "duplicate!",
		"triple/a": "triplicate",
		"triple/b": "triplicate",
		"triple/c": "triplicate",
	})

	fsys := faultyFs{Fs: mem, failOpen: map[string]bool{
		"/data/pair/b":   true,
		"/data/triple/c": true,
	}}

	groups, err := duplicates.Finder{Fs: fsys, Threads: 3}.FindDuplicates(files)
	require.NoError(t, err)

	// The pair shrinks below two members and vanishes, the triple survives as a pair.
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"/data/triple/a", "/data/triple/b"}, groups[0].Files)
	assert.Equal(t, int64(10), groups[0].WastedSpace)
}

func TestFindDuplicatesGroupInvariants(t *testing.T) {
	t.Parallel()

	fsys, files := memTree(t, map[string]string{
		"1": "aaaa", "2": "aaaa", "3": "bbbb", "4": "bbbb", "5": "bbbb",
		"6": "cccccc", "7": "cccccc", "8": "unique",
	})

	groups, err := duplicates.Finder{Fs: fsys}.FindDuplicates(files)
	require.NoError(t, err)

	sizes := map[string]int64{}

	var candidateTotal int64

	for _, f := range files {
		sizes[f.Path] = f.Size
		candidateTotal += f.Size
	}

	var groupTotal int64

	for _, g := range groups {
		require.GreaterOrEqual(t, len(g.Files), 2)

		for _, f := range g.Files {
			assert.Equal(t, g.Size, sizes[f])
		}

		assert.Equal(t, g.Size*int64(len(g.Files)-1), g.WastedSpace)

		groupTotal += g.Size * int64(len(g.Files))
	}

	assert.LessOrEqual(t, groupTotal, candidateTotal)

	for i := 1; i < len(groups); i++ {
		assert.GreaterOrEqual(t, groups[i-1].WastedSpace, groups[i].WastedSpace)
	}
}

func TestFindDuplicatesInvalidAlgorithm(t *testing.T) {
	t.Parallel()

	_, err := duplicates.Finder{Algorithm: "rot13"}.FindDuplicates(nil)
	require.Error(t, err)
}
