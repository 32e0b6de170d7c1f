package duplicates_test

import (
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/diranalyzer/internal/duplicates"
	"github.com/idelchi/diranalyzer/internal/entry"
)

// faultyFs fails opening or reading selected paths.
type faultyFs struct {
	afero.Fs

	failOpen map[string]bool
	failRead map[string]bool
}

func (f faultyFs) Open(name string) (afero.File, error) {
	if f.failOpen[name] {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}

	file, err := f.Fs.Open(name)
	if err != nil {
		return nil, err
	}

	if f.failRead[name] {
		return faultyFile{File: file}, nil
	}

	return file, nil
}

type faultyFile struct {
	afero.File
}

func (faultyFile) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

// memTree writes contents into an in-memory filesystem under /data and
// returns the matching records in path order.
func memTree(t *testing.T, contents map[string]string) (afero.Fs, []entry.FileRecord) {
	t.Helper()

	fsys := afero.NewMemMapFs()
	files := make([]entry.FileRecord, 0, len(contents))

	for rel, body := range contents {
		path := filepath.Join("/data", filepath.FromSlash(rel))
		require.NoError(t, afero.WriteFile(fsys, path, []byte(body), 0o644))

		files = append(files, entry.FileRecord{Path: path, Size: int64(len(body))})
	}

	entry.SortFiles(files)

	return fsys, files
}

// pathSets reduces groups to their member lists.
func pathSets(groups []duplicates.Group) [][]string {
	out := make([][]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Files)
	}

	return out
}
