package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/diranalyzer/internal/cli"
	"github.com/idelchi/diranalyzer/internal/dirstat"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := cli.New("v1.2.3").Command()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	return stdout.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()

	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	root := t.TempDir()

	for rel, body := range map[string]string{
		"a/one.txt": "duplicate content",
		"b/two.txt": "duplicate content",
		"c.txt":     "unique",
	} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}

	return root
}

func TestCommandVersion(t *testing.T) {
	isolate(t)

	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3\n", out)
}

func TestCommandJSON(t *testing.T) {
	root := isolate(t)

	out, err := run(t, "--duplicates", "--min-size", "0", "-f", "json", root)
	require.NoError(t, err)

	var results dirstat.Results
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Equal(t, int64(3), results.ScanInfo.TotalFiles)
	require.Len(t, results.DuplicateGroups, 1)
	assert.Len(t, results.DuplicateGroups[0].Files, 2)
}

func TestCommandPaths(t *testing.T) {
	root := isolate(t)

	out, err := run(t, "--duplicates", "--min-size", "1", "-f", "paths", root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "b", "two.txt")+"\n", out)
}

func TestCommandEnvironment(t *testing.T) {
	root := isolate(t)
	t.Setenv("DIRANALYZER_FORMAT", "json")

	out, err := run(t, root)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
}

func TestCommandExport(t *testing.T) {
	root := isolate(t)
	target := filepath.Join(t.TempDir(), "report.csv")

	_, err := run(t, "-q", "-e", "csv", "-o", target, root)
	require.NoError(t, err)
	assert.FileExists(t, target)
}

func TestCommandRejectsInvalidInput(t *testing.T) {
	root := isolate(t)

	_, err := run(t, "-f", "xml", root)
	require.Error(t, err)

	_, err = run(t, "-d", "-1", root)
	require.Error(t, err)

	_, err = run(t, "-v", "-q", root)
	require.Error(t, err)

	_, err = run(t, root, root)
	require.Error(t, err)
}
