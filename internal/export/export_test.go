package export_test

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/idelchi/diranalyzer/internal/dirstat"
	"github.com/idelchi/diranalyzer/internal/duplicates"
	"github.com/idelchi/diranalyzer/internal/export"
)

func sample() *dirstat.Results {
	mod := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	return &dirstat.Results{
		ScanInfo: dirstat.ScanInfo{
			ID:               "run-1",
			Path:             "/scan",
			Timestamp:        mod,
			TotalFiles:       3,
			TotalDirectories: 2,
			TotalSize:        30,
		},
		LargestFiles: []dirstat.FileInfo{
			{Path: "/scan/a/x.bin", Size: 10, FileType: "Executables", Modified: &mod, Depth: 2},
			{Path: "/scan/a/y.bin", Size: 10, FileType: "Executables", Depth: 2},
		},
		LargestDirectories: []dirstat.DirectoryInfo{
			{Path: "/scan", Size: 30, FileCount: 1, SubdirectoryCount: 1},
			{Path: "/scan/a", Size: 20, FileCount: 2, Depth: 1},
		},
		DuplicateDetection: true,
		DuplicateGroups: []duplicates.Group{
			{Digest: "abc", Size: 10, Files: []string{"/scan/a/x.bin", "/scan/a/y.bin"}, WastedSpace: 10},
		},
	}
}

func TestExportJSON(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "nested", "report.json")

	path, err := export.Export(sample(), export.JSON, out)
	require.NoError(t, err)
	assert.Equal(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "scan_info")
	assert.Contains(t, decoded, "duplicate_groups")
}

func TestExportCSV(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "report.csv")

	_, err := export.Export(sample(), export.CSV, out)
	require.NoError(t, err)

	file, err := os.Open(out)
	require.NoError(t, err)

	t.Cleanup(func() { file.Close() })

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 1+2+2+2)
	assert.Equal(t, export.Header, records[0])
	assert.Equal(t, []string{"file", "/scan/a/x.bin", "10", "Executables", "2024-03-01T12:00:00Z", "2"}, records[1])
	assert.Equal(t, "", records[2][4])
	assert.Equal(t, export.RowDirectory, records[3][0])
	assert.Equal(t, []string{"duplicate", "/scan/a/y.bin", "10", "", "", ""}, records[6])
}

func TestExportXLSX(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "report.xlsx")

	_, err := export.Export(sample(), export.XLSX, out)
	require.NoError(t, err)

	book, err := excelize.OpenFile(out)
	require.NoError(t, err)

	t.Cleanup(func() { book.Close() })

	assert.Equal(t,
		[]string{export.SheetFiles, export.SheetDirectories, export.SheetDuplicates, export.SheetSummary},
		book.GetSheetList(),
	)

	rows, err := book.GetRows(export.SheetDuplicates)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "abc", rows[1][0])
	assert.Equal(t, "/scan/a/x.bin; /scan/a/y.bin", rows[1][4])

	rows, err = book.GetRows(export.SheetFiles)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := export.Export(sample(), "pdf", filepath.Join(t.TempDir(), "x.pdf"))
	require.Error(t, err)
}

func TestDefaultFilename(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 12, 31, 23, 59, 1, 0, time.UTC)
	assert.Equal(t, "diranalyzer_report_20241231_235901.csv", export.DefaultFilename(export.CSV, at))
}
