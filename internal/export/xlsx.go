package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/xuri/excelize/v2"

	"github.com/idelchi/diranalyzer/internal/dirstat"
)

// Sheet names of the workbook.
const (
	SheetFiles       = "Files"
	SheetDirectories = "Directories"
	SheetDuplicates  = "Duplicates"
	SheetSummary     = "Summary"
)

// sheet is a named table of rows, header first.
type sheet struct {
	name string
	rows [][]any
}

func sheets(results *dirstat.Results) []sheet {
	files := [][]any{{"Path", "Size", "File Type", "Modified", "Depth"}}
	for _, f := range results.LargestFiles {
		files = append(files, []any{f.Path, f.Size, f.FileType, timestamp(f.Modified), f.Depth})
	}

	dirs := [][]any{{"Path", "Size", "Files", "Subdirectories", "Depth"}}
	for _, d := range results.LargestDirectories {
		dirs = append(dirs, []any{d.Path, d.Size, d.FileCount, d.SubdirectoryCount, d.Depth})
	}

	dups := [][]any{{"Hash", "Size", "Count", "Wasted", "Files"}}
	for _, g := range results.DuplicateGroups {
		dups = append(dups, []any{g.Digest, g.Size, len(g.Files), g.WastedSpace, strings.Join(g.Files, "; ")})
	}

	info := results.ScanInfo
	stats := results.Statistics

	summary := [][]any{
		{"Metric", "Value"},
		{"Scan ID", info.ID},
		{"Path", info.Path},
		{"Generated At", info.Timestamp.Format("2006-01-02 15:04:05")},
		{"Total Files", info.TotalFiles},
		{"Total Directories", info.TotalDirectories},
		{"Total Size", humanize.IBytes(uint64(max(info.TotalSize, 0)))},
		{"Elapsed (ms)", info.Elapsed.Milliseconds()},
		{"Duplicate Groups", len(results.DuplicateGroups)},
		{"Duplicate Files", stats.DuplicateFiles},
		{"Wasted Space", humanize.IBytes(uint64(max(stats.WastedSpace, 0)))},
		{"Compression Ratio", stats.CompressionRatio},
		{"Scan Errors", len(results.Errors)},
	}

	return []sheet{
		{name: SheetFiles, rows: files},
		{name: SheetDirectories, rows: dirs},
		{name: SheetDuplicates, rows: dups},
		{name: SheetSummary, rows: summary},
	}
}

func writeXLSX(results *dirstat.Results, path string) (err error) {
	f := excelize.NewFile()

	defer func() {
		err = errors.Join(err, f.Close())
	}()

	for i, s := range sheets(results) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("renaming sheet %s: %w", s.name, err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", s.name, err)
		}

		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}

			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return fmt.Errorf("writing sheet %s: %w", s.name, err)
			}
		}
	}

	if idx, err := f.GetSheetIndex(SheetSummary); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	return f.SaveAs(path)
}
