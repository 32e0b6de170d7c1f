package export

import (
	"encoding/csv"
	"errors"
	"os"
	"strconv"

	"github.com/idelchi/diranalyzer/internal/dirstat"
)

// Header is the first CSV row.
//
//nolint:gochecknoglobals // Column layout
var Header = []string{"Type", "Path", "Size", "FileType", "Modified", "Depth"}

// Row types in the first CSV column.
const (
	RowFile      = "file"
	RowDirectory = "directory"
	RowDuplicate = "duplicate"
)

// rows flattens results into CSV records, header first.
func rows(results *dirstat.Results) [][]string {
	out := [][]string{Header}

	for _, f := range results.LargestFiles {
		out = append(out, []string{
			RowFile,
			f.Path,
			strconv.FormatInt(f.Size, 10),
			f.FileType,
			timestamp(f.Modified),
			strconv.Itoa(f.Depth),
		})
	}

	for _, d := range results.LargestDirectories {
		out = append(out, []string{
			RowDirectory,
			d.Path,
			strconv.FormatInt(d.Size, 10),
			"",
			"",
			strconv.Itoa(d.Depth),
		})
	}

	for _, g := range results.DuplicateGroups {
		for _, path := range g.Files {
			out = append(out, []string{
				RowDuplicate,
				path,
				strconv.FormatInt(g.Size, 10),
				"",
				"",
				"",
			})
		}
	}

	return out
}

func writeCSV(results *dirstat.Results, path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, file.Close())
	}()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows(results)); err != nil {
		return err
	}

	return w.Error()
}
