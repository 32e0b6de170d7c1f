package cli

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/idelchi/diranalyzer/internal/classify"
	"github.com/idelchi/diranalyzer/internal/dirstat"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
	// DigestWidth is how many hex characters of a digest are shown.
	DigestWidth = 12
)

// PrintJSON outputs results in JSON format.
func PrintJSON(results *dirstat.Results, writer io.Writer) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintPaths outputs every duplicate except the first of its group, one per line.
func PrintPaths(results *dirstat.Results, writer io.Writer) error {
	for _, group := range results.DuplicateGroups {
		if len(group.Files) < 2 {
			continue
		}

		for _, path := range group.Files[1:] {
			if _, err := fmt.Fprintln(writer, path); err != nil {
				return err
			}
		}
	}

	return nil
}

// PrintSummary outputs the totals only.
func PrintSummary(results *dirstat.Results, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	printTotals(w, results)

	return w.Flush()
}

// displayPath returns path relative to cwd when it lies inside cwd.
func displayPath(cwd, path string) string {
	if cwd == "" {
		return path
	}

	rel, err := filepath.Rel(cwd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}

	return rel
}

func percent(part, total int64) float64 {
	return classify.Percentage(part, total)
}

func printTotals(w io.Writer, results *dirstat.Results) {
	info := results.ScanInfo
	stats := results.Statistics

	fmt.Fprintf(w, "Path:\t%s\n", info.Path)
	fmt.Fprintf(w, "Total files:\t%d\n", info.TotalFiles)
	fmt.Fprintf(w, "Total directories:\t%d\n", info.TotalDirectories)
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n", ibytes(info.TotalSize), info.TotalSize)

	if results.DuplicateDetection {
		fmt.Fprintf(w, "Duplicate groups:\t%d\n", len(results.DuplicateGroups))
		fmt.Fprintf(w, "Duplicate files:\t%d\n", stats.DuplicateFiles)
		fmt.Fprintf(w, "Wasted space:\t%s (%.1f%%)\n",
			ibytes(stats.WastedSpace), percent(stats.WastedSpace, info.TotalSize))
	}

	if n := len(results.Errors); n > 0 {
		fmt.Fprintf(w, "Errors:\t%d\n", n)
	}

	fmt.Fprintf(w, "Elapsed:\t%v\n", info.Elapsed)
}

// PrintTable outputs results in human-readable table format.
// Ranked lists are printed smallest first so the largest entry ends up
// closest to the prompt.
//
//nolint:funlen // Sequential report sections.
func PrintTable(results *dirstat.Results, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	cwd, _ := os.Getwd()
	total := results.ScanInfo.TotalSize

	// Size breakdown
	sizes := results.SizeBreakdown

	fmt.Fprintln(w, "\nSize breakdown:\t\t")
	fmt.Fprintf(w, "  small (<1MiB):\t%d files, %s (%.1f%%)\n",
		sizes.SmallCount, ibytes(sizes.SmallSize), percent(sizes.SmallSize, total))
	fmt.Fprintf(w, "  medium (<100MiB):\t%d files, %s (%.1f%%)\n",
		sizes.MediumCount, ibytes(sizes.MediumSize), percent(sizes.MediumSize, total))
	fmt.Fprintf(w, "  large:\t%d files, %s (%.1f%%)\n",
		sizes.LargeCount, ibytes(sizes.LargeSize), percent(sizes.LargeSize, total))

	// File types
	types := slices.SortedFunc(maps.Keys(results.FileTypes), func(a, b string) int {
		return cmp.Or(
			cmp.Compare(results.FileTypes[a].TotalSize, results.FileTypes[b].TotalSize),
			cmp.Compare(a, b),
		)
	})

	fmt.Fprintln(w, "\nFile types:\t\t")

	for i, name := range types {
		stat := results.FileTypes[name]
		fmt.Fprintf(w, "  %d) %s:\t%d files, %s (%.1f%%), avg %s\n",
			len(types)-i, name, stat.Count, ibytes(stat.TotalSize), percent(stat.TotalSize, total), ibytes(stat.AverageSize))
	}

	// Top directories
	fmt.Fprintln(w, "\nTop directories:\t\t")

	for i := len(results.LargestDirectories) - 1; i >= 0; i-- {
		d := results.LargestDirectories[i]
		fmt.Fprintf(w, "  %d) '%s'\t%s (%.1f%%), %d files, %d subdirectories\n",
			i+1, displayPath(cwd, d.Path), ibytes(d.Size), percent(d.Size, total), d.FileCount, d.SubdirectoryCount)
	}

	// Top files
	fmt.Fprintln(w, "\nTop files:\t\t")

	for i := len(results.LargestFiles) - 1; i >= 0; i-- {
		f := results.LargestFiles[i]
		fmt.Fprintf(w, "  %d) '%s'\t%s (%.1f%%)\n",
			i+1, displayPath(cwd, f.Path), ibytes(f.Size), percent(f.Size, total))
	}

	// Duplicates
	if results.DuplicateDetection {
		groups := results.DuplicateGroups
		if len(groups) > results.TopN {
			groups = groups[:results.TopN]
		}

		fmt.Fprintf(w, "\nDuplicate groups (%d):\t\t\n", len(results.DuplicateGroups))

		for i := len(groups) - 1; i >= 0; i-- {
			g := groups[i]
			fmt.Fprintf(w, "  %d) %s\t%d x %s, %s wasted\n",
				i+1, g.Digest[:min(DigestWidth, len(g.Digest))], len(g.Files), ibytes(g.Size), ibytes(g.WastedSpace))

			for _, path := range g.Files {
				fmt.Fprintf(w, "       '%s'\t\n", displayPath(cwd, path))
			}
		}
	}

	// Errors
	if len(results.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors:\t\t")

		for _, e := range results.Errors {
			fmt.Fprintf(w, "  '%s'\t%s\n", displayPath(cwd, e.Path), e.Kind)
		}
	}

	// Stats summary
	stats := results.Statistics

	fmt.Fprintln(w, "\nStats:\t\t")
	printTotals(w, results)
	fmt.Fprintf(w, "Throughput:\t%.0f files/s, %s/s\n", stats.FilesPerSecond, ibytes(stats.BytesPerSecond))
	fmt.Fprintf(w, "Memory:\t%.1f MiB\n", stats.MemoryUsageMB)

	if results.DuplicateDetection {
		fmt.Fprintf(w, "Compression ratio:\t%.3f\n", stats.CompressionRatio)
	}

	return w.Flush()
}
