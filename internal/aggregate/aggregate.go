// Package aggregate rolls a flat list of files up into per-directory totals.
//
// Two strategies are provided. Both produce identical results: the ancestor
// chain walk is O(files × depth), the bottom-up pass is O(files + directories).
package aggregate

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/idelchi/diranalyzer/internal/entry"
)

// Strategy selects how directory totals are rolled up.
type Strategy string

const (
	// Chain adds each file's size to every known ancestor.
	Chain Strategy = "chain"
	// BottomUp credits the nearest known ancestor and propagates totals upwards
	// once per directory, deepest first.
	BottomUp Strategy = "bottom-up"
)

// Strategies lists the accepted strategy names.
func Strategies() []string {
	return []string{string(Chain), string(BottomUp)}
}

// ParseStrategy validates a strategy name. The empty string selects Chain.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case "", Chain:
		return Chain, nil
	case BottomUp:
		return BottomUp, nil
	default:
		return "", fmt.Errorf("unknown aggregation strategy %q: must be one of %v", name, Strategies())
	}
}

// Report carries the inconsistencies tolerated during aggregation.
type Report struct {
	// Orphans holds the paths of files whose direct parent is not a known directory.
	// Their sizes still reach any known ancestor further up.
	Orphans []string
}

// Apply runs the aggregation selected by s.
func (s Strategy) Apply(files []entry.FileRecord, dirs entry.Directories) (entry.Directories, Report) {
	if s == BottomUp {
		return AggregateBottomUp(files, dirs)
	}

	return Aggregate(files, dirs)
}

// Aggregate walks the ancestor chain of every file, adding its size to each
// known ancestor and counting it as a direct file of its parent.
// dirs is not modified; the returned map holds fresh records.
func Aggregate(files []entry.FileRecord, dirs entry.Directories) (entry.Directories, Report) {
	out := dirs.Reset()

	var report Report

	for i := range files {
		file := &files[i]
		parent := file.Parent()

		if rec, ok := out[parent]; ok {
			rec.FileCount++
		} else {
			report.Orphans = append(report.Orphans, file.Path)
		}

		for dir := parent; ; {
			if rec, ok := out[dir]; ok {
				rec.TotalSize += file.Size
			}

			next := filepath.Dir(dir)
			if next == dir {
				break
			}

			dir = next
		}
	}

	countSubdirs(out)

	return out, report
}

// AggregateBottomUp credits every file to its nearest known ancestor and then
// folds each directory total into its nearest known ancestor, longest paths first.
// dirs is not modified; the returned map holds fresh records.
func AggregateBottomUp(files []entry.FileRecord, dirs entry.Directories) (entry.Directories, Report) {
	out := dirs.Reset()

	var report Report

	for i := range files {
		file := &files[i]
		parent := file.Parent()

		if rec, ok := out[parent]; ok {
			rec.FileCount++
			rec.TotalSize += file.Size

			continue
		}

		report.Orphans = append(report.Orphans, file.Path)

		if anc := nearestAncestor(out, parent); anc != nil {
			anc.TotalSize += file.Size
		}
	}

	// An ancestor path is always strictly shorter than its descendants,
	// so ordering by length yields a valid reverse-topological order.
	order := make([]*entry.DirectoryRecord, 0, len(out))
	for _, rec := range out {
		order = append(order, rec)
	}

	slices.SortFunc(order, func(a, b *entry.DirectoryRecord) int {
		if c := cmp.Compare(len(b.Path), len(a.Path)); c != 0 {
			return c
		}

		return cmp.Compare(a.Path, b.Path)
	})

	for _, rec := range order {
		parent := filepath.Dir(rec.Path)
		if parent == rec.Path {
			continue
		}

		if anc := nearestAncestor(out, parent); anc != nil {
			anc.TotalSize += rec.TotalSize
		}
	}

	countSubdirs(out)

	return out, report
}

// nearestAncestor returns the record for dir or its closest registered ancestor.
func nearestAncestor(dirs entry.Directories, dir string) *entry.DirectoryRecord {
	for {
		if rec, ok := dirs[dir]; ok {
			return rec
		}

		next := filepath.Dir(dir)
		if next == dir {
			return nil
		}

		dir = next
	}
}

// countSubdirs sets SubdirCount from exact parent relationships.
// A directory with no registered parent (the scan root) is nobody's subdirectory.
func countSubdirs(dirs entry.Directories) {
	for path := range dirs {
		parent := filepath.Dir(path)
		if parent == path {
			continue
		}

		if rec, ok := dirs[parent]; ok {
			rec.SubdirCount++
		}
	}
}
