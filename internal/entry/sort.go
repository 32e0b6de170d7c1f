package entry

import (
	"slices"
	"strings"
)

func sortByPath(recs []*DirectoryRecord) {
	slices.SortFunc(recs, func(a, b *DirectoryRecord) int {
		return strings.Compare(a.Path, b.Path)
	})
}

// SortFiles orders files by path in place.
func SortFiles(files []FileRecord) {
	slices.SortFunc(files, func(a, b FileRecord) int {
		return strings.Compare(a.Path, b.Path)
	})
}
