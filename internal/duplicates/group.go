package duplicates

import (
	"cmp"
	"slices"
)

// Group is a set of byte-identical files.
type Group struct {
	// Digest is the hex encoded content digest shared by all members.
	Digest string `json:"hash"`
	// Size is the size in bytes of each member.
	Size int64 `json:"file_size"`
	// Files holds the member paths in lexical order.
	Files []string `json:"files"`
	// WastedSpace is the number of bytes reclaimable by keeping a single member.
	WastedSpace int64 `json:"wasted_space"`
}

// Groups turns a digest to paths mapping into duplicate groups.
// Repeated paths count once, and digests with fewer than two distinct paths
// are dropped. sizes maps a path to its size.
// Groups are ordered by wasted space, largest first, then by digest.
func Groups(digests map[string][]string, sizes map[string]int64) []Group {
	keys := make([]string, 0, len(digests))
	for digest, paths := range digests {
		if len(paths) > 1 {
			keys = append(keys, digest)
		}
	}

	slices.Sort(keys)

	groups := make([]Group, 0, len(keys))

	for _, digest := range keys {
		files := slices.Clone(digests[digest])
		slices.Sort(files)

		files = slices.Compact(files)
		if len(files) < 2 {
			continue
		}

		size := sizes[files[0]]

		groups = append(groups, Group{
			Digest:      digest,
			Size:        size,
			Files:       files,
			WastedSpace: size * int64(len(files)-1),
		})
	}

	slices.SortStableFunc(groups, func(a, b Group) int {
		return cmp.Compare(b.WastedSpace, a.WastedSpace)
	})

	return groups
}

// Summarize returns the number of files involved in duplicate groups and the
// total space they waste.
func Summarize(groups []Group) (files, wasted int64) {
	for _, g := range groups {
		files += int64(len(g.Files))
		wasted += g.WastedSpace
	}

	return files, wasted
}
