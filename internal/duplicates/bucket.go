package duplicates

import "github.com/idelchi/diranalyzer/internal/entry"

// Candidates returns the files eligible for hashing: at least minSize bytes
// and not reached through a symbolic link.
func Candidates(files []entry.FileRecord, minSize int64) []*entry.FileRecord {
	out := make([]*entry.FileRecord, 0, len(files))

	for i := range files {
		if files[i].IsSymlink || files[i].Size < minSize {
			continue
		}

		out = append(out, &files[i])
	}

	return out
}

// Prefilter keeps only candidates whose exact size is shared with another
// candidate. Sizes are emitted in first-seen order, members in input order.
func Prefilter(candidates []*entry.FileRecord) []*entry.FileRecord {
	buckets := make(map[int64][]*entry.FileRecord)
	order := make([]int64, 0)

	for _, c := range candidates {
		if _, ok := buckets[c.Size]; !ok {
			order = append(order, c.Size)
		}

		buckets[c.Size] = append(buckets[c.Size], c)
	}

	out := make([]*entry.FileRecord, 0, len(candidates))

	for _, size := range order {
		if bucket := buckets[size]; len(bucket) > 1 {
			out = append(out, bucket...)
		}
	}

	return out
}
