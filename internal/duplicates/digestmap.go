package duplicates

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ShardCount is the number of independently locked partitions in a DigestMap.
const ShardCount = 32

// DigestMap maps content digests to the paths that produced them.
// It is safe for concurrent use without external locking.
type DigestMap struct {
	shards [ShardCount]digestShard
}

type digestShard struct {
	mu    sync.Mutex
	paths map[string][]string
}

// NewDigestMap creates an empty DigestMap.
func NewDigestMap() *DigestMap {
	d := &DigestMap{}
	for i := range d.shards {
		d.shards[i].paths = make(map[string][]string)
	}

	return d
}

func (d *DigestMap) shard(digest string) *digestShard {
	return &d.shards[xxhash.Sum64String(digest)%ShardCount]
}

// Add records that path has the given digest.
func (d *DigestMap) Add(digest, path string) {
	s := d.shard(digest)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.paths[digest] = append(s.paths[digest], path)
}

// Len returns the number of distinct digests.
func (d *DigestMap) Len() int {
	n := 0

	for i := range d.shards {
		s := &d.shards[i]

		s.mu.Lock()
		n += len(s.paths)
		s.mu.Unlock()
	}

	return n
}

// Snapshot returns a copy of the current contents.
func (d *DigestMap) Snapshot() map[string][]string {
	out := make(map[string][]string)

	for i := range d.shards {
		s := &d.shards[i]

		s.mu.Lock()
		for digest, paths := range s.paths {
			out[digest] = append([]string(nil), paths...)
		}
		s.mu.Unlock()
	}

	return out
}
