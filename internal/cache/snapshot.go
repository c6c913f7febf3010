package cache

import "ImageGrouper/internal/collect"

type row struct {
	size    int64
	modTime int64
	digest  string
}

// Snapshot is a read-only, in-memory view of the cache for one Key.
// It is safe for concurrent reads.
type Snapshot struct {
	entries map[string]row
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Digest returns the cached digest for it when the file is unchanged.
func (s *Snapshot) Digest(it collect.Item) (string, bool) {
	if s == nil || it.ModTime.IsZero() {
		return "", false
	}
	r, ok := s.entries[it.Path]
	if !ok || r.size != it.Size || r.modTime != it.ModTime.UnixNano() {
		return "", false
	}
	return r.digest, true
}
