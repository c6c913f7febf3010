// Package group folds hashed images into exact-match groups.
package group

import "ImageGrouper/internal/pipeline"

// Map is digest -> paths, in the order the paths were added.
type Map map[string][]string

func (m Map) Add(digest, path string) {
	m[digest] = append(m[digest], path)
}

// Total is the number of paths across all groups.
func (m Map) Total() int {
	n := 0
	for _, paths := range m {
		n += len(paths)
	}
	return n
}

// Prune drops every digest reached by a single path.
func (m Map) Prune() {
	for digest, paths := range m {
		if len(paths) < 2 {
			delete(m, digest)
		}
	}
}

// Aggregate builds the group map from pipeline results. total counts every
// entry, singletons included; the returned map holds only groups of two or
// more. It must run after the hashing stage has joined.
func Aggregate(entries []pipeline.HashedImage) (groups Map, total int) {
	groups = make(Map)
	for _, e := range entries {
		groups.Add(e.Digest, e.Path())
	}
	total = groups.Total()
	groups.Prune()
	return groups, total
}
