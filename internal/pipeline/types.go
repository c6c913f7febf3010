package pipeline

import "ImageGrouper/internal/collect"

// HashedImage pairs a digest with the file it was computed from.
type HashedImage struct {
	Digest string
	Item   collect.Item
	Cached bool
}

func (h HashedImage) Path() string { return h.Item.Path }

type Options struct {
	Side       int
	Workers    int
	AutoOrient bool
	Cache      DigestCache
}

// DigestCache returns a previously computed digest for an unchanged file.
// Implementations are read from many goroutines at once and must not be
// mutated while Run is in progress.
type DigestCache interface {
	Digest(it collect.Item) (string, bool)
}

// Reporter receives per-file outcomes as they happen. Implementations must
// be safe for concurrent use.
type Reporter interface {
	Hashed(it collect.Item, cached bool)
	DecodeFailed(it collect.Item, err error)
	Skipped(it collect.Item, err error)
}

type NopReporter struct{}

func (NopReporter) Hashed(collect.Item, bool)        {}
func (NopReporter) DecodeFailed(collect.Item, error) {}
func (NopReporter) Skipped(collect.Item, error)      {}
