package metrics

import (
	"sync/atomic"
	"time"
)

// Stats counts per-file outcomes of a run. Counters are updated with
// sync/atomic from the hashing workers.
type Stats struct {
	TotalBytes int64

	Total       int64
	Processed   int64
	Hashed      int64
	CacheHits   int64
	DecodeErrs  int64
	Unsupported int64
	Unreadable  int64

	BytesRead int64

	// Set once after aggregation.
	Groups  int64
	Grouped int64

	Started  time.Time
	Finished time.Time
}

func (s *Stats) Start() { s.Started = time.Now() }
func (s *Stats) Stop()  { s.Finished = time.Now() }
func (s *Stats) Duration() time.Duration {
	if s.Finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.Finished.Sub(s.Started)
}

func (s *Stats) AddHashed(size int64, cached bool) {
	atomic.AddInt64(&s.Hashed, 1)
	if cached {
		atomic.AddInt64(&s.CacheHits, 1)
	}
	s.finish(size)
}

func (s *Stats) AddDecodeErr(size int64) {
	atomic.AddInt64(&s.DecodeErrs, 1)
	s.finish(size)
}

func (s *Stats) AddUnsupported(size int64) {
	atomic.AddInt64(&s.Unsupported, 1)
	s.finish(size)
}

func (s *Stats) AddUnreadable(size int64) {
	atomic.AddInt64(&s.Unreadable, 1)
	s.finish(size)
}

func (s *Stats) finish(size int64) {
	atomic.AddInt64(&s.BytesRead, size)
	atomic.AddInt64(&s.Processed, 1)
}
