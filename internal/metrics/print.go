package metrics

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type Snapshot struct {
	DurationMs  int64
	Total       int64
	Processed   int64
	Hashed      int64
	CacheHits   int64
	DecodeErrs  int64
	Unsupported int64
	Unreadable  int64
	BytesRead   int64
	TotalBytes  int64
	Groups      int64
	Grouped     int64
}

func (s *Stats) Snapshot() Snapshot {
	dur := s.Duration()

	return Snapshot{
		DurationMs:  dur.Milliseconds(),
		Total:       atomic.LoadInt64(&s.Total),
		Processed:   atomic.LoadInt64(&s.Processed),
		Hashed:      atomic.LoadInt64(&s.Hashed),
		CacheHits:   atomic.LoadInt64(&s.CacheHits),
		DecodeErrs:  atomic.LoadInt64(&s.DecodeErrs),
		Unsupported: atomic.LoadInt64(&s.Unsupported),
		Unreadable:  atomic.LoadInt64(&s.Unreadable),
		BytesRead:   atomic.LoadInt64(&s.BytesRead),
		TotalBytes:  atomic.LoadInt64(&s.TotalBytes),
		Groups:      atomic.LoadInt64(&s.Groups),
		Grouped:     atomic.LoadInt64(&s.Grouped),
	}
}

// Print writes the run summary as a table.
func Print(w io.Writer, s *Stats) {
	snap := s.Snapshot()

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("stats")
	tw.AppendHeader(table.Row{"metric", "value"})
	tw.AppendRows([]table.Row{
		{"duration", fmt.Sprintf("%dms", snap.DurationMs)},
		{"files", snap.Total},
		{"processed", snap.Processed},
		{"hashed", snap.Hashed},
		{"cache_hits", snap.CacheHits},
		{"decode_errors", snap.DecodeErrs},
		{"unsupported", snap.Unsupported},
		{"unreadable", snap.Unreadable},
		{"groups", snap.Groups},
		{"grouped_images", snap.Grouped},
		{"bytes_read", humanize.Bytes(uint64(snap.BytesRead))},
		{"total_bytes", humanize.Bytes(uint64(snap.TotalBytes))},
	})

	if snap.DurationMs > 0 {
		secs := float64(snap.DurationMs) / 1000.0
		tw.AppendRow(table.Row{"images_per_sec", fmt.Sprintf("%.1f", float64(snap.Processed)/secs)})
		tw.AppendRow(table.Row{"throughput", humanize.Bytes(uint64(float64(snap.BytesRead)/secs)) + "/s"})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	tw.Render()
}
