// Package progress draws a terminal bar over the images of a run.
package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

// Counts is what the bar shows next to the image count.
type Counts struct {
	Done      int64
	Total     int64
	Hashed    int64
	Cached    int64
	Corrupt   int64
	Skipped   int64
	BytesRead int64
}

type CountsFn func() Counts

// Bar advances once per image, whatever the outcome for that image.
type Bar struct {
	bar  *progressbar.ProgressBar
	ch   chan struct{}
	done chan struct{}
	stop chan struct{}

	counts   CountsFn
	lastDone int64
	lastAt   time.Time
}

// New starts a bar over images files on w. A nil *Bar is valid and ignores
// all calls, which is what callers get when progress output is disabled.
func New(w io.Writer, images int64, counts CountsFn) *Bar {
	b := &Bar{
		ch:     make(chan struct{}, 16384),
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
		counts: counts,
		lastAt: time.Now(),
	}

	b.bar = progressbar.NewOptions64(
		images,
		progressbar.OptionSetWriter(w),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetDescription("fingerprinting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("img"),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(120*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)

	_ = b.bar.RenderBlank()
	go func() {
		defer close(b.done)
		for range b.ch {
			_ = b.bar.Add(1)
		}
		_ = b.bar.Finish()
	}()

	go func() {
		t := time.NewTicker(1 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				b.updateDescription()
			case <-b.stop:
				return
			}
		}
	}()

	return b
}

// Step records one finished image.
func (b *Bar) Step() {
	if b == nil {
		return
	}
	b.ch <- struct{}{}
}

func (b *Bar) Close() {
	if b == nil {
		return
	}
	close(b.stop)
	close(b.ch)
	<-b.done
}

func (b *Bar) updateDescription() {
	if b.counts == nil {
		return
	}
	c := b.counts()

	now := time.Now()
	rate := 0.0
	if dt := now.Sub(b.lastAt).Seconds(); dt > 0 {
		rate = float64(c.Done-b.lastDone) / dt
	}
	b.lastDone = c.Done
	b.lastAt = now

	b.bar.Describe(describe(c, rate))
}

func describe(c Counts, rate float64) string {
	return fmt.Sprintf("fingerprinting %d/%d | new=%d cached=%d corrupt=%d skipped=%d | %.1f img/s, %s read",
		c.Done, c.Total, c.Hashed-c.Cached, c.Cached, c.Corrupt, c.Skipped, rate, humanize.Bytes(uint64(c.BytesRead)),
	)
}
