package pipeline

import (
	"errors"
	"runtime"

	"ImageGrouper/internal/collect"
	"ImageGrouper/internal/dhash"

	"golang.org/x/sync/errgroup"
)

// Run hashes every item on a bounded pool and returns the successful
// results in input order once all tasks have finished. Each task owns one
// result slot, so nothing is shared between tasks except opts and rep.
func Run(items []collect.Item, opts Options, rep Reporter) []HashedImage {
	if rep == nil {
		rep = NopReporter{}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	slots := make([]HashedImage, len(items))
	ok := make([]bool, len(items))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, it := range items {
		g.Go(func() error {
			slots[i], ok[i] = hashOne(it, opts, rep)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]HashedImage, 0, len(items))
	for i := range slots {
		if ok[i] {
			out = append(out, slots[i])
		}
	}
	return out
}

func hashOne(it collect.Item, opts Options, rep Reporter) (HashedImage, bool) {
	if opts.Cache != nil {
		if d, hit := opts.Cache.Digest(it); hit {
			rep.Hashed(it, true)
			return HashedImage{Digest: d, Item: it, Cached: true}, true
		}
	}

	d, err := dhash.Digest(it.Path, dhash.Options{Side: opts.Side, AutoOrient: opts.AutoOrient})
	if err != nil {
		if errors.Is(err, dhash.ErrDecode) {
			rep.DecodeFailed(it, err)
		} else {
			rep.Skipped(it, err)
		}
		return HashedImage{}, false
	}

	rep.Hashed(it, false)
	return HashedImage{Digest: d, Item: it}, true
}
