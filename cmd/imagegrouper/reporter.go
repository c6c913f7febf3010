package main

import (
	"errors"
	"log/slog"

	"ImageGrouper/internal/collect"
	"ImageGrouper/internal/dhash"
	"ImageGrouper/internal/logging"
	"ImageGrouper/internal/metrics"
	"ImageGrouper/internal/progress"
)

// runReporter fans pipeline outcomes out to the stats counters, the progress
// bar and the logger. Decode failures are the only per-file warnings.
type runReporter struct {
	stats *metrics.Stats
	bar   *progress.Bar
	log   *slog.Logger
}

func (r *runReporter) Hashed(it collect.Item, cached bool) {
	r.stats.AddHashed(it.Size, cached)
	r.bar.Step()
}

func (r *runReporter) DecodeFailed(it collect.Item, err error) {
	r.stats.AddDecodeErr(it.Size)
	r.bar.Step()
	r.log.Warn("error decoding image", logging.FieldPath, it.Path, logging.FieldError, err)
}

func (r *runReporter) Skipped(it collect.Item, err error) {
	if errors.Is(err, dhash.ErrUnsupported) {
		r.stats.AddUnsupported(it.Size)
	} else {
		r.stats.AddUnreadable(it.Size)
	}
	r.bar.Step()
	r.log.Debug("skipped file", logging.FieldPath, it.Path, logging.FieldError, err)
}
