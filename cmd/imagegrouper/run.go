package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"ImageGrouper/internal/cache"
	"ImageGrouper/internal/collect"
	"ImageGrouper/internal/config"
	"ImageGrouper/internal/group"
	"ImageGrouper/internal/logging"
	"ImageGrouper/internal/metrics"
	"ImageGrouper/internal/pipeline"
	"ImageGrouper/internal/progress"
)

// runGroup is the whole grouping run: collect, hash in parallel, join,
// aggregate, emit. Individual file failures never fail the run.
func runGroup(cmd *cobra.Command, cfg *config.Config, printStats bool, args []string) error {
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()

	logger, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("hashing with %dx%d images (%d-bit hash)", cfg.Side, cfg.Side, cfg.Side*cfg.Side),
		"workers", cfg.Workers, "auto_orient", cfg.AutoOrient, "cache", cfg.Cache.Enabled)

	files, err := collect.Collect(args, collect.Options{Exclude: cfg.Exclude})
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("scanning %d files", len(files.Items)))

	stats := &metrics.Stats{}
	stats.Start()
	atomic.StoreInt64(&stats.Total, int64(len(files.Items)))
	atomic.StoreInt64(&stats.TotalBytes, files.TotalBytes)

	opts := pipeline.Options{
		Side:       cfg.Side,
		Workers:    cfg.Workers,
		AutoOrient: cfg.AutoOrient,
	}

	var store *cache.Store
	if cfg.Cache.Enabled {
		store, err = openCache(cmd, cfg, logger, &opts)
		if err != nil {
			logger.Warn("digest cache disabled for this run", logging.FieldError, err)
		} else {
			defer func() {
				if cerr := store.Close(); cerr != nil {
					logger.Warn("close digest cache", logging.FieldError, cerr)
				}
			}()
		}
	}

	var bar *progress.Bar
	if cfg.Progress.Enabled && isTerminal(stderr) {
		bar = progress.New(stderr, int64(len(files.Items)), func() progress.Counts {
			snap := stats.Snapshot()
			return progress.Counts{
				Done:      snap.Processed,
				Total:     snap.Total,
				Hashed:    snap.Hashed,
				Cached:    snap.CacheHits,
				Corrupt:   snap.DecodeErrs,
				Skipped:   snap.Unsupported + snap.Unreadable,
				BytesRead: snap.BytesRead,
			}
		})
	}

	rep := &runReporter{stats: stats, bar: bar, log: logging.NewComponentLogger(logger, "hash")}
	hashed := pipeline.Run(files.Items, opts, rep)
	bar.Close()

	if store != nil {
		fresh := make([]cache.Entry, 0, len(hashed))
		for _, h := range hashed {
			if !h.Cached {
				fresh = append(fresh, cache.Entry{Item: h.Item, Digest: h.Digest})
			}
		}
		if err := store.Put(ctx, cacheKey(cfg), fresh); err != nil {
			logger.Warn("update digest cache", logging.FieldError, err)
		}
	}

	groups, total := group.Aggregate(hashed)
	atomic.StoreInt64(&stats.Groups, int64(len(groups)))
	atomic.StoreInt64(&stats.Grouped, int64(groups.Total()))
	stats.Stop()

	logger.Info(fmt.Sprintf("hashed %d images", total), "groups", len(groups))
	if printStats {
		metrics.Print(stderr, stats)
	}

	return writeJSON(cmd, groups)
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: w,
	})
	if err != nil {
		return nil, err
	}
	return logger.With(logging.FieldRunID, uuid.NewString()), nil
}

// openCache opens the digest store and installs a snapshot of it as the
// pipeline's read-only cache.
func openCache(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, opts *pipeline.Options) (*cache.Store, error) {
	store, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		return nil, err
	}
	snap, err := store.Snapshot(cmd.Context(), cacheKey(cfg))
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	opts.Cache = snap
	logger.Debug("digest cache loaded", "path", store.Path(), "entries", snap.Len())
	return store, nil
}

func cacheKey(cfg *config.Config) cache.Key {
	return cache.Key{Side: cfg.Side, AutoOrient: cfg.AutoOrient}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
