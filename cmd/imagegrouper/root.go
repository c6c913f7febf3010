package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ImageGrouper/internal/config"
)

type rootOptions struct {
	configPath string
	side       int
	workers    int
	exclude    []string
	autoOrient bool
	cache      bool
	cachePath  string
	noProgress bool
	logLevel   string
	logFormat  string
	stats      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "imagegrouper [flags] <file-or-dir>...",
		Short: "Group perceptually identical images",
		Long: "Group perceptually similar images from among image paths.\n\n" +
			"Every file is reduced to a side x side grayscale thumbnail and hashed by\n" +
			"comparing neighbouring pixels. Images whose hashes are identical are\n" +
			"printed as JSON groups on stdout.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			return runGroup(cmd, cfg, opts.stats, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")
	pf.IntVarP(&opts.side, "side", "s", 8, "Side length of the hashed thumbnail; the hash has side*side bits")
	pf.BoolVar(&opts.autoOrient, "auto-orient", false, "Apply EXIF orientation before hashing")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format (console, json)")

	f := rootCmd.Flags()
	f.IntVarP(&opts.workers, "workers", "j", 0, "Images hashed concurrently (0 = all CPUs)")
	f.StringArrayVarP(&opts.exclude, "exclude", "x", nil, "Glob pattern of files to skip (repeatable)")
	f.BoolVar(&opts.cache, "cache", false, "Reuse digests of unchanged files from the digest cache")
	f.StringVar(&opts.cachePath, "cache-path", "", "Digest cache database path (implies --cache)")
	f.BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress bar")
	f.BoolVar(&opts.stats, "stats", false, "Print a run summary table to stderr")

	rootCmd.AddCommand(newInspectCommand(opts))
	rootCmd.AddCommand(newConfigCommand(opts))

	return rootCmd
}

// loadConfig reads the config file and applies every flag the user set
// explicitly on top of it.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, _, _, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("side") {
		cfg.Side = o.side
	}
	if changed("auto-orient") {
		cfg.AutoOrient = o.autoOrient
	}
	if changed("log-level") {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(o.logLevel))
	}
	if changed("log-format") {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(o.logFormat))
	}
	if changed("workers") {
		cfg.Workers = o.workers
	}
	if changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, o.exclude...)
	}
	if changed("cache") {
		cfg.Cache.Enabled = o.cache
	}
	if changed("cache-path") {
		path, err := config.ExpandPath(o.cachePath)
		if err != nil {
			return nil, fmt.Errorf("cache-path: %w", err)
		}
		cfg.Cache.Path = path
		cfg.Cache.Enabled = true
	}
	if changed("no-progress") && o.noProgress {
		cfg.Progress.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
