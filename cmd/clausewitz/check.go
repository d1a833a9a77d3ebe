package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/daveroberts0321/clausewitz/cache"
	"github.com/daveroberts0321/clausewitz/config"
	"github.com/daveroberts0321/clausewitz/metrics"
	"github.com/daveroberts0321/clausewitz/project"
)

var checkFlags struct {
	workers int
	strict  bool
	noCache bool
}

var checkCmd = &cobra.Command{
	Use:   "check PATH...",
	Short: "Parse every file under the given paths",
	Long: `Parse every matching file under the given files and directories and report
the ones that fail. Files are parsed in parallel. Unchanged files are served
from the result cache when it is enabled.

Examples:
  clausewitz check mod/
  clausewitz check --workers 4 common/ history/
  clausewitz check --strict --no-cache save.eu4`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().IntVarP(&checkFlags.workers, "workers", "w", 0, "files parsed at the same time (default from config)")
	checkCmd.Flags().BoolVar(&checkFlags.strict, "strict", false, "verify handler contracts while parsing")
	checkCmd.Flags().BoolVar(&checkFlags.noCache, "no-cache", false, "parse every file even if unchanged")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, err := findAll(args, cfg.Parse.Extensions)
	if err != nil {
		return err
	}

	opts, closeCache, err := checkOptions(cfg, logger, metrics.New(cfg.Metrics.Namespace, nil))
	if err != nil {
		return err
	}
	defer closeCache()

	report, err := project.Check(ctx, files, opts)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)
	if n := report.Failed(); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(report.Files))
	}
	return nil
}

// findAll collects the files under every path.
func findAll(paths, extensions []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		found, err := project.FindFiles(p, extensions)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// checkOptions merges the configuration with the command line flags. The
// returned function closes the cache, if one was opened.
func checkOptions(cfg *config.Config, logger *slog.Logger, collector *metrics.Collector) (project.Options, func(), error) {
	opts := project.Options{
		Workers: cfg.Parse.Workers,
		Strict:  cfg.Parse.Strict || checkFlags.strict,
		Metrics: collector,
		Logger:  logger,
	}
	if checkFlags.workers > 0 {
		opts.Workers = checkFlags.workers
	}

	if !cfg.Cache.Enabled || checkFlags.noCache {
		return opts, func() {}, nil
	}
	c, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		return opts, nil, err
	}
	opts.Cache = c
	return opts, func() {
		if err := c.Close(); err != nil {
			logger.Warn("failed to close cache", "error", err)
		}
	}, nil
}

func printReport(w io.Writer, report *project.Report) {
	cached := 0
	for _, f := range report.Files {
		if f.Cached {
			cached++
		}
		if f.Err != nil {
			fmt.Fprintf(w, "FAIL %v\n", f.Err)
		}
	}
	fmt.Fprintf(w, "%d files, %d failed, %d cached, %s\n",
		len(report.Files), report.Failed(), cached, report.Finished.Sub(report.Started).Round(time.Millisecond))
}
