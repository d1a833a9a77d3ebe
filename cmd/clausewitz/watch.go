package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/daveroberts0321/clausewitz/metrics"
	"github.com/daveroberts0321/clausewitz/project"
	"github.com/daveroberts0321/clausewitz/watch"
)

var watchFlags struct {
	metricsAddr string
}

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Re-check files as they change",
	Long: `Check every file under DIR, then keep watching it and re-check files
whenever they are written. With --metrics-addr, or when metrics are enabled
in the configuration, parse statistics are served for Prometheus.

Examples:
  clausewitz watch mod/
  clausewitz watch mod/ --metrics-addr 127.0.0.1:9464`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", "", "serve metrics on this address")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	dir := args[0]

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.New(cfg.Metrics.Namespace, nil)
	addr := watchFlags.metricsAddr
	if addr == "" && cfg.Metrics.Enabled {
		addr = cfg.Metrics.Address
	}
	if addr != "" {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, collector.Handler())
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("serving metrics", "address", addr, "path", cfg.Metrics.Path)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	opts, closeCache, err := checkOptions(cfg, logger, collector)
	if err != nil {
		return err
	}
	defer closeCache()

	files, err := project.FindFiles(dir, cfg.Parse.Extensions)
	if err != nil {
		return err
	}
	report, err := project.Check(ctx, files, opts)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)

	return watch.Watch(ctx, watch.Config{
		Dir:        dir,
		Extensions: cfg.Parse.Extensions,
		Debounce:   cfg.Watch.Debounce,
		Logger:     logger,
	}, func(paths []string) error {
		report, err := project.Check(ctx, paths, opts)
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), report)
		return nil
	})
}
