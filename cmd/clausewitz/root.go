package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/daveroberts0321/clausewitz/config"
	"github.com/daveroberts0321/clausewitz/logging"
)

// defaultConfigFile is read when --config is not given and the file exists.
const defaultConfigFile = "clausewitz.yaml"

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "clausewitz",
	Short: "Read and check Paradox clausal brace files",
	Long: `clausewitz parses the brace-delimited "key = value" files used by Paradox
grand strategy games for saves, history, definitions and settings.

It can print a file in canonical form or as YAML, check whole mod trees in
parallel, re-check files as they change and summarize plain-text saves.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ./"+defaultConfigFile+" if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// setup loads the configuration and builds the logger every command uses.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, err
		}
	}

	cfg, err := config.LoadWithEnvOverrides(path)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.FromConfig(cfg.Logging, cmd.ErrOrStderr()))
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}
