package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daveroberts0321/clausewitz/generator"
)

var initCmd = &cobra.Command{
	Use:   "init DIR",
	Short: "Create a working directory",
	Long: `Create DIR with a clausewitz.yaml, a converter configuration.txt and the
data and generated directories. Existing files are not overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		written, err := generator.Init(args[0], logger)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
