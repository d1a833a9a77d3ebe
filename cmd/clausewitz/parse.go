package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daveroberts0321/clausewitz/export"
	"github.com/daveroberts0321/clausewitz/parser/object"
)

var parseFlags struct {
	format string
	out    string
}

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a file and print it",
	Long: `Parse a file into the generic object tree and print it.

The text format is the canonical serialization: tab indented, one statement
per line, short token lists kept on one line. The yaml format prints the
tree with entry order and repeated keys preserved.

Examples:
  clausewitz parse common/defines.txt
  clausewitz parse --format yaml history/countries/SWE.txt
  clausewitz parse --out generated/ history/countries/SWE.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseFlags.format, "format", "f", "text", "output format: text, yaml")
	parseCmd.Flags().StringVarP(&parseFlags.out, "out", "o", "", "write the YAML export into this directory instead of printing")
}

func runParse(cmd *cobra.Command, args []string) error {
	if _, _, err := setup(cmd); err != nil {
		return err
	}

	path := args[0]
	n, err := object.ParseFile(path)
	if err != nil {
		return err
	}

	if parseFlags.out != "" {
		dst := export.Path(parseFlags.out, path)
		if err := export.WriteFile(n, path, dst); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", dst)
		return nil
	}

	switch parseFlags.format {
	case "text":
		_, err = n.WriteTo(cmd.OutOrStdout())
		return err
	case "yaml":
		out, err := export.Generate(n, path)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	default:
		return fmt.Errorf("unknown format %q (want text or yaml)", parseFlags.format)
	}
}
