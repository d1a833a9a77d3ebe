package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/daveroberts0321/clausewitz/eu4/world"
)

var saveFlags struct {
	country string
}

var saveCmd = &cobra.Command{
	Use:   "save FILE",
	Short: "Summarize a plain-text EU4 save",
	Long: `Read the provinces and countries of a plain-text save and print a summary.
With --country, print the government and diplomatic relations of one tag.

Examples:
  clausewitz save autosave.eu4
  clausewitz save autosave.eu4 --country SWE`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(saveCmd)

	saveCmd.Flags().StringVar(&saveFlags.country, "country", "", "country tag to describe")
}

func runSave(cmd *cobra.Command, args []string) error {
	_, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	w, err := world.ReadFile(args[0], logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "date: %s\n", w.Date)
	fmt.Fprintf(out, "provinces: %d\n", len(w.Provinces))
	fmt.Fprintf(out, "countries: %d\n", len(w.Countries))

	if saveFlags.country == "" {
		return nil
	}
	c, ok := w.Countries[saveFlags.country]
	if !ok {
		return fmt.Errorf("no country %s in %s", saveFlags.country, args[0])
	}
	fmt.Fprintf(out, "\n%s\n", c.Tag)
	fmt.Fprintf(out, "  capital: %d\n", c.Capital)
	fmt.Fprintf(out, "  government: %s\n", c.Government.Government)
	for _, r := range c.Government.Reforms {
		fmt.Fprintf(out, "  reform: %s\n", r)
	}

	owned := 0
	for _, num := range w.ProvinceNums() {
		if w.Provinces[num].Owner == c.Tag {
			owned++
		}
	}
	fmt.Fprintf(out, "  provinces: %d\n", owned)

	tags := make([]string, 0, len(c.Relations))
	for tag := range c.Relations {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	for _, tag := range tags {
		r := c.Relations[tag]
		fmt.Fprintf(out, "  %s: value=%d military_access=%t", tag, r.Value, r.MilitaryAccess)
		if !r.LastWar.IsZero() {
			fmt.Fprintf(out, " last_war=%s", r.LastWar)
		}
		fmt.Fprintln(out)
	}
	return nil
}
