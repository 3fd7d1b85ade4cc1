package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/demographics-cli/internal/taxonomy"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy [variable]",
	Short: "List variables, category systems, and table coverage",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := taxonomy.Default()
		if cfg.Taxonomy.File != "" {
			r, err := taxonomy.LoadFromFile(cfg.Taxonomy.File)
			if err != nil {
				return err
			}
			reg = r
		}

		w := cmd.OutOrStdout()
		if len(args) == 1 {
			return printVariable(w, reg, args[0])
		}

		for _, v := range reg.Variables() {
			tables, _ := reg.TablesFor(v.Name)
			fmt.Fprintf(w, "%-12s %2d categories, %d tables\n", v.Name, len(v.Categories), len(tables))
		}
		return nil
	},
}

func printVariable(w io.Writer, reg *taxonomy.Registry, name string) error {
	cats, err := reg.CategoriesFor(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s categories:\n", name)
	for _, c := range cats {
		if c.Bounds != nil {
			fmt.Fprintf(w, "  %-50s [%.0f, %.0f]\n", c.Label, c.Bounds.Min, c.Bounds.Max)
		} else {
			fmt.Fprintf(w, "  %s\n", c.Label)
		}
	}

	tables, err := reg.TablesFor(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\ntables involving %s:\n", name)
	for _, t := range tables {
		paired, _ := t.PairedVariable(name)
		fmt.Fprintf(w, "  %-12s paired with %-12s %s\n", t.ID, paired, t.Source)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
}
