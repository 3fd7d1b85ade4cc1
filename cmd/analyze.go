package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/demographics-cli/internal/analysis"
	"github.com/sells-group/demographics-cli/internal/export"
)

var analyzeFlags struct {
	geoid    string
	lat      float64
	lng      float64
	variable string
	value    string
	fixture  string
	xlsxOut  string
	jsonOut  bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one anchor-conditioned analysis",
	Long:  "Resolves the given value against the variable's category system, then computes the conditional distribution of every paired variable across all census tables involving the anchor variable.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzeFlags.variable == "" || analyzeFlags.value == "" {
			return eris.New("--variable and --value are required")
		}

		ctx := cmd.Context()
		env, err := initEnv(ctx, analyzeFlags.fixture)
		if err != nil {
			return err
		}
		defer env.Close()

		geoid := analyzeFlags.geoid
		if geoid == "" {
			if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lng") {
				return eris.New("either --geoid or both --lat and --lng are required")
			}
			if env.resolver == nil {
				return eris.New("coordinate resolution needs the postgres store; pass --geoid")
			}
			geoid, err = env.resolver.Resolve(ctx, analyzeFlags.lat, analyzeFlags.lng)
			if err != nil {
				return err
			}
		}

		res, err := env.analyzer.Analyze(ctx, geoid, analyzeFlags.variable, analyzeFlags.value)
		if err != nil {
			return err
		}

		if analyzeFlags.jsonOut {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return eris.Wrap(err, "encode result")
			}
		} else {
			printResult(cmd.OutOrStdout(), res)
		}

		if analyzeFlags.xlsxOut != "" {
			if err := export.WriteFile(res, analyzeFlags.xlsxOut); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nworkbook written to %s\n", analyzeFlags.xlsxOut)
		}
		return nil
	},
}

func printResult(w io.Writer, res *analysis.Result) {
	fmt.Fprintf(w, "Geography %s, %s = %q\n", res.GeographyID, res.AnchorVariable, res.AnchorValue)
	fmt.Fprintf(w, "Resolved to %q (score %.2f, %s)\n", res.ResolvedAnchor.Matched, res.ResolvedAnchor.Score, res.ResolvedAnchor.Explanation)
	if !res.ResolvedAnchor.Confident {
		fmt.Fprintln(w, "warning: low-confidence match; results show the closest available category")
	}

	for _, out := range res.Tables {
		fmt.Fprintf(w, "\n%s (%s by %s): %s\n", out.TableID, res.AnchorVariable, out.PairedVariable, out.Status)
		switch out.Status {
		case analysis.StatusSuccess:
			fmt.Fprintf(w, "  condition %q, total %d\n", out.MatchedCondition, out.Distribution.Total)
			for _, item := range out.Distribution.Items {
				fmt.Fprintf(w, "  %-55s %10d  %6.1f%%\n", item.Category, item.Count, item.Percentage)
			}
		case analysis.StatusNoMatch:
			fmt.Fprintf(w, "  closest available: %q (%s)\n", out.MatchedCondition, out.Explanation)
		default:
			fmt.Fprintf(w, "  %s\n", out.Error)
		}
	}
	fmt.Fprintf(w, "\n%d/%d tables succeeded\n", res.Summary.Succeeded, res.Summary.Attempted)
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeFlags.geoid, "geoid", "", "geography identifier (block group GEOID)")
	f.Float64Var(&analyzeFlags.lat, "lat", 0, "latitude (with --lng, resolved via the store)")
	f.Float64Var(&analyzeFlags.lng, "lng", 0, "longitude")
	f.StringVar(&analyzeFlags.variable, "variable", "", "anchor variable (age, gender, income, education, profession, race)")
	f.StringVar(&analyzeFlags.value, "value", "", "anchor value, free-form (e.g. \"50k-60k\")")
	f.StringVar(&analyzeFlags.fixture, "fixture", "", "YAML count fixture instead of the configured store")
	f.StringVar(&analyzeFlags.xlsxOut, "xlsx", "", "also write an xlsx workbook to this path")
	f.BoolVar(&analyzeFlags.jsonOut, "json", false, "emit the raw JSON result")
	rootCmd.AddCommand(analyzeCmd)
}
