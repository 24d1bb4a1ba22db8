package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marco/movielog/internal/importer"
)

func newImportCommand(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv-file>",
		Short: "Bulk-import movies from a CSV export of the old spreadsheet",
		Long: `Bulk-import movies from a CSV file with "title,status" rows.

A title may carry a year hint in parentheses, e.g. "Parasite (2019)".
Status is "watched" or anything else for to-watch. Rows whose movie is
already in the store are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matcher, closeCache, err := ctx.newMatcher()
			if err != nil {
				return err
			}
			defer closeCache()

			s, err := ctx.openStore()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open import file: %w", err)
			}
			defer f.Close()

			results, err := importer.New(matcher, s).ImportCSV(f)

			out := cmd.OutOrStdout()
			imported, skipped, failed := 0, 0, 0
			for _, res := range results {
				switch {
				case res.Err != nil:
					failed++
					fmt.Fprintf(out, "  line %d: %q failed: %v\n", res.Line, res.Title, res.Err)
				case res.Skipped:
					skipped++
					fmt.Fprintf(out, "  line %d: %q already logged, skipped\n", res.Line, res.Title)
				default:
					imported++
					fmt.Fprintf(out, "  line %d: imported %q (%d) [%s]\n",
						res.Line, res.Record.Title, res.Record.Year, res.Status)
				}
			}
			fmt.Fprintf(out, "Import complete: %d imported, %d skipped, %d failed\n",
				imported, skipped, failed)
			return err
		},
	}
}
