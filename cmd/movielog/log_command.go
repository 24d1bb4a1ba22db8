package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marco/movielog/internal/record"
)

func newLogCommand(ctx *appContext) *cobra.Command {
	var (
		yearFlag   int
		statusFlag string
		ratingFlag float64
		dateFlag   string
		notesFlag  string
	)

	cmd := &cobra.Command{
		Use:   "log <title>",
		Short: "Log a new movie, enriched with TMDB metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")

			status, err := parseStatus(statusFlag)
			if err != nil {
				return err
			}

			matcher, closeCache, err := ctx.newMatcher()
			if err != nil {
				return err
			}
			defer closeCache()

			cand, err := matcher.Match(title, yearFlag)
			if err != nil {
				return err
			}

			rec := cand.Record(status)
			rec.Notes = cand.NotesBody(notesFlag)
			if status == record.StatusWatched {
				if cmd.Flags().Changed("rating") {
					rec.Rating = &ratingFlag
				}
				date := record.Today()
				if dateFlag != "" {
					date, err = record.ParseDate(dateFlag)
					if err != nil {
						return err
					}
				}
				rec.DateWatched = &date
			}

			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			if _, err := s.Find(rec.Title, rec.Year); err == nil {
				return fmt.Errorf("%q (%d) is already logged; use refresh or watched to update it", rec.Title, rec.Year)
			}
			if err := s.Upsert(rec); err != nil {
				return err
			}

			path, _ := s.DocumentPath(rec.Title, rec.Year)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %q (%d) [%s match] -> %s\n",
				rec.Title, rec.Year, cand.Confidence, path)
			return nil
		},
	}

	cmd.Flags().IntVar(&yearFlag, "year", 0, "Release year hint for the TMDB search")
	cmd.Flags().StringVar(&statusFlag, "status", "to-watch", "Record status: watched or to-watch")
	cmd.Flags().Float64Var(&ratingFlag, "rating", 0, "Your rating (0-10), watched only")
	cmd.Flags().StringVar(&dateFlag, "date", "", "Watch date (YYYY-MM-DD), defaults to today for watched")
	cmd.Flags().StringVar(&notesFlag, "notes", "", "Personal notes for the record body")

	return cmd
}
