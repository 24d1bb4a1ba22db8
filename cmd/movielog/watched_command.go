package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marco/movielog/internal/record"
	"github.com/marco/movielog/internal/store"
)

func newWatchedCommand(ctx *appContext) *cobra.Command {
	var (
		ratingFlag float64
		dateFlag   string
	)

	cmd := &cobra.Command{
		Use:   "watched <title> <year>",
		Short: "Mark a logged movie as watched",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[len(args)-1])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[len(args)-1])
			}
			title := strings.Join(args[:len(args)-1], " ")

			s, err := ctx.openStore()
			if err != nil {
				return err
			}

			var rating *float64
			if cmd.Flags().Changed("rating") {
				rating = &ratingFlag
			}
			date := record.Today()
			if dateFlag != "" {
				date, err = record.ParseDate(dateFlag)
				if err != nil {
					return err
				}
			}

			rec, err := markWatched(s, title, year, rating, date)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Marked %q (%d) as watched on %s\n", rec.Title, rec.Year, date)
			return nil
		},
	}

	cmd.Flags().Float64Var(&ratingFlag, "rating", 0, "Your rating (0-10)")
	cmd.Flags().StringVar(&dateFlag, "date", "", "Watch date (YYYY-MM-DD), defaults to today")

	return cmd
}

// markWatched updates a record's watch state through the store. It works
// on a copy, so a failed validation leaves the loaded record exactly as
// it is on disk.
func markWatched(s *store.Store, title string, year int, rating *float64, date record.Date) (*record.MovieRecord, error) {
	rec, err := s.Find(title, year)
	if err != nil {
		return nil, err
	}

	updated := *rec
	updated.Status = record.StatusWatched
	if rating != nil {
		updated.Rating = rating
	}
	updated.DateWatched = &date

	if err := s.Upsert(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
