package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newRefreshCommand(ctx *appContext) *cobra.Command {
	var preserveFlag bool

	cmd := &cobra.Command{
		Use:   "refresh <title> <year>",
		Short: "Re-fetch TMDB metadata for an existing record",
		Long: `Re-fetch TMDB metadata for an existing record.

Status, rating, watch date, and creation time are always preserved; they
are log state, not metadata. Whether the notes body survives is governed
by preserve_local_edits in the config (or the --preserve-local-edits
flag).`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[len(args)-1])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[len(args)-1])
			}
			title := strings.Join(args[:len(args)-1], " ")

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			preserve := *cfg.Options.PreserveLocalEdits
			if cmd.Flags().Changed("preserve-local-edits") {
				preserve = preserveFlag
			}

			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			existing, err := s.Find(title, year)
			if err != nil {
				return err
			}

			matcher, closeCache, err := ctx.newMatcher()
			if err != nil {
				return err
			}
			defer closeCache()

			cand, err := matcher.Match(existing.Title, existing.Year)
			if err != nil {
				return err
			}
			if cand.Year != existing.Year || cand.TMDBID != existing.TMDBID && existing.TMDBID != 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Note: best match is %q (%d), TMDB %d [%s match]\n",
					cand.Title, cand.Year, cand.TMDBID, cand.Confidence)
			}

			refreshed := cand.Record(existing.Status)
			refreshed.Title = existing.Title
			refreshed.Year = existing.Year
			refreshed.Rating = existing.Rating
			refreshed.DateWatched = existing.DateWatched
			refreshed.DateAdded = existing.DateAdded
			if preserve {
				refreshed.Notes = existing.Notes
			}

			if err := s.Upsert(refreshed); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Refreshed metadata for %q (%d)\n", existing.Title, existing.Year)
			return nil
		},
	}

	cmd.Flags().BoolVar(&preserveFlag, "preserve-local-edits", true, "Keep the record's notes body")

	return cmd
}
