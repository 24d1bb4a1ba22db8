package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marco/movielog/internal/stats"
)

func newStatsCommand(ctx *appContext) *cobra.Command {
	var (
		topFlag    int
		recentFlag int
		bucketFlag float64
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the stats dashboard for watched movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			records := s.List()
			out := cmd.OutOrStdout()

			summary := stats.Summarize(records)
			if summary.TotalWatched == 0 {
				fmt.Fprintln(out, "No watched movies yet; nothing to summarize.")
				return nil
			}

			fmt.Fprintln(out, "At a Glance")
			fmt.Fprintf(out, "  Movies watched:   %d\n", summary.TotalWatched)
			fmt.Fprintf(out, "  Total watch time: %.1f hours\n", summary.TotalHours)
			fmt.Fprintf(out, "  Average rating:   %.2f / 10\n\n", summary.AverageRating)

			if buckets := stats.RatingHistogram(records, bucketFlag); len(buckets) > 0 {
				fmt.Fprintln(out, "Rating Distribution")
				maxCount := 0
				for _, b := range buckets {
					if b.Count > maxCount {
						maxCount = b.Count
					}
				}
				for _, b := range buckets {
					bar := strings.Repeat("█", b.Count*25/maxCount)
					fmt.Fprintf(out, "  %4.1f+ | %s (%d)\n", b.Low, bar, b.Count)
				}
				fmt.Fprintln(out)
			}

			if directors := stats.TopDirectors(records, topFlag); len(directors) > 0 {
				rows := make([][]string, 0, len(directors))
				for _, d := range directors {
					rows = append(rows, []string{d.Director, fmt.Sprintf("%d", d.Count)})
				}
				fmt.Fprintln(out, "Top Directors")
				fmt.Fprintln(out, renderTable([]string{"Director", "Watched"}, rows,
					[]columnAlignment{alignLeft, alignRight}))
			}

			if genres := stats.GenreDistribution(records); len(genres) > 0 {
				rows := make([][]string, 0, len(genres))
				for _, g := range genres {
					rows = append(rows, []string{g.Genre, fmt.Sprintf("%d", g.Count)})
				}
				fmt.Fprintln(out, "Top Genres")
				fmt.Fprintln(out, renderTable([]string{"Genre", "Watched"}, rows,
					[]columnAlignment{alignLeft, alignRight}))
			}

			if decades := stats.ByDecade(records); len(decades) > 0 {
				rows := make([][]string, 0, len(decades))
				for _, d := range decades {
					rows = append(rows, []string{fmt.Sprintf("%ds", d.Decade), fmt.Sprintf("%d", d.Count)})
				}
				fmt.Fprintln(out, "By Decade")
				fmt.Fprintln(out, renderTable([]string{"Decade", "Watched"}, rows,
					[]columnAlignment{alignLeft, alignRight}))
			}

			if recent := stats.RecentlyWatched(records, recentFlag); len(recent) > 0 {
				fmt.Fprintln(out, "Recently Watched")
				fmt.Fprintln(out, renderRecords(recent))
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&topFlag, "top", 10, "How many directors to show")
	cmd.Flags().IntVar(&recentFlag, "recent", 10, "How many recently watched movies to show")
	cmd.Flags().Float64Var(&bucketFlag, "bucket", 1, "Rating histogram bucket width")

	return cmd
}
