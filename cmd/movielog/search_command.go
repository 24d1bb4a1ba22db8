package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marco/movielog/internal/search"
)

func newSearchCommand(ctx *appContext) *cobra.Command {
	var (
		titleFlag    string
		directorFlag string
		actorFlag    string
		genreFlag    string
		keywordFlag  string
		statusFlag   string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the collection by title, director, actor, genre, or status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := search.Filters{
				Title:    titleFlag,
				Director: directorFlag,
				Actor:    actorFlag,
				Genre:    genreFlag,
				Keyword:  keywordFlag,
			}
			if statusFlag != "" {
				status, err := parseStatus(statusFlag)
				if err != nil {
					return err
				}
				filters.Status = status
			}

			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			results := search.NewIndex(s).Search(filters)
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matches.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRecords(results))
			fmt.Fprintf(cmd.OutOrStdout(), "%d matches\n", len(results))
			return nil
		},
	}

	cmd.Flags().StringVar(&titleFlag, "title", "", "Title substring")
	cmd.Flags().StringVar(&directorFlag, "director", "", "Director substring")
	cmd.Flags().StringVar(&actorFlag, "actor", "", "Actor substring")
	cmd.Flags().StringVar(&genreFlag, "genre", "", "Genre substring")
	cmd.Flags().StringVar(&keywordFlag, "keyword", "", "Keyword matching any field")
	cmd.Flags().StringVar(&statusFlag, "status", "", "Status: watched or to-watch")

	return cmd
}
