package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marco/movielog/internal/stats"
)

func newListCommand(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every record in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			records := s.List()
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No movies logged yet.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRecords(records))
			fmt.Fprintf(cmd.OutOrStdout(), "%d movies\n", len(records))
			return nil
		},
	}
}

func newToWatchCommand(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "to-watch",
		Short: "Browse the to-watch list, oldest release first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			toWatch := stats.ToWatchList(s.List())
			if len(toWatch) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Your to-watch list is empty.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRecords(toWatch))
			fmt.Fprintf(cmd.OutOrStdout(), "%d movies to watch\n", len(toWatch))
			return nil
		},
	}
}
