package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newDeleteCommand(ctx *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <title> <year>",
		Short: "Delete a record and its backing document",
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
			if err := s.Delete(title, year); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q (%d)\n", title, year)
			return nil
		},
	}
}
