package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/RiosenBeq/NASA/internal/client"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Short:   "Search publications by text query",
	GroupID: "corpus",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		k, _ := cmd.Flags().GetInt("limit")

		req := &client.SearchRequest{Query: query, K: k}
		if cmd.Flags().Changed("year-min") {
			v, _ := cmd.Flags().GetInt("year-min")
			req.YearMin = &v
		}
		if cmd.Flags().Changed("year-max") {
			v, _ := cmd.Flags().GetInt("year-max")
			req.YearMax = &v
		}

		results, err := explorer.Search(context.Background(), req)
		if err != nil {
			return fmt.Errorf("searching publications: %w", err)
		}

		if jsonOutput {
			printJSON(results)
		} else {
			printSearchResultsTable(results)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntP("limit", "k", 10, "maximum number of results")
	searchCmd.Flags().Int("year-min", 0, "only publications from this year on")
	searchCmd.Flags().Int("year-max", 0, "only publications up to this year")
}
