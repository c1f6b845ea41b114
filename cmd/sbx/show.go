package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/RiosenBeq/NASA/internal/client"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show a publication's details",
	GroupID: "corpus",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid publication id %q", args[0])
		}

		pub, err := explorer.GetPublication(context.Background(), id)
		if err != nil {
			return fmt.Errorf("fetching publication: %w", err)
		}

		if jsonOutput {
			printJSON(pub)
		} else {
			printPublicationTable(pub)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List publications",
	GroupID: "corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		sort, _ := cmd.Flags().GetString("sort")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		req := &client.ListPublicationsRequest{
			Search: search,
			Sort:   sort,
			Limit:  limit,
			Offset: offset,
		}
		if cmd.Flags().Changed("year-min") {
			v, _ := cmd.Flags().GetInt("year-min")
			req.YearMin = &v
		}
		if cmd.Flags().Changed("year-max") {
			v, _ := cmd.Flags().GetInt("year-max")
			req.YearMax = &v
		}

		resp, err := explorer.ListPublications(context.Background(), req)
		if err != nil {
			return fmt.Errorf("listing publications: %w", err)
		}

		if jsonOutput {
			printJSON(resp)
		} else {
			printPublicationListTable(resp.Publications, resp.Total)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("search", "s", "", "filter by title or abstract text")
	listCmd.Flags().String("sort", "", "sort column (id, title, year, created_at; prefix with - for descending)")
	listCmd.Flags().Int("limit", 20, "maximum number of results")
	listCmd.Flags().Int("offset", 0, "number of results to skip")
	listCmd.Flags().Int("year-min", 0, "only publications from this year on")
	listCmd.Flags().Int("year-max", 0, "only publications up to this year")

	rootCmd.AddCommand(listCmd)
}
