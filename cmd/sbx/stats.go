package main

import (
	"context"
	"fmt"

	"github.com/RiosenBeq/NASA/internal/client"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show corpus and graph statistics",
	GroupID: "corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		// Total via a minimal list request; the server reports the full count.
		resp, err := explorer.ListPublications(ctx, &client.ListPublicationsRequest{Limit: 1})
		if err != nil {
			return fmt.Errorf("listing publications: %w", err)
		}

		graphStats, err := explorer.GraphStats(ctx)
		if err != nil {
			return fmt.Errorf("fetching graph stats: %w", err)
		}

		if jsonOutput {
			printJSON(map[string]any{
				"publications": resp.Total,
				"graph":        graphStats,
			})
			return nil
		}

		fmt.Printf("Publications: %d\n\n", resp.Total)
		printGraphStatsTable(graphStats)
		return nil
	},
}

var yearsCmd = &cobra.Command{
	Use:     "years",
	Short:   "Show publications per year",
	GroupID: "corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		counts, err := explorer.YearCounts(context.Background())
		if err != nil {
			return fmt.Errorf("fetching year counts: %w", err)
		}

		if jsonOutput {
			printJSON(counts)
		} else {
			printYearCountsTable(counts)
		}
		return nil
	},
}
