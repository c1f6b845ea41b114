package main

import (
	"context"
	"fmt"

	"github.com/RiosenBeq/NASA/internal/events"
	"github.com/RiosenBeq/NASA/internal/kg"
	"github.com/RiosenBeq/NASA/internal/model"
	"github.com/spf13/cobra"
)

var kgCmd = &cobra.Command{
	Use:     "kg <command>",
	Short:   "Knowledge graph operations",
	GroupID: "graph",
}

var kgBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the knowledge graph from the publication corpus",
	// Writes to the database directly; no server connection needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		termsPath, _ := cmd.Flags().GetString("terms")

		terms := kg.DefaultTerms()
		if termsPath != "" {
			var err error
			terms, err = kg.LoadTerms(termsPath)
			if err != nil {
				return fmt.Errorf("loading terms: %w", err)
			}
		}

		st, cfg, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		pubs, _, err := st.ListPublications(ctx, model.PublicationFilter{Sort: "id"})
		if err != nil {
			return fmt.Errorf("listing publications: %w", err)
		}

		nodes, edges := kg.NewBuilder(terms).Build(pubs)
		if err := st.ReplaceGraph(ctx, nodes, edges); err != nil {
			return fmt.Errorf("replacing graph: %w", err)
		}

		publisher, err := openPublisher(cfg)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer publisher.Close()
		_ = publisher.Publish(ctx, events.TopicGraphRebuilt, events.GraphRebuilt{
			NodeCount: len(nodes),
			EdgeCount: len(edges),
		})

		fmt.Printf("Built graph: %d nodes, %d edges from %d publications\n", len(nodes), len(edges), len(pubs))
		return nil
	},
}

var kgStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge graph statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := explorer.GraphStats(context.Background())
		if err != nil {
			return fmt.Errorf("fetching graph stats: %w", err)
		}

		if jsonOutput {
			printJSON(stats)
		} else {
			printGraphStatsTable(stats)
		}
		return nil
	},
}

var kgNodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List knowledge graph nodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes, err := explorer.ListNodes(context.Background())
		if err != nil {
			return fmt.Errorf("listing nodes: %w", err)
		}

		if jsonOutput {
			printJSON(nodes)
		} else {
			printNodeListTable(nodes)
		}
		return nil
	},
}

var kgEdgesCmd = &cobra.Command{
	Use:   "edges",
	Short: "List knowledge graph edges",
	RunE: func(cmd *cobra.Command, args []string) error {
		edges, err := explorer.ListEdges(context.Background())
		if err != nil {
			return fmt.Errorf("listing edges: %w", err)
		}

		if jsonOutput {
			printJSON(edges)
		} else {
			printEdgeListTable(edges)
		}
		return nil
	},
}

func init() {
	kgBuildCmd.Flags().String("terms", "", "TOML file with term lists (defaults to the built-in vocabulary)")

	kgCmd.AddCommand(kgBuildCmd)
	kgCmd.AddCommand(kgStatsCmd)
	kgCmd.AddCommand(kgNodesCmd)
	kgCmd.AddCommand(kgEdgesCmd)
}
