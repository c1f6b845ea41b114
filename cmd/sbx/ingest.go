package main

import (
	"context"
	"fmt"

	"github.com/RiosenBeq/NASA/internal/corpus"
	"github.com/RiosenBeq/NASA/internal/events"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:     "ingest <csv-path>",
	Short:   "Load a publications CSV into the store",
	GroupID: "corpus",
	Args:    cobra.ExactArgs(1),
	// Writes to the database directly; no server connection needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		pubs, err := corpus.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading corpus: %w", err)
		}

		st, cfg, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		count, err := st.UpsertPublications(ctx, pubs)
		if err != nil {
			return fmt.Errorf("upserting publications: %w", err)
		}

		publisher, err := openPublisher(cfg)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer publisher.Close()
		_ = publisher.Publish(ctx, events.TopicPublicationIngested, events.PublicationIngested{
			Source: path,
			Count:  count,
		})

		fmt.Printf("Ingested %d publications from %s\n", count, path)
		return nil
	},
}
