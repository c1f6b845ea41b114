package main

import (
	"context"
	"fmt"

	"github.com/RiosenBeq/NASA/internal/corpus"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:     "fetch [url]",
	Short:   "Download the publications corpus CSV",
	GroupID: "corpus",
	Args:    cobra.MaximumNArgs(1),
	// No server connection needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		url := corpus.DefaultCSVURL
		if len(args) > 0 {
			url = args[0]
		}
		output, _ := cmd.Flags().GetString("output")

		n, err := corpus.Fetch(context.Background(), url, output)
		if err != nil {
			return fmt.Errorf("fetching corpus: %w", err)
		}

		fmt.Printf("Wrote %d bytes to %s\n", n, output)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringP("output", "o", "data/publications.csv", "output file path")
}
