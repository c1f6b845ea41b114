package main

import (
	"context"
	"fmt"
	"os"

	biosync "github.com/RiosenBeq/NASA/internal/sync"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Export the corpus and graph as a JSONL snapshot",
	GroupID: "system",
	// Reads the database directly; no server connection needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		st, _, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		out := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			out = f
		}

		if err := biosync.ExportJSONL(context.Background(), st, out); err != nil {
			return fmt.Errorf("exporting snapshot: %w", err)
		}

		if output != "" {
			fmt.Fprintf(os.Stderr, "Snapshot written to %s\n", output)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
}
