package main

import (
	"fmt"
	"os"

	"github.com/RiosenBeq/NASA/internal/client"
	"github.com/RiosenBeq/NASA/internal/ui"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	httpURL    string
	authToken  string
	jsonOutput bool

	explorer client.ExplorerClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("SBX_HTTP_URL"); s != "" {
		return s
	}
	return "http://localhost:8000"
}

var rootCmd = &cobra.Command{
	Use:   "sbx <command>",
	Short: "CLI client for the Space Biology explorer service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		explorer = client.NewHTTPClient(httpURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if explorer != nil {
			explorer.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv("SBX_AUTH_TOKEN"), "bearer token for authenticated servers")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "corpus", Title: "Corpus:"},
		&cobra.Group{ID: "insights", Title: "Insights:"},
		&cobra.Group{ID: "graph", Title: "Knowledge Graph:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Corpus
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(yearsCmd)

	// Insights
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(askCmd)

	// Knowledge Graph
	rootCmd.AddCommand(kgCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	// Best-effort .env loading, matching the dashboard's local dev setup.
	_ = godotenv.Load()

	if !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
