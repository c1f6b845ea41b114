package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/RiosenBeq/NASA/internal/model"
	"github.com/RiosenBeq/NASA/internal/ui"
	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:     "summarize <id> [id...]",
	Short:   "Summarize publications with the language model",
	GroupID: "insights",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int64, 0, len(args))
		for _, arg := range args {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid publication id %q", arg)
			}
			ids = append(ids, id)
		}

		persona, _ := cmd.Flags().GetString("persona")
		sections, _ := cmd.Flags().GetString("sections")

		resp, err := explorer.Summarize(context.Background(), &model.SummaryRequest{
			IDs:             ids,
			Persona:         model.Persona(persona),
			SectionPriority: model.SectionPriority(sections),
		})
		if err != nil {
			return fmt.Errorf("summarizing: %w", err)
		}

		if jsonOutput {
			printJSON(resp)
			return nil
		}

		fmt.Println(resp.Summary)
		if len(resp.Citations) > 0 {
			fmt.Printf("\n%s\n", ui.RenderAccent("Citations:"))
			for i, url := range resp.Citations {
				title := ""
				if i < len(resp.Titles) {
					title = resp.Titles[i]
				}
				fmt.Printf("  %s %s\n", title, ui.RenderMuted(url))
			}
		}
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:     "ask <id> <question>",
	Short:   "Ask a question about a publication",
	GroupID: "insights",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid publication id %q", args[0])
		}
		question := strings.Join(args[1:], " ")
		persona, _ := cmd.Flags().GetString("persona")

		resp, err := explorer.Ask(context.Background(), &model.QARequest{
			ID:       id,
			Question: question,
			Persona:  model.Persona(persona),
		})
		if err != nil {
			return fmt.Errorf("asking: %w", err)
		}

		if jsonOutput {
			printJSON(resp)
			return nil
		}

		fmt.Println(resp.Answer)
		for _, url := range resp.Citations {
			fmt.Printf("\n%s %s\n", ui.RenderAccent("Source:"), ui.RenderMuted(url))
		}
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringP("persona", "p", "", "reader persona (scientist, manager, architect)")
	summarizeCmd.Flags().String("sections", "", "section priority (results, discussion, conclusion)")

	askCmd.Flags().StringP("persona", "p", "", "reader persona (scientist, manager, architect)")
}
