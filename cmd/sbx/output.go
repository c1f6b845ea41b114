package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/RiosenBeq/NASA/internal/model"
	"github.com/RiosenBeq/NASA/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printPublicationTable(pub *model.Publication) {
	fmt.Printf("ID:          %d\n", pub.ID)
	fmt.Printf("Title:       %s\n", ui.RenderAccent(pub.Title))
	if pub.Year != nil {
		fmt.Printf("Year:        %d\n", *pub.Year)
	}
	if pub.DOI != "" {
		fmt.Printf("DOI:         %s\n", pub.DOI)
	}
	if pub.PMID != "" {
		fmt.Printf("PMID:        %s\n", pub.PMID)
	}
	if pub.URL != "" {
		fmt.Printf("URL:         %s\n", pub.URL)
	}
	if pub.Source != "" {
		fmt.Printf("Source:      %s\n", pub.Source)
	}
	if len(pub.Keywords) > 0 {
		fmt.Printf("Keywords:    %s\n", strings.Join(pub.Keywords, ", "))
	}
	if !pub.CreatedAt.IsZero() {
		fmt.Printf("Created At:  %s\n", ui.RenderMuted(pub.CreatedAt.Format("2006-01-02 15:04:05")))
	}
	if pub.Abstract != "" {
		fmt.Printf("\n%s\n", pub.Abstract)
	}
}

func printPublicationListTable(pubs []*model.Publication, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tYEAR\tTITLE\tURL")
	for _, p := range pubs {
		year := ""
		if p.Year != nil {
			year = fmt.Sprintf("%d", *p.Year)
		}
		title := p.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, year, title, p.URL)
	}
	w.Flush()
	fmt.Printf("\n%d publications (%d total)\n", len(pubs), total)
}

func printSearchResultsTable(results []*model.SearchResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCORE\tTITLE")
	for _, r := range results {
		title := r.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(w, "%d\t%.2f\t%s\n", r.ID, r.Score, title)
	}
	w.Flush()
	for _, r := range results {
		if r.Snippet != "" {
			fmt.Printf("\n%s %s\n", ui.RenderCommand(fmt.Sprintf("[%d]", r.ID)), ui.RenderMuted(r.Snippet))
		}
	}
	fmt.Printf("\n%d results\n", len(results))
}

func printNodeListTable(nodes []*model.Node) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tLABEL")
	for _, n := range nodes {
		label := n.Label
		if len(label) > 60 {
			label = label[:57] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", n.ID, n.Type, label)
	}
	w.Flush()
	fmt.Printf("\n%d nodes\n", len(nodes))
}

func printEdgeListTable(edges []*model.Edge) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tRELATION\tTARGET")
	for _, e := range edges {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Source, e.Relation, e.Target)
	}
	w.Flush()
	fmt.Printf("\n%d edges\n", len(edges))
}

func printGraphStatsTable(stats *model.GraphStats) {
	fmt.Printf("Nodes: %d\n", stats.NodeCount)
	fmt.Printf("Edges: %d\n", stats.EdgeCount)

	if len(stats.NodeTypes) > 0 {
		fmt.Printf("\n%s\n", ui.RenderAccent("Node types:"))
		for _, k := range sortedKeys(stats.NodeTypes) {
			fmt.Printf("  %-20s %d\n", k, stats.NodeTypes[k])
		}
	}
	if len(stats.EdgeRelations) > 0 {
		fmt.Printf("\n%s\n", ui.RenderAccent("Edge relations:"))
		for _, k := range sortedKeys(stats.EdgeRelations) {
			fmt.Printf("  %-20s %d\n", k, stats.EdgeRelations[k])
		}
	}
}

func printYearCountsTable(counts map[int]int) {
	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "YEAR\tPUBLICATIONS")
	for _, y := range years {
		fmt.Fprintf(w, "%d\t%d\n", y, counts[y])
	}
	w.Flush()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
