package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/RiosenBeq/NASA/internal/idgen"
	"github.com/RiosenBeq/NASA/internal/model"
	"github.com/RiosenBeq/NASA/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version          string    `json:"version"`
	Type             string    `json:"type"`
	SnapshotID       string    `json:"snapshot_id"`
	Timestamp        time.Time `json:"timestamp"`
	PublicationCount int       `json:"publication_count"`
	NodeCount        int       `json:"node_count"`
	EdgeCount        int       `json:"edge_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ExportJSONL writes a full snapshot of the corpus and knowledge graph as
// JSONL to w: a header record, then one record per publication, node, and
// edge. Publications are ordered by ID.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	// Fetch all publications (no filter, no limit).
	pubs, _, err := s.ListPublications(ctx, model.PublicationFilter{Sort: "id"})
	if err != nil {
		return fmt.Errorf("list publications: %w", err)
	}

	nodes, err := s.ListNodes(ctx)
	if err != nil {
		return fmt.Errorf("list nodes: %w", err)
	}

	edges, err := s.ListEdges(ctx)
	if err != nil {
		return fmt.Errorf("list edges: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	// Write header.
	if err := enc.Encode(header{
		Version:          "1",
		Type:             "header",
		SnapshotID:       idgen.NewSnapshotID(),
		Timestamp:        time.Now().UTC(),
		PublicationCount: len(pubs),
		NodeCount:        len(nodes),
		EdgeCount:        len(edges),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	// Write publications.
	for _, p := range pubs {
		if err := enc.Encode(record{Type: "publication", Data: p}); err != nil {
			return fmt.Errorf("encode publication %d: %w", p.ID, err)
		}
	}

	// Write graph nodes and edges.
	for _, n := range nodes {
		if err := enc.Encode(record{Type: "node", Data: n}); err != nil {
			return fmt.Errorf("encode node %s: %w", n.ID, err)
		}
	}
	for _, e := range edges {
		if err := enc.Encode(record{Type: "edge", Data: e}); err != nil {
			return fmt.Errorf("encode edge %s->%s: %w", e.Source, e.Target, err)
		}
	}

	return nil
}
