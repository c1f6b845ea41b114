// Package worker reacts to corpus events on the bus. When publications are
// ingested, the rebuilder regenerates the knowledge graph so the dashboard
// never serves a graph that lags the corpus.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/RiosenBeq/NASA/internal/events"
	"github.com/RiosenBeq/NASA/internal/kg"
	"github.com/RiosenBeq/NASA/internal/model"
	"github.com/RiosenBeq/NASA/internal/store"
)

// Rebuilder listens for ingestion events and rebuilds the knowledge graph.
type Rebuilder struct {
	store     store.Store
	publisher events.Publisher
	terms     kg.Terms
	logger    *slog.Logger
}

// NewRebuilder creates a rebuilder using the given term vocabulary.
func NewRebuilder(s store.Store, p events.Publisher, terms kg.Terms, logger *slog.Logger) *Rebuilder {
	return &Rebuilder{store: s, publisher: p, terms: terms, logger: logger}
}

// Rebuild regenerates the graph from the full corpus and publishes a
// graph-rebuilt event.
func (r *Rebuilder) Rebuild(ctx context.Context) (int, int, error) {
	pubs, _, err := r.store.ListPublications(ctx, model.PublicationFilter{Sort: "id"})
	if err != nil {
		return 0, 0, fmt.Errorf("list publications: %w", err)
	}

	nodes, edges := kg.NewBuilder(r.terms).Build(pubs)
	if err := r.store.ReplaceGraph(ctx, nodes, edges); err != nil {
		return 0, 0, fmt.Errorf("replace graph: %w", err)
	}

	if err := r.publisher.Publish(ctx, events.TopicGraphRebuilt, events.GraphRebuilt{
		NodeCount: len(nodes),
		EdgeCount: len(edges),
	}); err != nil {
		r.logger.Warn("rebuilder: publish failed", "err", err)
	}

	return len(nodes), len(edges), nil
}

// StartSubscriber listens for ingestion events on the event bus and rebuilds
// the graph after each one. It blocks until ctx is cancelled.
func (r *Rebuilder) StartSubscriber(ctx context.Context, sub events.Subscriber) error {
	ch, cancel, err := sub.Subscribe(events.TopicPublicationIngested)
	if err != nil {
		return fmt.Errorf("rebuilder: subscribe: %w", err)
	}
	defer cancel()

	r.logger.Info("rebuilder: subscriber started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("rebuilder: subscriber stopping")
			return nil
		case raw, ok := <-ch:
			if !ok {
				r.logger.Info("rebuilder: subscription channel closed")
				return nil
			}

			var event events.PublicationIngested
			if err := json.Unmarshal(raw, &event); err != nil {
				r.logger.Warn("rebuilder: bad event payload", "err", err)
				continue
			}

			nodes, edges, err := r.Rebuild(ctx)
			if err != nil {
				r.logger.Error("rebuilder: rebuild failed", "err", err)
				continue
			}
			r.logger.Info("rebuilder: graph rebuilt",
				"source", event.Source, "ingested", event.Count,
				"nodes", nodes, "edges", edges)
		}
	}
}
