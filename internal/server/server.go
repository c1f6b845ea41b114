// Package server implements the HTTP/JSON API for the Space Bio Explorer
// dashboard: publication search, LLM summarization and Q&A, and the
// knowledge-graph read surface.
package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/RiosenBeq/NASA/internal/events"
	"github.com/RiosenBeq/NASA/internal/llm"
	"github.com/RiosenBeq/NASA/internal/store"
)

// ExplorerServer serves the dashboard API backed by the given store, event
// publisher, and completion client.
type ExplorerServer struct {
	store     store.Store
	publisher events.Publisher
	llm       llm.Client
	sseHub    *sseHub
	logger    *slog.Logger
}

// NewExplorerServer returns a new ExplorerServer.
func NewExplorerServer(s store.Store, p events.Publisher, c llm.Client, logger *slog.Logger) *ExplorerServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExplorerServer{
		store:     s,
		publisher: p,
		llm:       c,
		sseHub:    newSSEHub(),
		logger:    logger,
	}
}

// publish emits an event to NATS and fans it out to SSE clients. Both are
// best-effort; failures are logged but do not block the caller.
func (s *ExplorerServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
	s.broadcastEvent(topic, event)
}

// broadcastEvent fans an event out to connected SSE clients.
func (s *ExplorerServer) broadcastEvent(topic string, event any) {
	if s.sseHub == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("failed to marshal event for SSE broadcast", "topic", topic, "error", err)
		return
	}
	s.sseHub.broadcast(topic, payload)
}

// inputError indicates invalid user input. The HTTP layer maps this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
