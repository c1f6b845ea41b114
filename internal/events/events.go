package events

import (
	"context"

	"github.com/RiosenBeq/NASA/internal/model"
)

// Event topic constants
const (
	TopicPublicationIngested = "biosci.publication.ingested"
	TopicGraphRebuilt        = "biosci.graph.rebuilt"
	TopicSummaryGenerated    = "biosci.summary.generated"
	TopicQAAnswered          = "biosci.qa.answered"
)

// Event types

type PublicationIngested struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

type GraphRebuilt struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

type SummaryGenerated struct {
	IDs     []int64       `json:"ids"`
	Persona model.Persona `json:"persona,omitempty"`
}

type QAAnswered struct {
	ID       int64         `json:"id"`
	Question string        `json:"question"`
	Persona  model.Persona `json:"persona,omitempty"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
