// Package client provides a transport-agnostic interface for the explorer
// service and an HTTP/JSON implementation that talks to its REST API.
package client

import (
	"context"

	"github.com/RiosenBeq/NASA/internal/model"
)

// ExplorerClient is the interface the CLI commands use to communicate with
// the explorer server. It is implemented by HTTPClient (default) and can be
// backed by any transport.
type ExplorerClient interface {
	// Publications
	Search(ctx context.Context, req *SearchRequest) ([]*model.SearchResult, error)
	ListPublications(ctx context.Context, req *ListPublicationsRequest) (*ListPublicationsResponse, error)
	GetPublication(ctx context.Context, id int64) (*model.Publication, error)

	// Summarization and Q&A
	Summarize(ctx context.Context, req *model.SummaryRequest) (*model.SummaryResponse, error)
	Ask(ctx context.Context, req *model.QARequest) (*model.QAResponse, error)

	// Knowledge graph
	ListNodes(ctx context.Context) ([]*model.Node, error)
	ListEdges(ctx context.Context) ([]*model.Edge, error)
	GraphStats(ctx context.Context) (*model.GraphStats, error)
	YearCounts(ctx context.Context) (map[int]int, error)
	Graph(ctx context.Context, limit int) (*model.GraphResponse, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// SearchRequest holds parameters for ranked publication search.
type SearchRequest struct {
	Query   string `json:"q"`
	K       int    `json:"k,omitempty"`
	YearMin *int   `json:"year_min,omitempty"`
	YearMax *int   `json:"year_max,omitempty"`
}

// ListPublicationsRequest holds parameters for listing publications.
type ListPublicationsRequest struct {
	Search  string `json:"search,omitempty"`
	YearMin *int   `json:"year_min,omitempty"`
	YearMax *int   `json:"year_max,omitempty"`
	Sort    string `json:"sort,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

// ListPublicationsResponse is the response from ListPublications.
type ListPublicationsResponse struct {
	Publications []*model.Publication `json:"publications"`
	Total        int                  `json:"total"`
}
