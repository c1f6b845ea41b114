// Package store defines the persistence interface for the publications
// corpus and the knowledge graph.
package store

import (
	"context"
	"errors"

	"github.com/RiosenBeq/NASA/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store is the persistence interface shared by the postgres and in-memory
// implementations.
type Store interface {
	// Publications
	UpsertPublications(ctx context.Context, pubs []*model.Publication) (int, error)
	GetPublication(ctx context.Context, id int64) (*model.Publication, error)
	ListPublications(ctx context.Context, filter model.PublicationFilter) ([]*model.Publication, int, error) // returns publications, total count, error
	SearchPublications(ctx context.Context, query string, k int, filter model.PublicationFilter) ([]*model.SearchResult, error)
	SetAbstract(ctx context.Context, id int64, abstract string) error
	YearCounts(ctx context.Context) (map[int]int, error)

	// Knowledge graph
	ReplaceGraph(ctx context.Context, nodes []*model.Node, edges []*model.Edge) error
	ListNodes(ctx context.Context) ([]*model.Node, error)
	ListEdges(ctx context.Context) ([]*model.Edge, error)
	GraphStats(ctx context.Context) (*model.GraphStats, error)

	// Lifecycle
	Close() error
}
