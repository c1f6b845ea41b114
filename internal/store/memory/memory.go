// Package memory provides an in-memory store.Store implementation. It backs
// the server when no database is configured and serves as a test double.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/RiosenBeq/NASA/internal/kg"
	"github.com/RiosenBeq/NASA/internal/model"
	"github.com/RiosenBeq/NASA/internal/search"
	"github.com/RiosenBeq/NASA/internal/store"
)

// MemoryStore holds all data in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	pubs   map[int64]*model.Publication
	byURL  map[string]int64
	nodes  []*model.Node
	edges  []*model.Edge
}

var _ store.Store = (*MemoryStore)(nil)

func New() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		pubs:   make(map[int64]*model.Publication),
		byURL:  make(map[string]int64),
	}
}

func (s *MemoryStore) UpsertPublications(ctx context.Context, pubs []*model.Publication) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	count := 0
	for _, p := range pubs {
		if p.URL != "" {
			if id, ok := s.byURL[p.URL]; ok {
				existing := s.pubs[id]
				p.ID = id
				p.CreatedAt = existing.CreatedAt
				p.UpdatedAt = now
				if p.Year == nil {
					p.Year = existing.Year
				}
				if p.Abstract == "" {
					p.Abstract = existing.Abstract
				}
				s.pubs[id] = clonePublication(p)
				count++
				continue
			}
		}
		p.ID = s.nextID
		s.nextID++
		p.CreatedAt = now
		p.UpdatedAt = now
		s.pubs[p.ID] = clonePublication(p)
		if p.URL != "" {
			s.byURL[p.URL] = p.ID
		}
		count++
	}
	return count, nil
}

func (s *MemoryStore) GetPublication(ctx context.Context, id int64) (*model.Publication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pubs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return clonePublication(p), nil
}

func (s *MemoryStore) ListPublications(ctx context.Context, filter model.PublicationFilter) ([]*model.Publication, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*model.Publication
	needle := strings.ToLower(filter.Search)
	for _, p := range s.pubs {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Abstract), needle) {
			continue
		}
		if filter.YearMin != nil && (p.Year == nil || *p.Year < *filter.YearMin) {
			continue
		}
		if filter.YearMax != nil && (p.Year == nil || *p.Year > *filter.YearMax) {
			continue
		}
		matched = append(matched, clonePublication(p))
	}

	sortPublications(matched, filter.Sort)
	total := len(matched)

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (s *MemoryStore) SearchPublications(ctx context.Context, query string, k int, filter model.PublicationFilter) ([]*model.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []*model.Publication
	for _, p := range s.pubs {
		if filter.YearMin != nil && (p.Year == nil || *p.Year < *filter.YearMin) {
			continue
		}
		if filter.YearMax != nil && (p.Year == nil || *p.Year > *filter.YearMax) {
			continue
		}
		candidates = append(candidates, p)
	}
	results := search.Rank(query, candidates, k)
	if results == nil {
		results = []*model.SearchResult{}
	}
	return results, nil
}

func (s *MemoryStore) SetAbstract(ctx context.Context, id int64, abstract string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pubs[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Abstract = abstract
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) YearCounts(ctx context.Context) (map[int]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int]int)
	for _, p := range s.pubs {
		if p.Year != nil {
			counts[*p.Year]++
		}
	}
	return counts, nil
}

func (s *MemoryStore) ReplaceGraph(ctx context.Context, nodes []*model.Node, edges []*model.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = make([]*model.Node, len(nodes))
	for i, n := range nodes {
		cp := *n
		s.nodes[i] = &cp
	}
	s.edges = make([]*model.Edge, len(edges))
	for i, e := range edges {
		cp := *e
		s.edges[i] = &cp
	}
	return nil
}

func (s *MemoryStore) ListNodes(ctx context.Context) ([]*model.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*model.Node, len(s.nodes))
	for i, n := range s.nodes {
		cp := *n
		nodes[i] = &cp
	}
	return nodes, nil
}

func (s *MemoryStore) ListEdges(ctx context.Context) ([]*model.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edges := make([]*model.Edge, len(s.edges))
	for i, e := range s.edges {
		cp := *e
		edges[i] = &cp
	}
	return edges, nil
}

func (s *MemoryStore) GraphStats(ctx context.Context) (*model.GraphStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return kg.Stats(s.nodes, s.edges), nil
}

func (s *MemoryStore) Close() error { return nil }

func clonePublication(p *model.Publication) *model.Publication {
	cp := *p
	if p.Year != nil {
		y := *p.Year
		cp.Year = &y
	}
	if p.Keywords != nil {
		cp.Keywords = append([]string(nil), p.Keywords...)
	}
	return &cp
}

func sortPublications(pubs []*model.Publication, key string) {
	desc := strings.HasPrefix(key, "-")
	col := strings.TrimPrefix(key, "-")

	less := func(a, b *model.Publication) bool { return a.ID < b.ID }
	switch col {
	case "title":
		less = func(a, b *model.Publication) bool { return a.Title < b.Title }
	case "year":
		less = func(a, b *model.Publication) bool {
			ya, yb := 0, 0
			if a.Year != nil {
				ya = *a.Year
			}
			if b.Year != nil {
				yb = *b.Year
			}
			if ya != yb {
				return ya < yb
			}
			return a.ID < b.ID
		}
	case "created_at":
		less = func(a, b *model.Publication) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "updated_at":
		less = func(a, b *model.Publication) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	}

	sort.SliceStable(pubs, func(i, j int) bool {
		if desc {
			return less(pubs[j], pubs[i])
		}
		return less(pubs[i], pubs[j])
	})
}
