package server

import (
	"net/http"
	"strconv"

	"github.com/RiosenBeq/NASA/internal/model"
)

// handleKGNodes handles GET /v1/kg/nodes.
func (s *ExplorerServer) handleKGNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.store.ListNodes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list nodes")
		return
	}
	if nodes == nil {
		nodes = []*model.Node{}
	}
	writeJSON(w, http.StatusOK, nodes)
}

// handleKGEdges handles GET /v1/kg/edges.
func (s *ExplorerServer) handleKGEdges(w http.ResponseWriter, r *http.Request) {
	edges, err := s.store.ListEdges(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list edges")
		return
	}
	if edges == nil {
		edges = []*model.Edge{}
	}
	writeJSON(w, http.StatusOK, edges)
}

// handleKGStats handles GET /v1/kg/stats.
func (s *ExplorerServer) handleKGStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GraphStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute graph stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleYearCounts handles GET /v1/kg/year_counts.
func (s *ExplorerServer) handleYearCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.YearCounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count years")
		return
	}
	if counts == nil {
		counts = map[int]int{}
	}
	writeJSON(w, http.StatusOK, model.YearCounts{Data: counts})
}

// handleGraph handles GET /v1/graph?limit=. It returns nodes, edges, and
// stats in one payload for the viewer. A limit caps the node count; edges are
// trimmed to those whose endpoints survive.
func (s *ExplorerServer) handleGraph(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	nodes, err := s.store.ListNodes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list nodes")
		return
	}
	edges, err := s.store.ListEdges(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list edges")
		return
	}
	stats, err := s.store.GraphStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute graph stats")
		return
	}

	if limit > 0 && len(nodes) > limit {
		nodes = nodes[:limit]
		kept := make(map[string]bool, len(nodes))
		for _, n := range nodes {
			kept[n.ID] = true
		}
		var trimmed []*model.Edge
		for _, e := range edges {
			if kept[e.Source] && kept[e.Target] {
				trimmed = append(trimmed, e)
			}
		}
		edges = trimmed
	}

	if nodes == nil {
		nodes = []*model.Node{}
	}
	if edges == nil {
		edges = []*model.Edge{}
	}
	writeJSON(w, http.StatusOK, model.GraphResponse{
		Nodes: nodes,
		Edges: edges,
		Stats: stats,
	})
}
