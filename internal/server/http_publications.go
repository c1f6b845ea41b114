package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/RiosenBeq/NASA/internal/model"
	"github.com/RiosenBeq/NASA/internal/store"
)

// defaultSearchK is the number of search results returned when k is omitted.
const defaultSearchK = 10

// maxSearchK caps the number of results a single search may request.
const maxSearchK = 50

// handleSearch handles GET /v1/search?q=&k=&year_min=&year_max=.
func (s *ExplorerServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	k := defaultSearchK
	if v := q.Get("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "k must be a positive integer")
			return
		}
		k = n
	}
	if k > maxSearchK {
		k = maxSearchK
	}

	filter := model.PublicationFilter{}
	if v := q.Get("year_min"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year_min must be an integer")
			return
		}
		filter.YearMin = &n
	}
	if v := q.Get("year_max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year_max must be an integer")
			return
		}
		filter.YearMax = &n
	}

	results, err := s.store.SearchPublications(r.Context(), query, k, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if results == nil {
		results = []*model.SearchResult{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// handleListPublications handles GET /v1/publications.
func (s *ExplorerServer) handleListPublications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.PublicationFilter{
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
	}

	if v := q.Get("year_min"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year_min must be an integer")
			return
		}
		filter.YearMin = &n
	}
	if v := q.Get("year_max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year_max must be an integer")
			return
		}
		filter.YearMax = &n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "offset must be an integer")
			return
		}
		filter.Offset = n
	}

	pubs, total, err := s.store.ListPublications(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list publications")
		return
	}

	// Ensure publications is never null in JSON output.
	if pubs == nil {
		pubs = []*model.Publication{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"publications": pubs,
		"total":        total,
	})
}

// handleGetPublication handles GET /v1/publications/{id}.
func (s *ExplorerServer) handleGetPublication(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	pub, err := s.store.GetPublication(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "publication not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get publication")
		return
	}

	writeJSON(w, http.StatusOK, pub)
}
