package server

import (
	"encoding/json"
	"net/http"
)

// HandlerOptions configures the HTTP handler surface.
type HandlerOptions struct {
	// AuthToken enables bearer-token auth when non-empty. GET /v1/health is
	// always exempt.
	AuthToken string
	// CORSOrigin is the allowed origin for cross-origin requests. Empty
	// allows any origin, matching the dashboard's development setup.
	CORSOrigin string
	// StaticDir serves dashboard assets at / when non-empty.
	StaticDir string
}

// NewHTTPHandler returns an http.Handler with all routes registered.
func (s *ExplorerServer) NewHTTPHandler(opts HandlerOptions) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	mux.HandleFunc("GET /v1/search", s.handleSearch)
	mux.HandleFunc("GET /v1/publications", s.handleListPublications)
	mux.HandleFunc("GET /v1/publications/{id}", s.handleGetPublication)
	mux.HandleFunc("POST /v1/summarize", s.handleSummarize)
	mux.HandleFunc("POST /v1/qa", s.handleQA)
	mux.HandleFunc("GET /v1/kg/nodes", s.handleKGNodes)
	mux.HandleFunc("GET /v1/kg/edges", s.handleKGEdges)
	mux.HandleFunc("GET /v1/kg/stats", s.handleKGStats)
	mux.HandleFunc("GET /v1/kg/year_counts", s.handleYearCounts)
	mux.HandleFunc("GET /v1/graph", s.handleGraph)
	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	if opts.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(opts.StaticDir)))
	}

	var handler http.Handler = mux
	handler = AuthMiddleware(opts.AuthToken, handler)
	handler = CORSMiddleware(opts.CORSOrigin, handler)
	handler = RequestLogMiddleware(s.logger, handler)
	return handler
}

// handleHealth handles GET /v1/health. The llm flag mirrors whether a real
// completion backend is configured.
func (s *ExplorerServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"llm":    s.llm.Enabled(),
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
