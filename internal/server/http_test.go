package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RiosenBeq/NASA/internal/kg"
	"github.com/RiosenBeq/NASA/internal/llm"
	"github.com/RiosenBeq/NASA/internal/model"
	"github.com/RiosenBeq/NASA/internal/search"
	"github.com/RiosenBeq/NASA/internal/store"
)

type mockStore struct {
	pubs  map[int64]*model.Publication
	nodes []*model.Node
	edges []*model.Edge

	// listErr, when non-nil, is returned by the list/graph read methods.
	listErr error
}

func newMockStore() *mockStore {
	return &mockStore{pubs: make(map[int64]*model.Publication)}
}

func (m *mockStore) UpsertPublications(_ context.Context, pubs []*model.Publication) (int, error) {
	for _, p := range pubs {
		m.pubs[p.ID] = p
	}
	return len(pubs), nil
}

func (m *mockStore) GetPublication(_ context.Context, id int64) (*model.Publication, error) {
	p, ok := m.pubs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (m *mockStore) ListPublications(_ context.Context, filter model.PublicationFilter) ([]*model.Publication, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var result []*model.Publication
	for _, p := range m.pubs {
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(p.Title), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.YearMin != nil && (p.Year == nil || *p.Year < *filter.YearMin) {
			continue
		}
		if filter.YearMax != nil && (p.Year == nil || *p.Year > *filter.YearMax) {
			continue
		}
		result = append(result, p)
	}
	return result, len(result), nil
}

func (m *mockStore) SearchPublications(_ context.Context, query string, k int, filter model.PublicationFilter) ([]*model.SearchResult, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var candidates []*model.Publication
	for _, p := range m.pubs {
		if filter.YearMin != nil && (p.Year == nil || *p.Year < *filter.YearMin) {
			continue
		}
		if filter.YearMax != nil && (p.Year == nil || *p.Year > *filter.YearMax) {
			continue
		}
		candidates = append(candidates, p)
	}
	return search.Rank(query, candidates, k), nil
}

func (m *mockStore) SetAbstract(_ context.Context, id int64, abstract string) error {
	p, ok := m.pubs[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Abstract = abstract
	return nil
}

func (m *mockStore) YearCounts(_ context.Context) (map[int]int, error) {
	counts := make(map[int]int)
	for _, p := range m.pubs {
		if p.Year != nil {
			counts[*p.Year]++
		}
	}
	return counts, nil
}

func (m *mockStore) ReplaceGraph(_ context.Context, nodes []*model.Node, edges []*model.Edge) error {
	m.nodes, m.edges = nodes, edges
	return nil
}

func (m *mockStore) ListNodes(_ context.Context) ([]*model.Node, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.nodes, nil
}

func (m *mockStore) ListEdges(_ context.Context) ([]*model.Edge, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.edges, nil
}

func (m *mockStore) GraphStats(_ context.Context) (*model.GraphStats, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return kg.Stats(m.nodes, m.edges), nil
}

func (m *mockStore) Close() error { return nil }

// fakeLLM returns a fixed completion, or an error when err is set.
type fakeLLM struct {
	response string
	err      error
	// lastPrompt records the most recent prompt for assertions.
	lastPrompt string
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) Enabled() bool { return true }

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }
func (noopPublisher) Close() error                               { return nil }

func intPtr(v int) *int { return &v }

func newTestServer(ms *mockStore, c llm.Client) *ExplorerServer {
	if c == nil {
		c = &fakeLLM{response: "ok"}
	}
	return NewExplorerServer(ms, noopPublisher{}, c, slog.New(slog.DiscardHandler))
}

func seedStore(ms *mockStore) {
	ms.pubs[1] = &model.Publication{
		ID: 1, Title: "Mice in Bion-M 1 space mission", Year: intPtr(2014),
		URL: "https://example.org/1", Abstract: "Mice flew for 30 days.",
	}
	ms.pubs[2] = &model.Publication{
		ID: 2, Title: "Microgravity induces bone loss", Year: intPtr(2016),
		URL: "https://example.org/2", Abstract: "Bone density decreased under microgravity.",
	}
	ms.nodes = []*model.Node{
		{ID: "article_1", Type: model.NodeTypeArticle, Label: "Mice in Bion-M 1 space mission"},
		{ID: "experiment_1", Type: model.NodeTypeExperiment, Label: "spaceflight"},
		{ID: "effect_1", Type: model.NodeTypeEffect, Label: "bone loss"},
	}
	ms.edges = []*model.Edge{
		{Source: "article_1", Target: "experiment_1", Relation: model.RelationDescribes},
		{Source: "experiment_1", Target: "effect_1", Relation: model.RelationObserves},
	}
}

func doRequest(t *testing.T, s *ExplorerServer, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.NewHTTPHandler(HandlerOptions{}).ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(newMockStore(), nil)
	w := doRequest(t, s, http.MethodGet, "/v1/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody[map[string]any](t, w)
	if body["status"] != "ok" || body["llm"] != true {
		t.Fatalf("body = %v", body)
	}
}

func TestHandleSearch(t *testing.T) {
	ms := newMockStore()
	seedStore(ms)
	s := newTestServer(ms, nil)

	w := doRequest(t, s, http.MethodGet, "/v1/search?q=microgravity", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	body := decodeBody[struct {
		Results []*model.SearchResult `json:"results"`
	}](t, w)
	if len(body.Results) != 1 || body.Results[0].ID != 2 {
		t.Fatalf("results = %+v", body.Results)
	}
}

func TestHandleSearch_MissingQuery(t *testing.T) {
	s := newTestServer(newMockStore(), nil)
	w := doRequest(t, s, http.MethodGet, "/v1/search", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestHandleSearch_BadK(t *testing.T) {
	s := newTestServer(newMockStore(), nil)
	w := doRequest(t, s, http.MethodGet, "/v1/search?q=x&k=zero", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestHandleSearch_YearFilter(t *testing.T) {
	ms := newMockStore()
	seedStore(ms)
	s := newTestServer(ms, nil)

	w := doRequest(t, s, http.MethodGet, "/v1/search?q=microgravity&year_max=2015", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody[struct {
		Results []*model.SearchResult `json:"results"`
	}](t, w)
	if len(body.Results) != 0 {
		t.Fatalf("expected no results, got %+v", body.Results)
	}
}

func TestHandleListPublications(t *testing.T) {
	ms := newMockStore()
	seedStore(ms)
	s := newTestServer(ms, nil)

	w := doRequest(t, s, http.MethodGet, "/v1/publications", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody[struct {
		Publications []*model.Publication `json:"publications"`
		Total        int                  `json:"total"`
	}](t, w)
	if body.Total != 2 || len(body.Publications) != 2 {
		t.Fatalf("total=%d len=%d", body.Total, len(body.Publications))
	}
}

func TestHandleListPublications_EmptyIsNotNull(t *testing.T) {
	s := newTestServer(newMockStore(), nil)
	w := doRequest(t, s, http.MethodGet, "/v1/publications", nil)
	if !strings.Contains(w.Body.String(), `"publications":[]`) {
		t.Fatalf("expected empty array, got %s", w.Body.String())
	}
}

func TestHandleListPublications_BadParams(t *testing.T) {
	s := newTestServer(newMockStore(), nil)

	for _, tc := range []struct {
		name string
		path string
	}{
		{"YearMin", "/v1/publications?year_min=abc"},
		{"YearMax", "/v1/publications?year_max=soon"},
		{"Limit", "/v1/publications?limit=many"},
		{"Offset", "/v1/publications?offset=1.5"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodGet, tc.path, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
			}
		})
	}
}

func TestHandleGetPublication(t *testing.T) {
	ms := newMockStore()
	seedStore(ms)
	s := newTestServer(ms, nil)

	w := doRequest(t, s, http.MethodGet, "/v1/publications/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	pub := decodeBody[model.Publication](t, w)
	if pub.ID != 1 || pub.Title != "Mice in Bion-M 1 space mission" {
		t.Fatalf("pub = %+v", pub)
	}
}

func TestHandleGetPublication_NotFound(t *testing.T) {
	s := newTestServer(newMockStore(), nil)
	w := doRequest(t, s, http.MethodGet, "/v1/publications/99", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestHandleGetPublication_BadID(t *testing.T) {
	s := newTestServer(newMockStore(), nil)
	w := doRequest(t, s, http.MethodGet, "/v1/publications/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestHandleSummarize(t *testing.T) {
	ms := newMockStore()
	seedStore(ms)
	fake := &fakeLLM{response: "- Objective: rodents in orbit."}
	s := newTestServer(ms, fake)

	w := doRequest(t, s, http.MethodPost, "/v1/summarize", model.SummaryRequest{
		IDs:     []int64{1, 2},
		Persona: model.PersonaScientist,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBody[model.SummaryResponse](t, w)
	if resp.Summary != "- Objective: rodents in orbit." {
		t.Fatalf("summary = %q", resp.Summary)
	}
	if len(resp.Citations) != 2 || len(resp.Titles) != 2 {
		t.Fatalf("citations=%v titles=%v", resp.Citations, resp.Titles)
	}
	if !strings.Contains(fake.lastPrompt, "[ID 1]") || !strings.Contains(fake.lastPrompt, "[ID 2]") {
		t.Fatalf("prompt missing documents: %q", fake.lastPrompt)
	}
}

func TestHandleSummarize_SkipsMissingIDs(t *testing.T) {
	ms := newMockStore()
	seedStore(ms)
	s := newTestServer(ms, nil)

	w := doRequest(t, s, http.MethodPost, "/v1/summarize", model.SummaryRequest{IDs: []int64{1, 99}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decodeBody[model.SummaryResponse](t, w)
	if len(resp.Citations) != 1 {
		t.Fatalf("citations = %v", resp.Citations)
	}
}

func TestHandleSummarize_AllIDsMissing(t *testing.T) {
	ms := newMockStore()
	seedStore(ms)
	s := newTestServer(ms, nil)

	w := doRequest(t, s, http.MethodPost, "/v1/summarize", model.SummaryRequest{IDs: []int64{98, 99}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
}

func TestHandleSummarize_OmitsEmptyCitations(t *testing.T) {
	ms := newMockStore()
	seedStore(ms)
	ms.pubs[3] = &model.Publication{ID: 3, Title: "Plant growth aboard the ISS", Abstract: "Arabidopsis roots reorient."}
	s := newTestServer(ms, nil)

	w := doRequest(t, s, http.MethodPost, "/v1/summarize", model.SummaryRequest{IDs: []int64{1, 3}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBody[model.SummaryResponse](t, w)
	if len(resp.Titles) != 2 {
		t.Fatalf("titles = %v", resp.Titles)
	}
	if len(resp.Citations) != 1 || resp.Citations[0] != "https://example.org/1" {
		t.Fatalf("citations = %v", resp.Citations)
	}
}

func TestHandleSummarize_Validation(t *testing.T) {
	s := newTestServer(newMockStore(), nil)

	for _, tc := range []struct {
		name string
		req  model.SummaryRequest
	}{
		{"NoIDs", model.SummaryRequest{}},
		{"BadPersona", model.SummaryRequest{IDs: []int64{1}, Persona: "chef"}},
		{"BadSection", model.SummaryRequest{IDs: []int64{1}, SectionPriority: "appendix"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodPost, "/v1/summarize", tc.req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
		})
	}
}

func TestHandleSummarize_FallbackWithoutKey(t *testing.T) {
	ms := newMockStore()
	seedStore(ms)
	s := newTestServer(ms, llm.DisabledClient{})

	w := doRequest(t, s, http.MethodPost, "/v1/summarize", model.SummaryRequest{IDs: []int64{1}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decodeBody[model.SummaryResponse](t, w)
	if resp.Summary != llm.DisabledMessage {
		t.Fatalf("summary = %q", resp.Summary)
	}
	// Citations and titles still populated for the fallback response.
	if len(resp.Citations) != 1 || len(resp.Titles) != 1 {
		t.Fatalf("citations=%v titles=%v", resp.Citations, resp.Titles)
	}
}

func TestHandleSummarize_UpstreamFailure(t *testing.T) {
	ms := newMockStore()
	seedStore(ms)
	s := newTestServer(ms, &fakeLLM{err: errors.New("rate limited")})

	w := doRequest(t, s, http.MethodPost, "/v1/summarize", model.SummaryRequest{IDs: []int64{1}})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestHandleQA(t *testing.T) {
	ms := newMockStore()
	seedStore(ms)
	fake := &fakeLLM{response: "The mice adapted [ID 1]."}
	s := newTestServer(ms, fake)

	w := doRequest(t, s, http.MethodPost, "/v1/qa", model.QARequest{
		ID: 1, Question: "How did the mice adapt?", Persona: model.PersonaManager,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBody[model.QAResponse](t, w)
	if resp.Answer != "The mice adapted [ID 1]." {
		t.Fatalf("answer = %q", resp.Answer)
	}
	if len(resp.Citations) != 1 || resp.Citations[0] != "https://example.org/1" {
		t.Fatalf("citations = %v", resp.Citations)
	}
	if !strings.Contains(fake.lastPrompt, "Question: How did the mice adapt?") {
		t.Fatalf("prompt = %q", fake.lastPrompt)
	}
}

func TestHandleQA_Validation(t *testing.T) {
	s := newTestServer(newMockStore(), nil)

	for _, tc := range []struct {
		name string
		req  model.QARequest
	}{
		{"NoID", model.QARequest{Question: "q"}},
		{"NoQuestion", model.QARequest{ID: 1}},
		{"BadPersona", model.QARequest{ID: 1, Question: "q", Persona: "chef"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodPost, "/v1/qa", tc.req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
		})
	}
}

func TestHandleQA_NotFound(t *testing.T) {
	s := newTestServer(newMockStore(), nil)
	w := doRequest(t, s, http.MethodPost, "/v1/qa", model.QARequest{ID: 42, Question: "q"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestHandleKGNodes(t *testing.T) {
	ms := newMockStore()
	seedStore(ms)
	s := newTestServer(ms, nil)

	w := doRequest(t, s, http.MethodGet, "/v1/kg/nodes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	nodes := decodeBody[[]*model.Node](t, w)
	if len(nodes) != 3 {
		t.Fatalf("nodes = %d", len(nodes))
	}
}

func TestHandleKGEdges(t *testing.T) {
	ms := newMockStore()
	seedStore(ms)
	s := newTestServer(ms, nil)

	w := doRequest(t, s, http.MethodGet, "/v1/kg/edges", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	edges := decodeBody[[]*model.Edge](t, w)
	if len(edges) != 2 {
		t.Fatalf("edges = %d", len(edges))
	}
}

func TestHandleKGNodes_EmptyIsNotNull(t *testing.T) {
	s := newTestServer(newMockStore(), nil)
	w := doRequest(t, s, http.MethodGet, "/v1/kg/nodes", nil)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("expected [], got %s", w.Body.String())
	}
}

func TestHandleKGStats(t *testing.T) {
	ms := newMockStore()
	seedStore(ms)
	s := newTestServer(ms, nil)

	w := doRequest(t, s, http.MethodGet, "/v1/kg/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	stats := decodeBody[model.GraphStats](t, w)
	if stats.NodeCount != 3 || stats.EdgeCount != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.NodeTypes["article"] != 1 || stats.EdgeRelations["DESCRIBES"] != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestHandleYearCounts(t *testing.T) {
	ms := newMockStore()
	seedStore(ms)
	s := newTestServer(ms, nil)

	w := doRequest(t, s, http.MethodGet, "/v1/kg/year_counts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody[struct {
		Data map[string]int `json:"data"`
	}](t, w)
	if body.Data["2014"] != 1 || body.Data["2016"] != 1 {
		t.Fatalf("data = %v", body.Data)
	}
}

func TestHandleGraph(t *testing.T) {
	ms := newMockStore()
	seedStore(ms)
	s := newTestServer(ms, nil)

	w := doRequest(t, s, http.MethodGet, "/v1/graph", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decodeBody[model.GraphResponse](t, w)
	if len(resp.Nodes) != 3 || len(resp.Edges) != 2 {
		t.Fatalf("nodes=%d edges=%d", len(resp.Nodes), len(resp.Edges))
	}
	if resp.Stats == nil || resp.Stats.NodeCount != 3 {
		t.Fatalf("stats = %+v", resp.Stats)
	}
}

func TestHandleGraph_LimitTrimsEdges(t *testing.T) {
	ms := newMockStore()
	seedStore(ms)
	s := newTestServer(ms, nil)

	w := doRequest(t, s, http.MethodGet, "/v1/graph?limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decodeBody[model.GraphResponse](t, w)
	if len(resp.Nodes) != 2 {
		t.Fatalf("nodes = %d", len(resp.Nodes))
	}
	// Only article_1 -> experiment_1 survives; the OBSERVES edge lost its target.
	if len(resp.Edges) != 1 || resp.Edges[0].Relation != model.RelationDescribes {
		t.Fatalf("edges = %+v", resp.Edges)
	}
	// Stats still describe the full graph.
	if resp.Stats.NodeCount != 3 {
		t.Fatalf("stats = %+v", resp.Stats)
	}
}

func TestHandleGraph_BadLimit(t *testing.T) {
	s := newTestServer(newMockStore(), nil)
	w := doRequest(t, s, http.MethodGet, "/v1/graph?limit=-1", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestStoreErrorsSurfaceAs500(t *testing.T) {
	ms := newMockStore()
	ms.listErr = errors.New("connection refused")
	s := newTestServer(ms, nil)

	for _, path := range []string{"/v1/publications", "/v1/search?q=x", "/v1/kg/nodes", "/v1/kg/edges", "/v1/kg/stats", "/v1/graph"} {
		w := doRequest(t, s, http.MethodGet, path, nil)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s: status = %d", path, w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] == "" {
			t.Errorf("%s: expected error body, got %s", path, w.Body.String())
		}
	}
}
