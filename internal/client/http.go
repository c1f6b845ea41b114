package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/RiosenBeq/NASA/internal/model"
)

// HTTPClient implements ExplorerClient using the explorer HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Publications ---

func (c *HTTPClient) Search(ctx context.Context, req *SearchRequest) ([]*model.SearchResult, error) {
	q := url.Values{}
	q.Set("q", req.Query)
	if req.K > 0 {
		q.Set("k", strconv.Itoa(req.K))
	}
	if req.YearMin != nil {
		q.Set("year_min", strconv.Itoa(*req.YearMin))
	}
	if req.YearMax != nil {
		q.Set("year_max", strconv.Itoa(*req.YearMax))
	}

	var resp struct {
		Results []*model.SearchResult `json:"results"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/search?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *HTTPClient) ListPublications(ctx context.Context, req *ListPublicationsRequest) (*ListPublicationsResponse, error) {
	q := url.Values{}
	if req.Search != "" {
		q.Set("search", req.Search)
	}
	if req.YearMin != nil {
		q.Set("year_min", strconv.Itoa(*req.YearMin))
	}
	if req.YearMax != nil {
		q.Set("year_max", strconv.Itoa(*req.YearMax))
	}
	if req.Sort != "" {
		q.Set("sort", req.Sort)
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", strconv.Itoa(req.Offset))
	}

	path := "/v1/publications"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListPublicationsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetPublication(ctx context.Context, id int64) (*model.Publication, error) {
	var pub model.Publication
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/v1/publications/%d", id), nil, &pub); err != nil {
		return nil, err
	}
	return &pub, nil
}

// --- Summarization and Q&A ---

func (c *HTTPClient) Summarize(ctx context.Context, req *model.SummaryRequest) (*model.SummaryResponse, error) {
	var resp model.SummaryResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/summarize", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Ask(ctx context.Context, req *model.QARequest) (*model.QAResponse, error) {
	var resp model.QAResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/qa", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Knowledge graph ---

func (c *HTTPClient) ListNodes(ctx context.Context) ([]*model.Node, error) {
	var nodes []*model.Node
	if err := c.doJSON(ctx, http.MethodGet, "/v1/kg/nodes", nil, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (c *HTTPClient) ListEdges(ctx context.Context) ([]*model.Edge, error) {
	var edges []*model.Edge
	if err := c.doJSON(ctx, http.MethodGet, "/v1/kg/edges", nil, &edges); err != nil {
		return nil, err
	}
	return edges, nil
}

func (c *HTTPClient) GraphStats(ctx context.Context) (*model.GraphStats, error) {
	var stats model.GraphStats
	if err := c.doJSON(ctx, http.MethodGet, "/v1/kg/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *HTTPClient) YearCounts(ctx context.Context) (map[int]int, error) {
	var resp model.YearCounts
	if err := c.doJSON(ctx, http.MethodGet, "/v1/kg/year_counts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *HTTPClient) Graph(ctx context.Context, limit int) (*model.GraphResponse, error) {
	path := "/v1/graph"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var resp model.GraphResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
