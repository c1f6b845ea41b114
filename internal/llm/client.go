// Package llm provides completion clients for the summarization and Q&A
// endpoints, backed by any OpenAI-compatible chat completions API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o-mini"

// DefaultBaseURL targets the OpenAI API; point it elsewhere for compatible
// providers.
const DefaultBaseURL = "https://api.openai.com/v1"

// DisabledMessage is returned for summarize and Q&A requests when no API key
// is configured.
const DisabledMessage = "Language model is not configured; set an API key to enable summaries and Q&A."

// Client produces completions for a prompt.
type Client interface {
	// Complete sends the prompt and returns the model's text response.
	Complete(ctx context.Context, prompt string) (string, error)
	// Enabled reports whether completions are backed by a real model.
	Enabled() bool
}

// ChatClient talks to an OpenAI-compatible /chat/completions endpoint. Calls
// run through a circuit breaker so a failing upstream degrades fast instead
// of stalling every request.
type ChatClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewChatClient creates a chat completion client. Empty baseURL and model
// fall back to the OpenAI defaults.
func NewChatClient(baseURL, apiKey, model string, logger *slog.Logger) *ChatClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("llm circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &ChatClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		breaker:    breaker,
		logger:     logger,
	}
}

func (c *ChatClient) Enabled() bool { return true }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		return c.complete(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *ChatClient) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("performing chat request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading chat response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if resp.StatusCode >= 400 {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("chat completion failed: HTTP %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("chat completion failed: HTTP %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// DisabledClient answers every completion with a fixed notice. Used when no
// API key is configured so the endpoints stay functional.
type DisabledClient struct{}

func (DisabledClient) Complete(ctx context.Context, prompt string) (string, error) {
	return DisabledMessage, nil
}

func (DisabledClient) Enabled() bool { return false }
