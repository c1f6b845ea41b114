package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RiosenBeq/NASA/internal/model"
)

func TestSummaryPrompt(t *testing.T) {
	docs := []Document{
		{ID: 1, Title: "Mice in Bion-M 1", Abstract: "Mice flew for 30 days.", URL: "https://example.org/1"},
		{ID: 2, Title: "Bone loss study", Abstract: "Bone density decreased.", URL: "https://example.org/2"},
	}
	prompt := SummaryPrompt(docs, model.PersonaScientist, model.SectionResults)

	for _, want := range []string{
		"Emphasize hypotheses, methods, result robustness",
		"Prefer Results over other sections.",
		"[ID 1] Title: Mice in Bion-M 1",
		"[ID 2] Title: Bone loss study",
		"- Main Results:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSummaryPrompt_Defaults(t *testing.T) {
	prompt := SummaryPrompt(nil, "", "")
	if !strings.Contains(prompt, "Prefer Results over Discussion/Conclusion.") {
		t.Error("expected default section note")
	}
	if strings.Contains(prompt, "Emphasize") {
		t.Error("expected no persona note for empty persona")
	}
}

func TestQAPrompt(t *testing.T) {
	doc := Document{ID: 7, Title: "Plant growth", Abstract: "Roots reoriented.", URL: "https://example.org/7"}
	prompt := QAPrompt(doc, "How did the roots respond?", model.PersonaManager)

	for _, want := range []string{
		"Answer with impact, opportunity, and risk",
		"citations like [ID 7]",
		"Study [ID 7]",
		"Question: How did the roots respond?",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestQAPrompt_DefaultPersona(t *testing.T) {
	prompt := QAPrompt(Document{ID: 1}, "q", "")
	if !strings.Contains(prompt, "Provide concise, factual, cited answers.") {
		t.Error("expected default persona note")
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestChatClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "test-model" || len(req.Messages) != 1 {
			t.Errorf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "- Objective: testing."}},
			},
		})
	}))
	defer srv.Close()

	c := NewChatClient(srv.URL, "test-key", "test-model", newTestLogger())
	if !c.Enabled() {
		t.Fatal("expected chat client to be enabled")
	}
	got, err := c.Complete(context.Background(), "summarize this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "- Objective: testing." {
		t.Fatalf("got %q", got)
	}
}

func TestChatClientComplete_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limited"},
		})
	}))
	defer srv.Close()

	c := NewChatClient(srv.URL, "test-key", "", newTestLogger())
	_, err := c.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected upstream message in error, got %v", err)
	}
}

func TestDisabledClient(t *testing.T) {
	c := DisabledClient{}
	if c.Enabled() {
		t.Fatal("expected disabled client to report not enabled")
	}
	got, err := c.Complete(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != DisabledMessage {
		t.Fatalf("got %q", got)
	}
}
