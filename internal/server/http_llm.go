package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/RiosenBeq/NASA/internal/events"
	"github.com/RiosenBeq/NASA/internal/llm"
	"github.com/RiosenBeq/NASA/internal/model"
	"github.com/RiosenBeq/NASA/internal/store"
)

// maxSummarizeIDs caps how many publications a single summary may cover.
const maxSummarizeIDs = 20

// handleSummarize handles POST /v1/summarize.
func (s *ExplorerServer) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req model.SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validateSummaryRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	docs, citations, titles, err := s.collectDocuments(r.Context(), req.IDs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load publications")
		return
	}
	if len(docs) == 0 {
		writeError(w, http.StatusBadRequest, "no matching publications")
		return
	}

	prompt := llm.SummaryPrompt(docs, req.Persona, req.SectionPriority)
	summary, err := s.llm.Complete(r.Context(), prompt)
	if err != nil {
		s.logger.Warn("summarize completion failed", "ids", req.IDs, "error", err)
		writeError(w, http.StatusBadGateway, "summarization backend unavailable")
		return
	}

	s.publish(r.Context(), events.TopicSummaryGenerated, events.SummaryGenerated{
		IDs:     req.IDs,
		Persona: req.Persona,
	})

	writeJSON(w, http.StatusOK, model.SummaryResponse{
		Summary:   summary,
		Citations: citations,
		Titles:    titles,
	})
}

// handleQA handles POST /v1/qa.
func (s *ExplorerServer) handleQA(w http.ResponseWriter, r *http.Request) {
	var req model.QARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ID == 0 {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if !req.Persona.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid persona")
		return
	}

	pub, err := s.store.GetPublication(r.Context(), req.ID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "publication not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get publication")
		return
	}

	doc := llm.Document{ID: pub.ID, Title: pub.Title, Abstract: pub.Abstract, URL: pub.URL}
	answer, err := s.llm.Complete(r.Context(), llm.QAPrompt(doc, req.Question, req.Persona))
	if err != nil {
		s.logger.Warn("qa completion failed", "id", req.ID, "error", err)
		writeError(w, http.StatusBadGateway, "answering backend unavailable")
		return
	}

	s.publish(r.Context(), events.TopicQAAnswered, events.QAAnswered{
		ID:       req.ID,
		Question: req.Question,
		Persona:  req.Persona,
	})

	citations := []string{}
	if pub.URL != "" {
		citations = append(citations, pub.URL)
	}
	writeJSON(w, http.StatusOK, model.QAResponse{Answer: answer, Citations: citations})
}

func validateSummaryRequest(req *model.SummaryRequest) error {
	if len(req.IDs) == 0 {
		return inputError("ids is required")
	}
	if len(req.IDs) > maxSummarizeIDs {
		return inputError("too many ids")
	}
	if !req.Persona.IsValid() {
		return inputError("invalid persona")
	}
	if !req.SectionPriority.IsValid() {
		return inputError("invalid section_priority")
	}
	return nil
}

// collectDocuments loads the requested publications, skipping ids that do not
// exist, and returns the prompt documents alongside citations and titles.
func (s *ExplorerServer) collectDocuments(ctx context.Context, ids []int64) ([]llm.Document, []string, []string, error) {
	docs := make([]llm.Document, 0, len(ids))
	citations := []string{}
	titles := []string{}
	for _, id := range ids {
		pub, err := s.store.GetPublication(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, nil, nil, err
		}
		docs = append(docs, llm.Document{ID: pub.ID, Title: pub.Title, Abstract: pub.Abstract, URL: pub.URL})
		if pub.URL != "" {
			citations = append(citations, pub.URL)
		}
		titles = append(titles, pub.Title)
	}
	return docs, citations, titles, nil
}
