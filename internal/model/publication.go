package model

import "time"

// Publication is the core corpus record: one row of the space-bioscience
// publications CSV, enriched by the ETL (abstract, keywords, backfilled year).
type Publication struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Year      *int      `json:"year,omitempty"`
	DOI       string    `json:"doi,omitempty"`
	PMID      string    `json:"pmid,omitempty"`
	URL       string    `json:"url,omitempty"`
	Source    string    `json:"source,omitempty"`
	Abstract  string    `json:"abstract,omitempty"`
	Keywords  []string  `json:"keywords,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicationFilter narrows ListPublications results.
type PublicationFilter struct {
	Search  string // substring match on title/abstract
	YearMin *int
	YearMax *int
	Sort    string // column name, "-" prefix for descending
	Limit   int
	Offset  int
}

// SearchResult is a single ranked hit returned by the search endpoint.
type SearchResult struct {
	ID      int64   `json:"id"`
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet,omitempty"`
}

// Persona biases summarization prompts toward a reader profile.
type Persona string

const (
	PersonaScientist Persona = "scientist"
	PersonaManager   Persona = "manager"
	PersonaArchitect Persona = "architect"
)

// IsValid reports whether the persona is a known value. Empty is valid and
// means "no persona bias".
func (p Persona) IsValid() bool {
	switch p {
	case "", PersonaScientist, PersonaManager, PersonaArchitect:
		return true
	}
	return false
}

// SectionPriority selects which part of a study a summary should prefer.
type SectionPriority string

const (
	SectionResults    SectionPriority = "results"
	SectionDiscussion SectionPriority = "discussion"
	SectionConclusion SectionPriority = "conclusion"
)

// IsValid reports whether the section priority is a known value.
// Empty is valid and selects the results-first default.
func (s SectionPriority) IsValid() bool {
	switch s {
	case "", SectionResults, SectionDiscussion, SectionConclusion:
		return true
	}
	return false
}

// SummaryRequest asks for a cross-publication summary.
type SummaryRequest struct {
	IDs             []int64         `json:"ids"`
	Persona         Persona         `json:"persona,omitempty"`
	SectionPriority SectionPriority `json:"section_priority,omitempty"`
}

// SummaryResponse carries the generated summary with its sources.
type SummaryResponse struct {
	Summary   string   `json:"summary"`
	Citations []string `json:"citations"`
	Titles    []string `json:"titles"`
}

// QARequest asks a question about a single publication.
type QARequest struct {
	ID       int64   `json:"id"`
	Question string  `json:"question"`
	Persona  Persona `json:"persona,omitempty"`
}

// QAResponse carries the generated answer with its sources.
type QAResponse struct {
	Answer    string   `json:"answer"`
	Citations []string `json:"citations"`
}
