// Package search implements the corpus ranking heuristic: plain substring
// matching weighted by field, with a length penalty so short precise titles
// outrank long ones that merely mention a term.
package search

import (
	"math"
	"sort"
	"strings"

	"github.com/RiosenBeq/NASA/internal/model"
)

const (
	titleWeight    = 2.0
	abstractWeight = 1.0
	keywordWeight  = 1.0

	// SnippetWidth is the maximum snippet length in runes.
	SnippetWidth = 220
)

// Terms splits a query into lowercase search terms.
func Terms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ",.()[]{}:;!?\"'")
		if f != "" {
			terms = append(terms, f)
		}
	}
	return terms
}

// Score computes the relevance of a publication for the given query terms.
// Title hits count double, abstract and keyword hits count once, and the
// total is damped by the title length so padding does not win.
func Score(terms []string, p *model.Publication) float64 {
	if len(terms) == 0 || p == nil {
		return 0
	}

	title := strings.ToLower(p.Title)
	abstract := strings.ToLower(p.Abstract)

	var raw float64
	for _, term := range terms {
		if strings.Contains(title, term) {
			raw += titleWeight
		}
		if abstract != "" && strings.Contains(abstract, term) {
			raw += abstractWeight
		}
		for _, kw := range p.Keywords {
			if strings.Contains(strings.ToLower(kw), term) {
				raw += keywordWeight
				break
			}
		}
	}
	if raw == 0 {
		return 0
	}

	// Length penalty: log-damped by title length so a 200-char title needs
	// more hits than a 40-char one to reach the same score.
	return raw / math.Log2(float64(len(title))+2)
}

// Rank scores all publications against the query and returns the top k hits
// in descending score order. Publications with zero score are dropped.
func Rank(query string, pubs []*model.Publication, k int) []*model.SearchResult {
	terms := Terms(query)
	results := make([]*model.SearchResult, 0, len(pubs))
	for _, p := range pubs {
		score := Score(terms, p)
		if score == 0 {
			continue
		}
		results = append(results, &model.SearchResult{
			ID:      p.ID,
			Title:   p.Title,
			URL:     p.URL,
			Score:   score,
			Snippet: Snippet(p.Abstract, terms),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results
}

// Snippet extracts a window of text around the first term hit in the
// abstract, falling back to the abstract prefix when no term matches.
func Snippet(abstract string, terms []string) string {
	if abstract == "" {
		return ""
	}

	lower := strings.ToLower(abstract)
	start := 0
	for _, term := range terms {
		if idx := strings.Index(lower, term); idx >= 0 {
			start = idx
			break
		}
	}

	// Back up a little context, then snap to a rune boundary.
	if start > 40 {
		start -= 40
	} else {
		start = 0
	}
	for start > 0 && !isRuneStart(abstract[start]) {
		start--
	}

	runes := []rune(abstract[start:])
	if len(runes) <= SnippetWidth {
		return strings.TrimSpace(string(runes))
	}
	return strings.TrimSpace(string(runes[:SnippetWidth])) + "…"
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
