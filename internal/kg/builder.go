// Package kg builds the knowledge graph served to the dashboard viewer:
// typed nodes extracted from publication text via term dictionaries, and the
// relations between them.
package kg

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/RiosenBeq/NASA/internal/model"
)

// maxLabelLen caps node labels so pathological titles don't blow up the
// viewer.
const maxLabelLen = 300

var whitespaceRe = regexp.MustCompile(`\s+`)

// Builder extracts a graph from publications using term dictionaries.
type Builder struct {
	terms Terms

	nodes []*model.Node
	edges []*model.Edge
	index map[nodeKey]string // (type, label) -> node id
}

type nodeKey struct {
	typ   model.NodeType
	label string
}

// NewBuilder returns a Builder using the given dictionaries.
func NewBuilder(terms Terms) *Builder {
	return &Builder{
		terms: terms,
		index: make(map[nodeKey]string),
	}
}

// Build extracts nodes and edges from the publications. Node ids are
// deterministic (`<type>_<n>` in insertion order) so repeated builds over the
// same corpus produce the same graph.
func (b *Builder) Build(pubs []*model.Publication) ([]*model.Node, []*model.Edge) {
	for _, p := range pubs {
		b.addPublication(p)
	}
	if b.nodes == nil {
		b.nodes = []*model.Node{}
	}
	if b.edges == nil {
		b.edges = []*model.Edge{}
	}
	return b.nodes, b.edges
}

func (b *Builder) addPublication(p *model.Publication) {
	label := NormalizeLabel(p.Title)
	if label == "" {
		label = fmt.Sprintf("Article %d", p.ID)
	}

	props, _ := json.Marshal(map[string]any{
		"publication_id": p.ID,
		"url":            p.URL,
	})
	articleID := b.addNode(model.NodeTypeArticle, label, props)

	text := publicationText(p)

	experiments := matchTerms(text, b.terms.Experiments)
	bioSystems := matchTerms(text, b.terms.BioSystems)
	effects := matchTerms(text, b.terms.Effects)
	projects := matchTerms(text, b.terms.Projects)

	var expIDs []string
	for _, term := range experiments {
		id := b.addNode(model.NodeTypeExperiment, NormalizeLabel(term), nil)
		b.addEdge(articleID, id, model.RelationDescribes)
		expIDs = append(expIDs, id)
	}

	var bioIDs []string
	for _, term := range bioSystems {
		bioIDs = append(bioIDs, b.addNode(model.NodeTypeBioSystem, NormalizeLabel(term), nil))
	}

	var effIDs []string
	for _, term := range effects {
		effIDs = append(effIDs, b.addNode(model.NodeTypeEffect, NormalizeLabel(term), nil))
	}

	for _, term := range projects {
		id := b.addNode(model.NodeTypeProject, NormalizeLabel(term), nil)
		b.addEdge(id, articleID, model.RelationFunds)
	}

	// Experiments relate many-to-many to the systems and effects mentioned
	// alongside them.
	for _, eid := range expIDs {
		for _, bid := range bioIDs {
			b.addEdge(eid, bid, model.RelationInvolves)
		}
		for _, fid := range effIDs {
			b.addEdge(eid, fid, model.RelationObserves)
		}
	}
}

func (b *Builder) addNode(typ model.NodeType, label string, props json.RawMessage) string {
	key := nodeKey{typ: typ, label: label}
	if id, ok := b.index[key]; ok {
		return id
	}
	id := fmt.Sprintf("%s_%d", typ, len(b.nodes)+1)
	b.nodes = append(b.nodes, &model.Node{
		ID:         id,
		Type:       typ,
		Label:      label,
		Properties: props,
	})
	b.index[key] = id
	return id
}

func (b *Builder) addEdge(source, target, relation string) {
	b.edges = append(b.edges, &model.Edge{
		Source:   source,
		Target:   target,
		Relation: relation,
	})
}

// publicationText concatenates the searchable text of a publication.
func publicationText(p *model.Publication) string {
	parts := make([]string, 0, 3)
	if p.Title != "" {
		parts = append(parts, p.Title)
	}
	if p.Abstract != "" {
		parts = append(parts, p.Abstract)
	}
	if len(p.Keywords) > 0 {
		parts = append(parts, strings.Join(p.Keywords, " "))
	}
	return strings.ToLower(strings.Join(parts, "\n\n"))
}

// matchTerms returns the dictionary terms appearing in text, sorted for
// deterministic node ordering.
func matchTerms(text string, terms []string) []string {
	var hits []string
	for _, term := range terms {
		if strings.Contains(text, strings.ToLower(term)) {
			hits = append(hits, term)
		}
	}
	sort.Strings(hits)
	return hits
}

// NormalizeLabel collapses whitespace and caps the label length.
func NormalizeLabel(s string) string {
	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	runes := []rune(s)
	if len(runes) > maxLabelLen {
		return string(runes[:maxLabelLen])
	}
	return s
}

// Stats aggregates node and edge counts by type and relation. Nodes without
// a type count as unknown; edges without a relation count as related_to.
func Stats(nodes []*model.Node, edges []*model.Edge) *model.GraphStats {
	stats := &model.GraphStats{
		NodeCount:     len(nodes),
		EdgeCount:     len(edges),
		NodeTypes:     make(map[string]int),
		EdgeRelations: make(map[string]int),
	}
	for _, n := range nodes {
		typ := n.Type
		if typ == "" {
			typ = model.NodeTypeUnknown
		}
		stats.NodeTypes[typ.String()]++
	}
	for _, e := range edges {
		rel := e.Relation
		if rel == "" {
			rel = model.RelationDefault
		}
		stats.EdgeRelations[rel]++
	}
	return stats
}
