package model

import "encoding/json"

// NodeType classifies knowledge-graph nodes. The type drives styling in the
// viewer; new types are extensible, unknown ones fall into NodeTypeUnknown
// when aggregated.
type NodeType string

const (
	NodeTypeArticle    NodeType = "article"
	NodeTypeExperiment NodeType = "experiment"
	NodeTypeProject    NodeType = "project"
	NodeTypeBioSystem  NodeType = "biological_system"
	NodeTypeEffect     NodeType = "effect"
	NodeTypeUnknown    NodeType = "unknown"
)

// String returns the string representation of the node type.
func (t NodeType) String() string {
	return string(t)
}

// Edge relations produced by the graph builder.
const (
	RelationDescribes = "DESCRIBES" // article -> experiment
	RelationFunds     = "FUNDS"     // project -> article
	RelationInvolves  = "INVOLVES"  // experiment -> biological system
	RelationObserves  = "OBSERVES"  // experiment -> effect
	RelationDefault   = "related_to"
)

// Node is a knowledge-graph entity as served to the viewer.
type Node struct {
	ID         string          `json:"id"`
	Type       NodeType        `json:"type"`
	Label      string          `json:"label"`
	Properties json.RawMessage `json:"properties,omitempty"`
}

// Edge is a directed relation between two nodes. Endpoint existence is taken
// on trust from the builder; the store does not enforce it.
type Edge struct {
	Source     string          `json:"source"`
	Target     string          `json:"target"`
	Relation   string          `json:"relation"`
	Properties json.RawMessage `json:"properties,omitempty"`
}

// GraphStats aggregates node and edge counts by type and relation.
type GraphStats struct {
	NodeCount     int            `json:"node_count"`
	EdgeCount     int            `json:"edge_count"`
	NodeTypes     map[string]int `json:"node_types"`
	EdgeRelations map[string]int `json:"edge_relations"`
}

// GraphResponse is the combined payload for the graph viewer endpoint.
type GraphResponse struct {
	Nodes []*Node     `json:"nodes"`
	Edges []*Edge     `json:"edges"`
	Stats *GraphStats `json:"stats"`
}

// YearCounts is the publications-per-year histogram. Integer keys marshal as
// JSON object keys, matching what the dashboard chart expects.
type YearCounts struct {
	Data map[int]int `json:"data"`
}
