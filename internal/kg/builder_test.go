package kg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RiosenBeq/NASA/internal/model"
)

func intPtr(n int) *int { return &n }

func TestBuildExtractsTypedNodes(t *testing.T) {
	pubs := []*model.Publication{
		{
			ID:       1,
			Title:    "Bone loss in mice during spaceflight",
			Abstract: "An ISS experiment observing bone density changes in rodent tissue.",
			Year:     intPtr(2014),
		},
	}

	nodes, edges := NewBuilder(DefaultTerms()).Build(pubs)

	byType := make(map[model.NodeType][]*model.Node)
	for _, n := range nodes {
		byType[n.Type] = append(byType[n.Type], n)
	}

	if len(byType[model.NodeTypeArticle]) != 1 {
		t.Fatalf("article nodes = %d, want 1", len(byType[model.NodeTypeArticle]))
	}
	if got := byType[model.NodeTypeArticle][0].Label; got != "Bone loss in mice during spaceflight" {
		t.Errorf("article label = %q", got)
	}
	if len(byType[model.NodeTypeExperiment]) == 0 {
		t.Error("expected experiment nodes (iss, spaceflight, experiment)")
	}
	if len(byType[model.NodeTypeBioSystem]) == 0 {
		t.Error("expected biological system nodes (mice, rodent, tissue)")
	}
	if len(byType[model.NodeTypeEffect]) == 0 {
		t.Error("expected effect nodes (bone loss, bone density)")
	}

	relations := make(map[string]int)
	for _, e := range edges {
		relations[e.Relation]++
	}
	if relations[model.RelationDescribes] == 0 {
		t.Error("expected DESCRIBES edges from article to experiments")
	}
	if relations[model.RelationInvolves] == 0 {
		t.Error("expected INVOLVES edges from experiments to systems")
	}
	if relations[model.RelationObserves] == 0 {
		t.Error("expected OBSERVES edges from experiments to effects")
	}
}

func TestBuildDeduplicatesAcrossPublications(t *testing.T) {
	pubs := []*model.Publication{
		{ID: 1, Title: "Mice aboard the ISS"},
		{ID: 2, Title: "More mice aboard the ISS"},
	}

	nodes, _ := NewBuilder(DefaultTerms()).Build(pubs)

	seen := make(map[string]int)
	for _, n := range nodes {
		seen[string(n.Type)+"|"+n.Label]++
	}
	for key, count := range seen {
		if count > 1 {
			t.Errorf("node %q created %d times, want 1", key, count)
		}
	}
}

func TestBuildDeterministicIDs(t *testing.T) {
	pubs := []*model.Publication{
		{ID: 1, Title: "Radiation exposure study in yeast cells"},
	}

	first, _ := NewBuilder(DefaultTerms()).Build(pubs)
	second, _ := NewBuilder(DefaultTerms()).Build(pubs)

	if len(first) != len(second) {
		t.Fatalf("node counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Label != second[i].Label {
			t.Errorf("node %d differs between builds: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestNormalizeLabel(t *testing.T) {
	if got := NormalizeLabel("  a\t\nmessy   title "); got != "a messy title" {
		t.Errorf("NormalizeLabel = %q", got)
	}
	long := strings.Repeat("x", 400)
	if got := NormalizeLabel(long); len(got) != 300 {
		t.Errorf("long label capped to %d runes, want 300", len(got))
	}
}

func TestStatsDefaults(t *testing.T) {
	nodes := []*model.Node{
		{ID: "a", Type: model.NodeTypeArticle},
		{ID: "b"}, // untyped
	}
	edges := []*model.Edge{
		{Source: "a", Target: "b", Relation: model.RelationDescribes},
		{Source: "b", Target: "a"}, // no relation
	}

	stats := Stats(nodes, edges)
	if stats.NodeCount != 2 || stats.EdgeCount != 2 {
		t.Errorf("counts = (%d, %d), want (2, 2)", stats.NodeCount, stats.EdgeCount)
	}
	if stats.NodeTypes["unknown"] != 1 {
		t.Errorf("untyped node should count as unknown: %v", stats.NodeTypes)
	}
	if stats.EdgeRelations[model.RelationDefault] != 1 {
		t.Errorf("relation-less edge should count as related_to: %v", stats.EdgeRelations)
	}
}

func TestLoadTerms(t *testing.T) {
	// Empty path and missing file both fall back to defaults.
	def, err := LoadTerms("")
	if err != nil {
		t.Fatalf("LoadTerms(\"\"): %v", err)
	}
	if len(def.Effects) == 0 {
		t.Fatal("default terms should not be empty")
	}

	missing, err := LoadTerms(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadTerms(missing): %v", err)
	}
	if len(missing.Effects) != len(def.Effects) {
		t.Error("missing file should fall back to defaults")
	}

	// Present lists replace defaults, absent lists keep them.
	path := filepath.Join(t.TempDir(), "terms.toml")
	if err := os.WriteFile(path, []byte("effects = [\"tardigrade dormancy\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadTerms(path)
	if err != nil {
		t.Fatalf("LoadTerms: %v", err)
	}
	if len(loaded.Effects) != 1 || loaded.Effects[0] != "tardigrade dormancy" {
		t.Errorf("effects = %v, want the override", loaded.Effects)
	}
	if len(loaded.BioSystems) != len(def.BioSystems) {
		t.Error("bio_systems should keep defaults when absent from the file")
	}
}
