package corpus

import (
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	input := "\uFEFFTitle,Year,Link\n" +
		"Bone loss in mice,2014,https://www.ncbi.nlm.nih.gov/pmc/articles/PMC4136787/\n" +
		",2015,https://example.org/skip-me\n" +
		"Plant growth aboard the ISS,,https://example.org/pmid=123456\n"

	pubs, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(pubs) != 2 {
		t.Fatalf("got %d publications, want 2 (empty title skipped)", len(pubs))
	}

	first := pubs[0]
	if first.Title != "Bone loss in mice" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Year == nil || *first.Year != 2014 {
		t.Errorf("year = %v, want 2014", first.Year)
	}
	if first.URL != "https://www.ncbi.nlm.nih.gov/pmc/articles/PMC4136787/" {
		t.Errorf("url = %q", first.URL)
	}
	if first.Source != DefaultSource {
		t.Errorf("source = %q, want %q", first.Source, DefaultSource)
	}

	second := pubs[1]
	if second.Year != nil {
		t.Errorf("blank year should stay nil, got %v", *second.Year)
	}
	if second.PMID != "123456" {
		t.Errorf("pmid backfilled from url = %q, want 123456", second.PMID)
	}
}

func TestExtractIDs(t *testing.T) {
	for _, tc := range []struct {
		url         string
		pmcid, pmid string
	}{
		{"", "", ""},
		{"https://www.ncbi.nlm.nih.gov/pmc/articles/PMC4136787/", "4136787", ""},
		{"https://pubmed.ncbi.nlm.nih.gov/?pmid=987", "", "987"},
		{"https://example.org/PMC22 PMID: 33", "22", "33"},
		{"PMID:44", "", "44"},
	} {
		pmcid, pmid := ExtractIDs(tc.url)
		if pmcid != tc.pmcid || pmid != tc.pmid {
			t.Errorf("ExtractIDs(%q) = (%q, %q), want (%q, %q)", tc.url, pmcid, pmid, tc.pmcid, tc.pmid)
		}
	}
}
