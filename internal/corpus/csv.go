// Package corpus reads the space-bioscience publications corpus: a CSV of
// publication titles and PubMed Central links maintained upstream.
package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/RiosenBeq/NASA/internal/model"
)

// DefaultSource identifies rows ingested from the upstream corpus CSV.
const DefaultSource = "SB_publications"

var (
	pmcRe  = regexp.MustCompile(`PMC(\d+)`)
	pmidRe = regexp.MustCompile(`(?i)(?:PMID:?\s*|pmid=)(\d+)`)
)

// ReadCSV parses publications from the corpus CSV. Headers are matched
// case-insensitively and a UTF-8 BOM on the first header is stripped; rows
// with an empty title are skipped.
func ReadCSV(r io.Reader) ([]*model.Publication, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[cleanKey(h)] = i
	}

	col := func(record []string, keys ...string) string {
		for _, k := range keys {
			if i, ok := idx[k]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
		}
		return ""
	}

	var pubs []*model.Publication
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		title := col(record, "title")
		if title == "" {
			continue
		}

		p := &model.Publication{
			Title:  title,
			DOI:    col(record, "doi"),
			PMID:   col(record, "pmid"),
			URL:    col(record, "url", "link"),
			Source: DefaultSource,
		}
		if y := col(record, "year", "published year", "publicationyear"); y != "" {
			if n, err := strconv.Atoi(y); err == nil {
				p.Year = &n
			}
		}
		if p.PMID == "" {
			_, p.PMID = ExtractIDs(p.URL)
		}
		pubs = append(pubs, p)
	}
	return pubs, nil
}

// ReadFile parses publications from the CSV at path.
func ReadFile(path string) ([]*model.Publication, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ExtractIDs pulls the PMC id and PMID out of a publication URL, either of
// which may be empty.
func ExtractIDs(url string) (pmcid, pmid string) {
	if url == "" {
		return "", ""
	}
	if m := pmcRe.FindStringSubmatch(url); m != nil {
		pmcid = m[1]
	}
	if m := pmidRe.FindStringSubmatch(url); m != nil {
		pmid = m[1]
	}
	return pmcid, pmid
}

// cleanKey normalizes a CSV header for lookup: BOM stripped, trimmed,
// lowercased.
func cleanKey(k string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(k, "\uFEFF")))
}
