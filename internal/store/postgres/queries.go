package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/RiosenBeq/NASA/internal/model"
	"github.com/RiosenBeq/NASA/internal/search"
	"github.com/RiosenBeq/NASA/internal/store"
)

// pubColumns is the column list used for SELECT statements on publications,
// joined with the abstracts table.
const pubColumns = `p.id, p.title, p.year, p.doi, p.pmid, p.url, p.source, p.keywords, COALESCE(a.abstract_text, ''), p.created_at, p.updated_at`

const pubFrom = ` FROM publications p LEFT JOIN abstracts a ON a.publication_id = p.id`

// searchCandidateLimit caps the number of rows pulled out of the database
// for in-process ranking.
const searchCandidateLimit = 500

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryUpsertPublication(ctx context.Context, db executor, p *model.Publication) error {
	if p.URL != "" {
		return db.QueryRowContext(ctx, `
			INSERT INTO publications (title, year, doi, pmid, url, source, keywords)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (url) WHERE url <> '' DO UPDATE SET
				title = EXCLUDED.title,
				year = COALESCE(EXCLUDED.year, publications.year),
				doi = EXCLUDED.doi,
				pmid = EXCLUDED.pmid,
				source = EXCLUDED.source,
				keywords = EXCLUDED.keywords,
				updated_at = NOW()
			RETURNING id, created_at, updated_at`,
			p.Title,
			nullIntPtr(p.Year),
			p.DOI,
			p.PMID,
			p.URL,
			p.Source,
			pq.Array(p.Keywords),
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	}

	return db.QueryRowContext(ctx, `
		INSERT INTO publications (title, year, doi, pmid, url, source, keywords)
		VALUES ($1, $2, $3, $4, '', $5, $6)
		RETURNING id, created_at, updated_at`,
		p.Title,
		nullIntPtr(p.Year),
		p.DOI,
		p.PMID,
		p.Source,
		pq.Array(p.Keywords),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func queryGetPublication(ctx context.Context, db executor, id int64) (*model.Publication, error) {
	row := db.QueryRowContext(ctx, `SELECT `+pubColumns+pubFrom+` WHERE p.id = $1`, id)
	p, err := scanPublication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return p, err
}

func queryListPublications(ctx context.Context, db executor, filter model.PublicationFilter) ([]*model.Publication, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.Search != "" {
		p := nextArg()
		whereClauses = append(whereClauses,
			fmt.Sprintf("(p.title ILIKE '%%' || %s || '%%' OR a.abstract_text ILIKE '%%' || %s || '%%')", p, p))
		args = append(args, filter.Search)
	}
	if filter.YearMin != nil {
		whereClauses = append(whereClauses, "p.year >= "+nextArg())
		args = append(args, *filter.YearMin)
	}
	if filter.YearMax != nil {
		whereClauses = append(whereClauses, "p.year <= "+nextArg())
		args = append(args, *filter.YearMax)
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Single query with COUNT(*) OVER() to get total and rows atomically.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + pubColumns + pubFrom + whereSQL +
		" ORDER BY " + parseSortClause(filter.Sort)

	if filter.Limit > 0 {
		dataQuery += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		dataQuery += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list publications: %w", err)
	}
	defer rows.Close()

	var pubs []*model.Publication
	var total int
	for rows.Next() {
		p, t, err := scanPublicationWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan publications: %w", err)
		}
		total = t
		pubs = append(pubs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan publications: %w", err)
	}

	return pubs, total, nil
}

// querySearchPublications prefilters candidates in SQL with ILIKE, then ranks
// them in process with the heuristic scorer.
func querySearchPublications(ctx context.Context, db executor, query string, k int, filter model.PublicationFilter) ([]*model.SearchResult, error) {
	terms := search.Terms(query)
	if len(terms) == 0 {
		return []*model.SearchResult{}, nil
	}

	var (
		termClauses []string
		args        []any
		argIdx      int
	)
	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	for _, term := range terms {
		p := nextArg()
		termClauses = append(termClauses,
			fmt.Sprintf("(p.title ILIKE '%%' || %s || '%%' OR a.abstract_text ILIKE '%%' || %s || '%%')", p, p))
		args = append(args, term)
	}
	whereClauses := []string{"(" + strings.Join(termClauses, " OR ") + ")"}

	if filter.YearMin != nil {
		whereClauses = append(whereClauses, "p.year >= "+nextArg())
		args = append(args, *filter.YearMin)
	}
	if filter.YearMax != nil {
		whereClauses = append(whereClauses, "p.year <= "+nextArg())
		args = append(args, *filter.YearMax)
	}

	dataQuery := "SELECT " + pubColumns + pubFrom +
		" WHERE " + strings.Join(whereClauses, " AND ") +
		" ORDER BY p.id LIMIT " + nextArg()
	args = append(args, searchCandidateLimit)

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("search publications: %w", err)
	}
	defer rows.Close()

	var candidates []*model.Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan search candidates: %w", err)
		}
		candidates = append(candidates, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan search candidates: %w", err)
	}

	results := search.Rank(query, candidates, k)
	if results == nil {
		results = []*model.SearchResult{}
	}
	return results, nil
}

func querySetAbstract(ctx context.Context, db executor, id int64, abstract string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO abstracts (publication_id, abstract_text)
		VALUES ($1, $2)
		ON CONFLICT (publication_id) DO UPDATE SET abstract_text = EXCLUDED.abstract_text`,
		id, abstract,
	)
	return err
}

func queryYearCounts(ctx context.Context, db executor) (map[int]int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT year, COUNT(*) FROM publications WHERE year IS NOT NULL GROUP BY year ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("year counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var year, count int
		if err := rows.Scan(&year, &count); err != nil {
			return nil, fmt.Errorf("scan year counts: %w", err)
		}
		counts[year] = count
	}
	return counts, rows.Err()
}

func queryReplaceGraph(ctx context.Context, db executor, nodes []*model.Node, edges []*model.Edge) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM kg_edges`); err != nil {
		return fmt.Errorf("clear edges: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM kg_nodes`); err != nil {
		return fmt.Errorf("clear nodes: %w", err)
	}

	for _, n := range nodes {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO kg_nodes (id, type, label, properties)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				type = EXCLUDED.type,
				label = EXCLUDED.label,
				properties = EXCLUDED.properties`,
			n.ID, string(n.Type), n.Label, jsonbBytes(n.Properties),
		); err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	}

	for _, e := range edges {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO kg_edges (source, target, relation, properties)
			VALUES ($1, $2, $3, $4)`,
			e.Source, e.Target, e.Relation, jsonbBytes(e.Properties),
		); err != nil {
			return fmt.Errorf("insert edge %s->%s: %w", e.Source, e.Target, err)
		}
	}

	return nil
}

func queryListNodes(ctx context.Context, db executor) ([]*model.Node, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, type, label, properties FROM kg_nodes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

func queryListEdges(ctx context.Context, db executor) ([]*model.Edge, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT source, target, relation, properties FROM kg_edges ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list edges: %w", err)
	}
	defer rows.Close()
	return scanEdges(rows)
}

func queryGraphStats(ctx context.Context, db executor) (*model.GraphStats, error) {
	stats := &model.GraphStats{
		NodeTypes:     make(map[string]int),
		EdgeRelations: make(map[string]int),
	}

	nodeRows, err := db.QueryContext(ctx,
		`SELECT COALESCE(NULLIF(type, ''), 'unknown'), COUNT(*) FROM kg_nodes GROUP BY 1`)
	if err != nil {
		return nil, fmt.Errorf("graph stats: nodes: %w", err)
	}
	defer nodeRows.Close()
	for nodeRows.Next() {
		var typ string
		var count int
		if err := nodeRows.Scan(&typ, &count); err != nil {
			return nil, fmt.Errorf("graph stats: scan node type: %w", err)
		}
		stats.NodeTypes[typ] = count
		stats.NodeCount += count
	}
	if err := nodeRows.Err(); err != nil {
		return nil, fmt.Errorf("graph stats: node rows: %w", err)
	}

	edgeRows, err := db.QueryContext(ctx,
		`SELECT COALESCE(NULLIF(relation, ''), 'related_to'), COUNT(*) FROM kg_edges GROUP BY 1`)
	if err != nil {
		return nil, fmt.Errorf("graph stats: edges: %w", err)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var rel string
		var count int
		if err := edgeRows.Scan(&rel, &count); err != nil {
			return nil, fmt.Errorf("graph stats: scan relation: %w", err)
		}
		stats.EdgeRelations[rel] = count
		stats.EdgeCount += count
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("graph stats: edge rows: %w", err)
	}

	return stats, nil
}

func parseSortClause(sort string) string {
	if sort == "" {
		return "p.id ASC"
	}
	desc := strings.HasPrefix(sort, "-")
	col := strings.TrimPrefix(sort, "-")
	allowed := map[string]bool{
		"id": true, "title": true, "year": true,
		"created_at": true, "updated_at": true,
	}
	if !allowed[col] {
		return "p.id ASC"
	}
	if desc {
		return "p." + col + " DESC"
	}
	return "p." + col + " ASC"
}
