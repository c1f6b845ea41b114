package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	"github.com/RiosenBeq/NASA/internal/model"
)

// scannable is implemented by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanPublication(row scannable) (*model.Publication, error) {
	var (
		p        model.Publication
		year     sql.NullInt64
		keywords pq.StringArray
	)
	if err := row.Scan(
		&p.ID, &p.Title, &year, &p.DOI, &p.PMID, &p.URL, &p.Source,
		&keywords, &p.Abstract, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if year.Valid {
		y := int(year.Int64)
		p.Year = &y
	}
	p.Keywords = []string(keywords)
	return &p, nil
}

func scanPublicationWithTotal(row scannable) (*model.Publication, int, error) {
	var (
		p        model.Publication
		total    int
		year     sql.NullInt64
		keywords pq.StringArray
	)
	if err := row.Scan(
		&total,
		&p.ID, &p.Title, &year, &p.DOI, &p.PMID, &p.URL, &p.Source,
		&keywords, &p.Abstract, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, 0, err
	}
	if year.Valid {
		y := int(year.Int64)
		p.Year = &y
	}
	p.Keywords = []string(keywords)
	return &p, total, nil
}

func scanNodes(rows *sql.Rows) ([]*model.Node, error) {
	nodes := []*model.Node{}
	for rows.Next() {
		var (
			n     model.Node
			typ   string
			props []byte
		)
		if err := rows.Scan(&n.ID, &typ, &n.Label, &props); err != nil {
			return nil, err
		}
		n.Type = model.NodeType(typ)
		if len(props) > 0 {
			n.Properties = json.RawMessage(props)
		}
		nodes = append(nodes, &n)
	}
	return nodes, rows.Err()
}

func scanEdges(rows *sql.Rows) ([]*model.Edge, error) {
	edges := []*model.Edge{}
	for rows.Next() {
		var (
			e     model.Edge
			props []byte
		)
		if err := rows.Scan(&e.Source, &e.Target, &e.Relation, &props); err != nil {
			return nil, err
		}
		if len(props) > 0 {
			e.Properties = json.RawMessage(props)
		}
		edges = append(edges, &e)
	}
	return edges, rows.Err()
}

// jsonbBytes yields a value suitable for a JSONB parameter. Empty raw JSON
// is stored as an empty object rather than NULL.
func jsonbBytes(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte("{}")
	}
	return []byte(raw)
}

func nullIntPtr(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
