// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/RiosenBeq/NASA/internal/model"
	"github.com/RiosenBeq/NASA/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// UpsertPublications inserts or refreshes publications inside a single
// transaction. Rows are matched on URL when one is present; rows without a
// URL are always inserted. Assigned ids are written back to the inputs.
func (s *PostgresStore) UpsertPublications(ctx context.Context, pubs []*model.Publication) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	count := 0
	for _, p := range pubs {
		if err := queryUpsertPublication(ctx, tx, p); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("upsert publication %q: %w", p.Title, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) GetPublication(ctx context.Context, id int64) (*model.Publication, error) {
	return queryGetPublication(ctx, s.db, id)
}

func (s *PostgresStore) ListPublications(ctx context.Context, filter model.PublicationFilter) ([]*model.Publication, int, error) {
	return queryListPublications(ctx, s.db, filter)
}

func (s *PostgresStore) SearchPublications(ctx context.Context, query string, k int, filter model.PublicationFilter) ([]*model.SearchResult, error) {
	return querySearchPublications(ctx, s.db, query, k, filter)
}

func (s *PostgresStore) SetAbstract(ctx context.Context, id int64, abstract string) error {
	return querySetAbstract(ctx, s.db, id, abstract)
}

func (s *PostgresStore) YearCounts(ctx context.Context) (map[int]int, error) {
	return queryYearCounts(ctx, s.db)
}

// ReplaceGraph swaps the stored knowledge graph for the given one inside a
// single transaction, so readers never observe a half-built graph.
func (s *PostgresStore) ReplaceGraph(ctx context.Context, nodes []*model.Node, edges []*model.Edge) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := queryReplaceGraph(ctx, tx, nodes, edges); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListNodes(ctx context.Context) ([]*model.Node, error) {
	return queryListNodes(ctx, s.db)
}

func (s *PostgresStore) ListEdges(ctx context.Context) ([]*model.Edge, error) {
	return queryListEdges(ctx, s.db)
}

func (s *PostgresStore) GraphStats(ctx context.Context) (*model.GraphStats, error) {
	return queryGraphStats(ctx, s.db)
}
