package taxonsvc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps taxa in a SQLite database. List fields are stored as
// JSON arrays.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS taxa (
		ref TEXT PRIMARY KEY,
		parent TEXT NOT NULL DEFAULT '',
		children TEXT NOT NULL DEFAULT '[]',
		genome_annotations TEXT NOT NULL DEFAULT '[]',
		scientific_lineage TEXT NOT NULL DEFAULT '',
		scientific_name TEXT NOT NULL DEFAULT '',
		taxonomic_id INTEGER NOT NULL DEFAULT 0,
		kingdom TEXT NOT NULL DEFAULT '',
		domain TEXT NOT NULL DEFAULT '',
		genetic_code INTEGER NOT NULL DEFAULT 0,
		aliases TEXT NOT NULL DEFAULT '[]'
	);
	CREATE INDEX IF NOT EXISTS idx_taxa_taxonomic_id ON taxa(taxonomic_id);
	`)
	return err
}

// Import inserts or replaces taxa in one transaction
func (s *SQLiteStore) Import(ctx context.Context, taxa []*Taxon) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO taxa (ref, parent, children, genome_annotations, scientific_lineage,
			scientific_name, taxonomic_id, kingdom, domain, genetic_code, aliases)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range taxa {
		children, _ := json.Marshal(nonNil(t.Children))
		annotations, _ := json.Marshal(nonNil(t.GenomeAnnotations))
		aliases, _ := json.Marshal(nonNil(t.Aliases))

		if _, err := stmt.ExecContext(ctx, t.Ref, t.Parent, string(children), string(annotations),
			t.ScientificLineage, t.ScientificName, t.TaxonomicID, t.Kingdom, t.Domain,
			t.GeneticCode, string(aliases)); err != nil {
			return fmt.Errorf("failed to insert taxon %s: %w", t.Ref, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Get returns the taxon for ref
func (s *SQLiteStore) Get(ctx context.Context, ref string) (*Taxon, error) {
	var t Taxon
	var children, annotations, aliases string

	err := s.db.QueryRowContext(ctx, `
		SELECT ref, parent, children, genome_annotations, scientific_lineage, scientific_name,
			taxonomic_id, kingdom, domain, genetic_code, aliases
		FROM taxa WHERE ref = ?
	`, ref).Scan(&t.Ref, &t.Parent, &children, &annotations, &t.ScientificLineage,
		&t.ScientificName, &t.TaxonomicID, &t.Kingdom, &t.Domain, &t.GeneticCode, &aliases)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query taxon: %w", err)
	}

	for _, col := range []struct {
		raw  string
		dest *[]string
	}{
		{children, &t.Children},
		{annotations, &t.GenomeAnnotations},
		{aliases, &t.Aliases},
	} {
		if err := json.Unmarshal([]byte(col.raw), col.dest); err != nil {
			return nil, fmt.Errorf("corrupt list column for %s: %w", ref, err)
		}
	}
	return &t, nil
}

// Count returns the number of taxa
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM taxa`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count taxa: %w", err)
	}
	return n, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
