// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps loaded citation entries in a SQLite database so
// collections gathered over time can be searched and exported without
// re-reading every citation file.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/citexpert/internal/loader"
	"github.com/pdiddy/citexpert/internal/record"
	"github.com/pdiddy/citexpert/pkg/types"
)

const (
	dbFile            = "citations.db"
	defaultMaxResults = 20
)

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	log        *zap.Logger
	loader     *loader.Loader
}

// NewStore opens or creates the catalog database at dir/citations.db and
// creates the schema if it does not exist.
func NewStore(cfg types.CatalogConfig, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		dir:        cfg.Dir,
		maxResults: maxResults,
		log:        log,
		loader:     loader.New(log),
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			cite_key TEXT PRIMARY KEY,
			entry_type TEXT NOT NULL,
			title TEXT,
			title_folded TEXT,
			year INTEGER,
			main_publication INTEGER NOT NULL DEFAULT 0,
			citations INTEGER NOT NULL DEFAULT 0,
			op_self INTEGER,
			source TEXT,
			record TEXT NOT NULL,
			ingested_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS entry_authors (
			cite_key TEXT NOT NULL REFERENCES entries(cite_key) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			first_name TEXT,
			last_name TEXT,
			name_folded TEXT,
			PRIMARY KEY (cite_key, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_type ON entries(entry_type)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_year ON entries(year)`,
		`CREATE INDEX IF NOT EXISTS idx_authors_name ON entry_authors(name_folded)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from one catalog ingestion.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
}

// Total returns the number of entries processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped
}

// Ingest stores entries keyed by cite key. New keys are inserted, keys
// whose record text changed are replaced and unchanged ones are skipped.
// source names where the entries came from.
func (s *Store) Ingest(ctx context.Context, entries []*record.Entry, source string) (IngestSummary, error) {
	var summary IngestSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, e := range entries {
		select {
		case <-ctx.Done():
			return IngestSummary{}, ctx.Err()
		default:
		}

		text := record.Format(e)

		var stored string
		err := tx.QueryRowContext(ctx, `SELECT record FROM entries WHERE cite_key = ?`, e.CiteKey).Scan(&stored)
		switch {
		case err == nil && stored == text:
			s.log.Debug("catalog entry unchanged", zap.String("cite_key", e.CiteKey))
			summary.Skipped++
			continue
		case err != nil && err != sql.ErrNoRows:
			return IngestSummary{}, fmt.Errorf("looking up %s: %w", e.CiteKey, err)
		}
		isUpdate := err == nil

		if err := s.upsert(ctx, tx, e, text, source, now); err != nil {
			return IngestSummary{}, err
		}
		if isUpdate {
			s.log.Debug("catalog entry updated", zap.String("cite_key", e.CiteKey))
			summary.Updated++
		} else {
			s.log.Debug("catalog entry indexed", zap.String("cite_key", e.CiteKey))
			summary.Indexed++
		}
	}

	if err := tx.Commit(); err != nil {
		return IngestSummary{}, fmt.Errorf("committing catalog: %w", err)
	}
	s.log.Info("catalog ingestion finished",
		zap.Int("indexed", summary.Indexed), zap.Int("updated", summary.Updated), zap.Int("skipped", summary.Skipped))
	return summary, nil
}

func (s *Store) upsert(ctx context.Context, tx *sql.Tx, e *record.Entry, text, source, now string) error {
	var year sql.NullInt64
	if y, err := e.YearInt(); err == nil {
		year = sql.NullInt64{Int64: int64(y), Valid: true}
	}
	citations, _ := e.CitationCount()
	var opSelf sql.NullBool
	if e.OpSelf != nil {
		opSelf = sql.NullBool{Bool: *e.OpSelf, Valid: true}
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO entries (cite_key, entry_type, title, title_folded, year, main_publication,
			citations, op_self, source, record, ingested_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(cite_key) DO UPDATE SET
			entry_type=excluded.entry_type, title=excluded.title, title_folded=excluded.title_folded,
			year=excluded.year, main_publication=excluded.main_publication,
			citations=excluded.citations, op_self=excluded.op_self,
			source=excluded.source, record=excluded.record, ingested_at=excluded.ingested_at`,
		e.CiteKey, string(e.EntryType), e.Title, foldStored(e.Title), year, e.MainPublication,
		citations, opSelf, source, text, now,
	)
	if err != nil {
		return fmt.Errorf("upserting entry %s: %w", e.CiteKey, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_authors WHERE cite_key = ?`, e.CiteKey); err != nil {
		return fmt.Errorf("deleting old authors: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entry_authors (cite_key, position, first_name, last_name, name_folded)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing author insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range e.Authors {
		if a.IsAnonymous() {
			continue
		}
		name := strings.TrimSpace(a.FirstName + " " + a.LastName)
		if _, err := stmt.ExecContext(ctx, e.CiteKey, i, a.FirstName, a.LastName, foldStored(name)); err != nil {
			return fmt.Errorf("inserting author of %s: %w", e.CiteKey, err)
		}
	}
	return nil
}

var recordUnescaper = strings.NewReplacer(`\_`, "_", `\#`, "#")

// foldStored folds record text for the search columns after reverting the
// record format's "\_" and "\#" escapes, so queries match the plain text.
func foldStored(s string) string {
	return Fold(recordUnescaper.Replace(s))
}

// Fold lower-cases s and strips diacritics so searches match "Muller"
// against "Müller".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}
