// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/citexpert/internal/record"
)

// QueryOptions holds parameters for catalog queries. All set filters must
// match.
type QueryOptions struct {
	// Title matches entries whose title contains the text, ignoring case
	// and diacritics.
	Title string

	// Author matches entries with an author whose "first last" name
	// contains the text, ignoring case and diacritics.
	Author string

	// Type filters by entry type.
	Type record.EntryType

	// Year filters by publication year. Zero means any year.
	Year int

	// MainOnly restricts results to primary entries.
	MainOnly bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Title == "" && q.Author == "" && q.Type == "" && q.Year == 0 && !q.MainOnly
}

// Retrieve returns the catalog entries matching opts, primary entries
// first, then by year and cite key.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]*record.Entry, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT e.cite_key, e.record FROM entries e WHERE 1=1`)

	if opts.Title != "" {
		qb.WriteString(` AND e.title_folded LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(Fold(opts.Title)))
	}
	if opts.Author != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM entry_authors a
			WHERE a.cite_key = e.cite_key AND a.name_folded LIKE ? ESCAPE '\')`)
		args = append(args, likePattern(Fold(opts.Author)))
	}
	if opts.Type != "" {
		qb.WriteString(` AND e.entry_type = ?`)
		args = append(args, string(opts.Type))
	}
	if opts.Year != 0 {
		qb.WriteString(` AND e.year = ?`)
		args = append(args, opts.Year)
	}
	if opts.MainOnly {
		qb.WriteString(` AND e.main_publication = 1`)
	}

	qb.WriteString(` ORDER BY e.main_publication DESC, e.year, e.cite_key LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var entries []*record.Entry
	for rows.Next() {
		var key, text string
		if err := rows.Scan(&key, &text); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		parsed, err := s.loader.Parse(strings.NewReader(text), "catalog:"+key)
		if err != nil {
			return nil, fmt.Errorf("decoding stored entry %s: %w", key, err)
		}
		entries = append(entries, parsed...)
	}
	return entries, rows.Err()
}

// Count returns the number of primary and citation entries in the catalog.
func (s *Store) Count(ctx context.Context) (primary, citations int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(main_publication), 0), COALESCE(SUM(1 - main_publication), 0) FROM entries`,
	).Scan(&primary, &citations)
	if err != nil {
		return 0, 0, fmt.Errorf("counting entries: %w", err)
	}
	return primary, citations, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
