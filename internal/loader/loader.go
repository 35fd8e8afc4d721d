// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package loader reads citation files into record entries. It splits files
// into record blocks, parses each block's fields leniently, separates the
// main publication entries from citation entries and removes duplicate
// citations across files.
package loader

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/citexpert/internal/record"
)

// Loader parses record files. It is safe to reuse across loads.
type Loader struct {
	log *zap.Logger
}

// New returns a Loader that reports recoverable problems to log.
// A nil logger discards them.
func New(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log}
}

// Collection is the result of loading one or more citation files.
type Collection struct {
	// Primary holds the entries for the analyzed publication(s), in input
	// order. They are never deduplicated.
	Primary []*record.Entry

	// Citations holds citing entries, deduplicated by title.
	Citations []*record.Entry

	// Duplicates counts citation entries dropped as duplicates.
	Duplicates int
}

// Validate reports the fatal usage conditions of an empty collection.
func (c *Collection) Validate() error {
	if len(c.Primary) == 0 {
		return ErrNoPrimaryEntries
	}
	if len(c.Citations) == 0 {
		return ErrNoCitationEntries
	}
	return nil
}

// All returns primary entries followed by citation entries.
func (c *Collection) All() []*record.Entry {
	all := make([]*record.Entry, 0, len(c.Primary)+len(c.Citations))
	all = append(all, c.Primary...)
	return append(all, c.Citations...)
}

// LoadEntries loads paths and validates that both partitions are non-empty.
// On a validation error the partially filled collection is returned so the
// caller can decide whether to abort.
func (l *Loader) LoadEntries(paths ...string) (*Collection, error) {
	c, err := l.Load(paths...)
	if err != nil {
		return nil, err
	}
	return c, c.Validate()
}

// Load reads every file in order and partitions the entries. A citation
// whose title equals that of an earlier citation, in any file, is dropped.
// Untitled citations compare equal to each other. Any parse error aborts the
// whole load.
func (l *Loader) Load(paths ...string) (*Collection, error) {
	c := &Collection{}
	seen := make(map[string]bool)

	for _, path := range paths {
		entries, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.MainPublication {
				c.Primary = append(c.Primary, e)
				continue
			}
			if seen[e.Title] {
				l.log.Info("skipping duplicated entry",
					zap.String("cite_key", e.CiteKey), zap.String("title", e.Title), zap.String("file", path))
				c.Duplicates++
				continue
			}
			seen[e.Title] = true
			c.Citations = append(c.Citations, e)
		}
	}
	return c, nil
}

// LoadFile parses all records in the file at path.
func (l *Loader) LoadFile(path string) ([]*record.Entry, error) {
	l.log.Debug("parsing file", zap.String("file", path))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening citations file: %w", err)
	}
	defer f.Close()
	return l.Parse(f, path)
}

// Parse reads all records from r. name identifies the input in errors.
func (l *Loader) Parse(r io.Reader, name string) ([]*record.Entry, error) {
	blocks, err := scanBlocks(r, name)
	if err != nil {
		return nil, err
	}
	entries := make([]*record.Entry, 0, len(blocks))
	for _, b := range blocks {
		e, err := l.parseEntry(b, name, record.Fields{record.FieldCitations: "0"})
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ParseRecord parses exactly one record as delivered by a search engine,
// using citations and url unless the record text carries its own values.
func (l *Loader) ParseRecord(text string, citations int, url string) (*record.Entry, error) {
	blocks, err := scanBlocks(strings.NewReader(text), "record")
	if err != nil {
		return nil, err
	}
	if len(blocks) != 1 {
		return nil, fmt.Errorf("expected one record, found %d", len(blocks))
	}
	defaults := record.Fields{record.FieldCitations: strconv.Itoa(citations)}
	if url != "" {
		defaults[record.FieldURL] = url
	}
	return l.parseEntry(blocks[0], "record", defaults)
}

func (l *Loader) parseEntry(b block, name string, defaults record.Fields) (*record.Entry, error) {
	typeName, rest, err := header(b.lines[0])
	if err != nil {
		return nil, &ParseError{File: name, Line: b.line, Err: err}
	}

	key, remainder, ok := strings.Cut(rest, ",")
	if !ok {
		key = strings.TrimRight(rest, "})")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, &ParseError{File: name, Line: b.line, Err: fmt.Errorf("%w: missing cite key", ErrMalformedHeader)}
	}

	entryType, err := record.ParseEntryType(typeName)
	if err != nil {
		return nil, &ParseError{File: name, Line: b.line, Key: key, Err: err}
	}

	fields := make(record.Fields, len(defaults))
	for f, v := range defaults {
		fields[f] = v
	}
	log := l.log.With(zap.String("cite_key", key))
	body := append([]string{remainder}, b.lines[1:]...)
	for _, a := range l.assignments(body, log) {
		f, known := record.LookupField(a.key)
		if !known {
			log.Debug("ignoring unknown field", zap.String("field", a.key))
			continue
		}
		fields[f] = a.value
	}

	log.Info("adding entry", zap.String("entry_type", string(entryType)))
	return record.NewEntry(entryType, key, fields, l.log), nil
}

// assignments parses body lines into non-empty key/value pairs.
func (l *Loader) assignments(body []string, log *zap.Logger) []assignment {
	var out []assignment
	for _, segment := range splitAssignments(body) {
		a, ok := parseAssignment(segment)
		if !ok {
			log.Debug("ignoring text without a field assignment", zap.String("text", segment))
			continue
		}
		if a.value == "" {
			log.Debug("ignoring field: value is empty", zap.String("field", a.key))
			continue
		}
		out = append(out, a)
	}
	return out
}
