// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

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

const authorRecordType = "author"

// LoadAuthors reads @author records from every file in order. Authors equal
// to one already loaded, from any file, are dropped.
func (l *Loader) LoadAuthors(paths ...string) ([]record.Author, error) {
	var authors record.Authors
	for _, path := range paths {
		parsed, err := l.loadAuthorFile(path)
		if err != nil {
			return nil, err
		}
		for _, a := range parsed {
			if authors.Contains(a) {
				l.log.Debug("skipping duplicated author", zap.String("author", a.String()), zap.String("file", path))
				continue
			}
			authors = append(authors, a)
		}
	}
	return authors, nil
}

func (l *Loader) loadAuthorFile(path string) ([]record.Author, error) {
	l.log.Debug("parsing authors file", zap.String("file", path))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening authors file: %w", err)
	}
	defer f.Close()
	return l.ParseAuthors(f, path)
}

// ParseAuthors reads all @author records from r. Any other record type is
// a fatal error.
func (l *Loader) ParseAuthors(r io.Reader, name string) ([]record.Author, error) {
	blocks, err := scanBlocks(r, name)
	if err != nil {
		return nil, err
	}
	authors := make([]record.Author, 0, len(blocks))
	for _, b := range blocks {
		typeName, rest, err := header(b.lines[0])
		if err != nil {
			return nil, &ParseError{File: name, Line: b.line, Err: err}
		}
		if !strings.EqualFold(typeName, authorRecordType) {
			return nil, &ParseError{File: name, Line: b.line,
				Err: fmt.Errorf("%w: %q in authors file", record.ErrUnknownEntryType, typeName)}
		}

		values := make(map[string]string)
		body := append([]string{rest}, b.lines[1:]...)
		for _, a := range l.assignments(body, l.log) {
			values[a.key] = a.value
		}
		authors = append(authors, l.newAuthor(values))
	}
	return authors, nil
}

// newAuthor builds an Author from the fields of an @author record.
func (l *Loader) newAuthor(values map[string]string) record.Author {
	var a record.Author
	if last := values["last"]; last != "" {
		a = record.ParseAuthorName(last+", "+values["first"], l.log)
	} else {
		a = record.ParseAuthorName(values["first"], l.log)
	}

	a.Affiliation = values["affiliation"]
	a.Email = values["email"]
	a.CountryCode = values["country_code"]
	a.Keywords = values["keywords"]

	if a.CountryCode == "" && a.Email != "" {
		if idx := strings.LastIndex(a.Email, "."); idx >= 0 && idx < len(a.Email)-1 {
			a.CountryCode = record.ParseCountryCode(a.Email[idx+1:])
		}
	}

	if v := values["citations"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			l.log.Warn("author citations is not a number, assuming 0",
				zap.String("author", a.String()), zap.String("value", v))
		}
		a.Citations = n
	}
	return a
}
