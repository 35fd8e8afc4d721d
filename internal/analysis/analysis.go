// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis computes aggregate statistics over a loaded citation
// collection: h-index, self-reference ratios and citing-author counts.
//
// Analyses read the primary and citation entries produced by the loader and
// only ever modify their tool-internal fields (h_index, op_self,
// num_authors). Yearly series run from the oldest primary publication year
// to the current year; citations dated outside that window are counted in
// the nearest year of the window.
package analysis

import (
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/citexpert/internal/record"
)

// Analyzer runs analyses against a fixed current year.
type Analyzer struct {
	log         *zap.Logger
	currentYear int
}

// New returns an Analyzer. A currentYear of zero means the current calendar
// year. A nil logger discards log output.
func New(log *zap.Logger, currentYear int) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	if currentYear <= 0 {
		currentYear = time.Now().Year()
	}
	return &Analyzer{log: log, currentYear: currentYear}
}

// CurrentYear returns the last year of every yearly series.
func (a *Analyzer) CurrentYear() int {
	return a.currentYear
}

// window is the span of years covered by yearly series.
type window struct {
	first, last int
}

// window returns the years from the oldest primary publication to the
// current year. Primary entries without a usable year are skipped.
func (a *Analyzer) window(primary []*record.Entry) window {
	w := window{first: a.currentYear, last: a.currentYear}
	for _, e := range primary {
		y, err := e.YearInt()
		if err != nil {
			a.log.Warn("primary entry has no usable year", zap.String("cite_key", e.CiteKey), zap.Error(err))
			continue
		}
		if y < w.first {
			w.first = y
		}
	}
	return w
}

func (w window) years() []int {
	years := make([]int, 0, w.last-w.first+1)
	for y := w.first; y <= w.last; y++ {
		years = append(years, y)
	}
	return years
}

func (w window) index(year int) int {
	return w.clamp(year) - w.first
}

func (w window) clamp(year int) int {
	switch {
	case year < w.first:
		return w.first
	case year > w.last:
		return w.last
	}
	return year
}

// citationYear returns the entry's year and whether it has one. Entries
// with an unparseable year are logged and treated as undated.
func (a *Analyzer) citationYear(e *record.Entry) (int, bool) {
	if e.Year == "" {
		return 0, false
	}
	y, err := e.YearInt()
	if err != nil {
		a.log.Warn("ignoring unparseable year", zap.String("cite_key", e.CiteKey), zap.Error(err))
		return 0, false
	}
	return y, true
}

// primaryAuthors returns the union of the primary entries' authors without
// the anonymous placeholder.
func primaryAuthors(primary []*record.Entry) record.Authors {
	var authors record.Authors
	for _, e := range primary {
		for _, au := range e.Authors {
			if au.IsAnonymous() || authors.Contains(au) {
				continue
			}
			authors = append(authors, au)
		}
	}
	return authors
}
