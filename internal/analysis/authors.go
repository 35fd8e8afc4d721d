// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"sort"

	"go.uber.org/zap"

	"github.com/pdiddy/citexpert/internal/record"
	"github.com/pdiddy/citexpert/pkg/types"
)

// AuthorCount collects the distinct authors of the citing works, leaving
// out the primary entries' own authors and the anonymous placeholder. The
// total is stored on every primary entry as num_authors. The citing
// authors are returned in order of first appearance.
func (a *Analyzer) AuthorCount(primary, citations []*record.Entry) (types.AuthorReport, record.Authors) {
	a.log.Info("computing citations per author", zap.Int("citations", len(citations)))

	own := primaryAuthors(primary)
	w := a.window(primary)
	years := w.years()
	yearly := make([]record.Authors, len(years))
	var citing record.Authors

	for _, e := range citations {
		y, dated := a.citationYear(e)
		for _, au := range e.Authors {
			if au.IsAnonymous() || own.Contains(au) {
				continue
			}
			if !citing.Contains(au) {
				citing = append(citing, au)
			}
			if dated {
				i := w.index(y)
				if !yearly[i].Contains(au) {
					yearly[i] = append(yearly[i], au)
				}
			}
		}
	}

	report := types.AuthorReport{
		NumAuthors:     len(citing),
		Years:          years,
		AuthorsPerYear: make([]int, len(years)),
	}
	for i, authors := range yearly {
		report.AuthorsPerYear[i] = len(authors)
	}

	for _, e := range primary {
		e.SetNumAuthors(report.NumAuthors)
	}
	return report, citing
}

// AuthorMap counts authors per country code. Authors are expected to be
// deduplicated already, as LoadAuthors does.
func AuthorMap(authors []record.Author) types.AuthorMapReport {
	counts := make(map[string]int)
	report := types.AuthorMapReport{NumAuthors: len(authors)}
	for _, au := range authors {
		if au.CountryCode == "" {
			report.Unknown++
			continue
		}
		counts[au.CountryCode]++
	}

	for cc, n := range counts {
		report.Countries = append(report.Countries, types.CountryCount{CountryCode: cc, Authors: n})
	}
	sort.Slice(report.Countries, func(i, j int) bool {
		ci, cj := report.Countries[i], report.Countries[j]
		if ci.Authors != cj.Authors {
			return ci.Authors > cj.Authors
		}
		return ci.CountryCode < cj.CountryCode
	})
	return report
}
