// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"slices"

	"go.uber.org/zap"

	"github.com/pdiddy/citexpert/internal/record"
	"github.com/pdiddy/citexpert/pkg/types"
)

// HIndex returns the largest h such that h of the counts are each at
// least h.
func HIndex(counts []int) int {
	sorted := slices.Clone(counts)
	slices.SortFunc(sorted, func(a, b int) int { return b - a })
	h := 0
	for i, c := range sorted {
		if c < i+1 {
			break
		}
		h = i + 1
	}
	return h
}

// HIndex computes the h-index of the citing works and its yearly
// evolution. A citation published in year y counts towards every year from
// y to the current year. The overall h-index is stored on every primary
// entry.
func (a *Analyzer) HIndex(primary, citations []*record.Entry) types.HIndexReport {
	a.log.Info("computing citations h-index", zap.Int("citations", len(citations)))

	w := a.window(primary)
	years := w.years()
	yearly := make([][]int, len(years))
	all := make([]int, 0, len(citations))

	for _, e := range citations {
		n, err := e.CitationCount()
		if err != nil {
			a.log.Warn("citation count is not a number, assuming 0", zap.String("cite_key", e.CiteKey), zap.Error(err))
		}
		all = append(all, n)

		y, ok := a.citationYear(e)
		if !ok {
			continue
		}
		for i := w.index(y); i < len(years); i++ {
			yearly[i] = append(yearly[i], n)
		}
	}

	report := types.HIndexReport{
		HIndex:       HIndex(all),
		Years:        years,
		YearlyHIndex: make([]int, len(years)),
	}
	for i, counts := range yearly {
		report.YearlyHIndex[i] = HIndex(counts)
	}

	for _, e := range primary {
		e.SetHIndex(report.HIndex)
	}
	return report
}
