// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"go.uber.org/zap"

	"github.com/pdiddy/citexpert/internal/record"
	"github.com/pdiddy/citexpert/pkg/types"
)

// typeCounts counts entries per entry type.
type typeCounts map[record.EntryType]int

func (c typeCounts) total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// tally accumulates one side of the self-reference analysis.
type tally struct {
	total   int
	perYear []typeCounts
	undated typeCounts
}

func newTally(years int) *tally {
	t := &tally{perYear: make([]typeCounts, years), undated: typeCounts{}}
	for i := range t.perYear {
		t.perYear[i] = typeCounts{}
	}
	return t
}

func (t *tally) breakdown() types.ReferenceBreakdown {
	b := types.ReferenceBreakdown{
		Total:   t.total,
		PerYear: make([]int, len(t.perYear)),
	}
	for i, counts := range t.perYear {
		b.PerYear[i] = counts.total()
	}
	if len(t.undated) > 0 {
		b.Undated = make(map[string]int, len(t.undated))
		for et, n := range t.undated {
			b.Undated[string(et)] = n
		}
	}
	for _, et := range record.EntryTypes() {
		series := types.TypeSeries{
			EntryType: string(et),
			Label:     et.Label(),
			Percent:   make([]float64, len(t.perYear)),
		}
		for i, counts := range t.perYear {
			if total := b.PerYear[i]; total > 0 {
				series.Percent[i] = float64(counts[et]) / float64(total) * 100
			}
		}
		b.ByType = append(b.ByType, series)
	}
	return b
}

// SelfReference marks each citation entry whose authors overlap the
// primary entries' authors as a self-reference (op_self) and tallies self
// and external citations per year and per entry type. Citations without a
// year are counted separately as undated.
func (a *Analyzer) SelfReference(primary, citations []*record.Entry) types.SelfReferenceReport {
	a.log.Info("computing self-references", zap.Int("citations", len(citations)))

	authors := primaryAuthors(primary)
	w := a.window(primary)
	years := w.years()
	self, external := newTally(len(years)), newTally(len(years))

	for _, e := range citations {
		isSelf := authors.Overlaps(e.Authors)
		e.SetOpSelf(isSelf)

		t := external
		if isSelf {
			t = self
			a.log.Debug("self-reference", zap.String("cite_key", e.CiteKey))
		}
		t.total++

		if y, ok := a.citationYear(e); ok {
			t.perYear[w.index(y)][e.EntryType]++
		} else {
			t.undated[e.EntryType]++
		}
	}

	return types.SelfReferenceReport{
		Total:    len(citations),
		Years:    years,
		Self:     self.breakdown(),
		External: external.breakdown(),
	}
}
