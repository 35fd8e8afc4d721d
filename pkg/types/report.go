// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for citexpert: configuration
// and the numeric reports produced by the analyses. Reports hold plain
// aggregates so charting tools can consume them without the record model.
package types

// AnalysisKind names one of the citation analyses.
type AnalysisKind string

const (
	AnalysisSelfReference AnalysisKind = "self"
	AnalysisHIndex        AnalysisKind = "h-index"
	AnalysisAuthor        AnalysisKind = "author"
)

// AnalysisKinds lists the analyses accepted by the analyze command.
var AnalysisKinds = []AnalysisKind{AnalysisSelfReference, AnalysisHIndex, AnalysisAuthor}

// HIndexReport holds the overall h-index of the citing works and its
// evolution over time.
type HIndexReport struct {
	// HIndex is computed over every citation entry.
	HIndex int `json:"h_index" yaml:"h_index"`

	// Years lists the calendar years from the oldest primary publication
	// to the current year.
	Years []int `json:"years" yaml:"years"`

	// YearlyHIndex holds the h-index at the end of each year in Years.
	YearlyHIndex []int `json:"yearly_h_index" yaml:"yearly_h_index"`
}

// TypeSeries is the share of one entry type among the citations of each
// year, in percent.
type TypeSeries struct {
	EntryType string    `json:"entry_type" yaml:"entry_type"`
	Label     string    `json:"label" yaml:"label"`
	Percent   []float64 `json:"percent" yaml:"percent"`
}

// ReferenceBreakdown aggregates one side (self or external) of the
// self-reference analysis.
type ReferenceBreakdown struct {
	// Total counts every entry on this side, dated or not.
	Total int `json:"total" yaml:"total"`

	// PerYear counts dated entries per year, aligned with the report's Years.
	PerYear []int `json:"per_year" yaml:"per_year"`

	// Undated counts entries without a year, by entry type.
	Undated map[string]int `json:"undated,omitempty" yaml:"undated,omitempty"`

	// ByType holds per-year percentages for every entry type.
	ByType []TypeSeries `json:"by_type" yaml:"by_type"`
}

// SelfReferenceReport summarizes how many citing works share an author
// with the analyzed publication(s).
type SelfReferenceReport struct {
	Total    int                `json:"total" yaml:"total"`
	Years    []int              `json:"years" yaml:"years"`
	Self     ReferenceBreakdown `json:"self" yaml:"self"`
	External ReferenceBreakdown `json:"external" yaml:"external"`
}

// AuthorReport counts the distinct authors of the citing works, excluding
// the analyzed publication's own authors.
type AuthorReport struct {
	NumAuthors int `json:"num_authors" yaml:"num_authors"`

	Years []int `json:"years" yaml:"years"`

	// AuthorsPerYear counts distinct authors with a citing work in each year.
	AuthorsPerYear []int `json:"authors_per_year" yaml:"authors_per_year"`
}

// CountryCount is the number of authors affiliated with one country.
type CountryCount struct {
	CountryCode string `json:"country_code" yaml:"country_code"`
	Authors     int    `json:"authors" yaml:"authors"`
}

// AuthorMapReport counts authors per country code.
type AuthorMapReport struct {
	NumAuthors int `json:"num_authors" yaml:"num_authors"`

	// Countries is sorted by descending author count, then country code.
	Countries []CountryCount `json:"countries" yaml:"countries"`

	// Unknown counts authors without a country code.
	Unknown int `json:"unknown" yaml:"unknown"`
}
