// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package record defines the bibliographic record model: entry types,
// entries, authors, field normalization and the BibTeX-style text format
// used to persist citation collections.
package record

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Field names a known record field.
type Field string

const (
	FieldAddress      Field = "address"
	FieldAnnote       Field = "annote"
	FieldAuthor       Field = "author"
	FieldBooktitle    Field = "booktitle"
	FieldChapter      Field = "chapter"
	FieldCrossref     Field = "crossref"
	FieldEdition      Field = "edition"
	FieldEditor       Field = "editor"
	FieldHowPublished Field = "howpublished"
	FieldInstitution  Field = "institution"
	FieldJournal      Field = "journal"
	FieldKey          Field = "key"
	FieldMonth        Field = "month"
	FieldNote         Field = "note"
	FieldNumber       Field = "number"
	FieldOrganization Field = "organization"
	FieldPages        Field = "pages"
	FieldPublisher    Field = "publisher"
	FieldSchool       Field = "school"
	FieldSeries       Field = "series"
	FieldTitle        Field = "title"
	FieldType         Field = "type"
	FieldURL          Field = "url"
	FieldVolume       Field = "volume"
	FieldYear         Field = "year"
	FieldDOI          Field = "doi"

	// Tool-internal fields persisted alongside the standard ones.
	FieldMainPublication Field = "main_publication"
	FieldCitations       Field = "citations"
	FieldOpSelf          Field = "op_self"
	FieldHIndex          Field = "h_index"
	FieldNumAuthors      Field = "num_authors"
)

// fieldOrder is the serialization order. It also enumerates every known field.
var fieldOrder = []Field{
	FieldAuthor,
	FieldBooktitle,
	FieldJournal,
	FieldNumber,
	FieldTitle,
	FieldVolume,
	FieldYear,
	FieldAddress,
	FieldAnnote,
	FieldChapter,
	FieldCrossref,
	FieldEdition,
	FieldEditor,
	FieldHowPublished,
	FieldInstitution,
	FieldKey,
	FieldMonth,
	FieldNote,
	FieldOrganization,
	FieldPages,
	FieldPublisher,
	FieldSchool,
	FieldSeries,
	FieldType,
	FieldURL,
	FieldDOI,
	FieldMainPublication,
	FieldCitations,
	FieldOpSelf,
	FieldHIndex,
	FieldNumAuthors,
}

// LookupField resolves a lower-case field name to a known Field.
func LookupField(name string) (Field, bool) {
	for _, f := range fieldOrder {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// capitalized reports whether a field is written in doubled braces so that
// BibTeX styles keep its capitalization.
func (f Field) capitalized() bool {
	return f == FieldBooktitle || f == FieldJournal
}

// Fields is the raw text of a record keyed by known field name. It is the
// intermediate form produced while parsing a block, before conversion into
// an Entry.
type Fields map[Field]string

// Entry is one bibliographic record. Optional text fields are empty when
// absent. Numeric tool fields (Citations, HIndex, NumAuthors) and Year are
// kept as text and parsed on demand.
type Entry struct {
	EntryType EntryType `json:"entry_type" yaml:"entry_type"`
	CiteKey   string    `json:"cite_key" yaml:"cite_key"`

	Address      string  `json:"address,omitempty" yaml:"address,omitempty"`
	Annote       string  `json:"annote,omitempty" yaml:"annote,omitempty"`
	Authors      Authors `json:"authors,omitempty" yaml:"authors,omitempty"`
	Booktitle    string  `json:"booktitle,omitempty" yaml:"booktitle,omitempty"`
	Chapter      string  `json:"chapter,omitempty" yaml:"chapter,omitempty"`
	Crossref     string  `json:"crossref,omitempty" yaml:"crossref,omitempty"`
	Edition      string  `json:"edition,omitempty" yaml:"edition,omitempty"`
	Editors      Authors `json:"editors,omitempty" yaml:"editors,omitempty"`
	HowPublished string  `json:"howpublished,omitempty" yaml:"howpublished,omitempty"`
	Institution  string  `json:"institution,omitempty" yaml:"institution,omitempty"`
	Journal      string  `json:"journal,omitempty" yaml:"journal,omitempty"`
	Key          string  `json:"key,omitempty" yaml:"key,omitempty"`
	Month        string  `json:"month,omitempty" yaml:"month,omitempty"`
	Note         string  `json:"note,omitempty" yaml:"note,omitempty"`
	Number       string  `json:"number,omitempty" yaml:"number,omitempty"`
	Organization string  `json:"organization,omitempty" yaml:"organization,omitempty"`
	Pages        string  `json:"pages,omitempty" yaml:"pages,omitempty"`
	Publisher    string  `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	School       string  `json:"school,omitempty" yaml:"school,omitempty"`
	Series       string  `json:"series,omitempty" yaml:"series,omitempty"`
	Title        string  `json:"title,omitempty" yaml:"title,omitempty"`
	Type         string  `json:"type,omitempty" yaml:"type,omitempty"`
	URL          string  `json:"url,omitempty" yaml:"url,omitempty"`
	Volume       string  `json:"volume,omitempty" yaml:"volume,omitempty"`
	Year         string  `json:"year,omitempty" yaml:"year,omitempty"`
	DOI          string  `json:"doi,omitempty" yaml:"doi,omitempty"`

	MainPublication bool   `json:"main_publication" yaml:"main_publication"`
	Citations       string `json:"citations,omitempty" yaml:"citations,omitempty"`
	OpSelf          *bool  `json:"op_self,omitempty" yaml:"op_self,omitempty"`
	HIndex          string `json:"h_index,omitempty" yaml:"h_index,omitempty"`
	NumAuthors      string `json:"num_authors,omitempty" yaml:"num_authors,omitempty"`
}

// NewEntry converts parsed field text into an Entry, applying the field
// normalization rules. It never fails: malformed values are logged and
// replaced by a best-effort value.
func NewEntry(t EntryType, citeKey string, fields Fields, log *zap.Logger) *Entry {
	log = orNop(log).With(zap.String("cite_key", citeKey))

	e := &Entry{
		EntryType:    t,
		CiteKey:      citeKey,
		Address:      fields[FieldAddress],
		Annote:       fields[FieldAnnote],
		Authors:      ParseAuthors(fields[FieldAuthor], log),
		Booktitle:    NormalizeBooktitle(fields[FieldBooktitle], log),
		Chapter:      fields[FieldChapter],
		Crossref:     fields[FieldCrossref],
		Edition:      fields[FieldEdition],
		HowPublished: fields[FieldHowPublished],
		Institution:  fields[FieldInstitution],
		Journal:      fields[FieldJournal],
		Key:          fields[FieldKey],
		Month:        fields[FieldMonth],
		Note:         fields[FieldNote],
		Number:       fields[FieldNumber],
		Organization: fields[FieldOrganization],
		Pages:        NormalizePages(fields[FieldPages]),
		Publisher:    fields[FieldPublisher],
		School:       fields[FieldSchool],
		Series:       fields[FieldSeries],
		Title:        fields[FieldTitle],
		Type:         fields[FieldType],
		URL:          fields[FieldURL],
		Volume:       fields[FieldVolume],
		Year:         fields[FieldYear],
		DOI:          fields[FieldDOI],
		Citations:    fields[FieldCitations],
		HIndex:       fields[FieldHIndex],
		NumAuthors:   fields[FieldNumAuthors],
	}
	if editors := fields[FieldEditor]; editors != "" {
		e.Editors = ParseAuthors(editors, log)
	}

	// Only "true" (any case) marks the primary publication; other text,
	// such as "yes", leaves the entry a citation.
	if v, ok := fields[FieldMainPublication]; ok {
		b, valid := parseBool(v)
		if !valid {
			log.Warn("main_publication is not a boolean, assuming false", zap.String("value", v))
		}
		e.MainPublication = b
	}
	if v, ok := fields[FieldOpSelf]; ok {
		if b, valid := parseBool(v); valid {
			e.OpSelf = &b
		} else {
			log.Warn("op_self is not a boolean, ignoring", zap.String("value", v))
		}
	}

	return e
}

// Fields returns the text of every present field, as it would be written.
func (e *Entry) Fields() Fields {
	fields := make(Fields)
	for _, f := range fieldOrder {
		if v, ok := e.value(f); ok {
			fields[f] = v
		}
	}
	return fields
}

// value returns the text of a field and whether the field is present.
func (e *Entry) value(f Field) (string, bool) {
	var v string
	switch f {
	case FieldAuthor:
		if len(e.Authors) == 0 {
			return "", false
		}
		v = e.Authors.String()
	case FieldEditor:
		if e.Editors == nil {
			return "", false
		}
		v = e.Editors.String()
	case FieldMainPublication:
		return strconv.FormatBool(e.MainPublication), true
	case FieldOpSelf:
		if e.OpSelf == nil {
			return "", false
		}
		return strconv.FormatBool(*e.OpSelf), true
	case FieldAddress:
		v = e.Address
	case FieldAnnote:
		v = e.Annote
	case FieldBooktitle:
		v = e.Booktitle
	case FieldChapter:
		v = e.Chapter
	case FieldCrossref:
		v = e.Crossref
	case FieldEdition:
		v = e.Edition
	case FieldHowPublished:
		v = e.HowPublished
	case FieldInstitution:
		v = e.Institution
	case FieldJournal:
		v = e.Journal
	case FieldKey:
		v = e.Key
	case FieldMonth:
		v = e.Month
	case FieldNote:
		v = e.Note
	case FieldNumber:
		v = e.Number
	case FieldOrganization:
		v = e.Organization
	case FieldPages:
		v = e.Pages
	case FieldPublisher:
		v = e.Publisher
	case FieldSchool:
		v = e.School
	case FieldSeries:
		v = e.Series
	case FieldTitle:
		v = e.Title
	case FieldType:
		v = e.Type
	case FieldURL:
		v = e.URL
	case FieldVolume:
		v = e.Volume
	case FieldYear:
		v = e.Year
	case FieldDOI:
		v = e.DOI
	case FieldCitations:
		v = e.Citations
	case FieldHIndex:
		v = e.HIndex
	case FieldNumAuthors:
		v = e.NumAuthors
	}
	return v, v != ""
}

// YearInt parses the year field.
func (e *Entry) YearInt() (int, error) {
	return parseInt(FieldYear, e.Year)
}

// CitationCount parses the citations field. An absent count is zero.
func (e *Entry) CitationCount() (int, error) {
	if strings.TrimSpace(e.Citations) == "" {
		return 0, nil
	}
	return parseInt(FieldCitations, e.Citations)
}

// HIndexInt parses the h_index field.
func (e *Entry) HIndexInt() (int, error) {
	return parseInt(FieldHIndex, e.HIndex)
}

// NumAuthorsInt parses the num_authors field.
func (e *Entry) NumAuthorsInt() (int, error) {
	return parseInt(FieldNumAuthors, e.NumAuthors)
}

// SetHIndex stores a computed h-index.
func (e *Entry) SetHIndex(h int) {
	e.HIndex = strconv.Itoa(h)
}

// SetNumAuthors stores a computed author count.
func (e *Entry) SetNumAuthors(n int) {
	e.NumAuthors = strconv.Itoa(n)
}

// SetOpSelf records whether the entry cites its own authors' work.
func (e *Entry) SetOpSelf(self bool) {
	e.OpSelf = &self
}

// IsSelfReference reports whether op_self is set and true.
func (e *Entry) IsSelfReference() bool {
	return e.OpSelf != nil && *e.OpSelf
}

var hyphenRun = regexp.MustCompile(`-+`)

// NormalizePages rewrites every run of hyphens to the "--" range separator,
// so "1-2-3" becomes "1--2--3" and already normalized ranges are unchanged.
func NormalizePages(pages string) string {
	if !strings.Contains(pages, "-") {
		return pages
	}
	return hyphenRun.ReplaceAllString(pages, "--")
}

// NormalizeBooktitle reorders "Conference, Proceedings of the" into
// "Proceedings of the Conference". Only the first two comma-separated parts
// are kept; extra parts are dropped with a warning.
func NormalizeBooktitle(booktitle string, log *zap.Logger) string {
	if !strings.Contains(booktitle, ",") {
		return booktitle
	}
	parts := strings.Split(booktitle, ",")
	if len(parts) > 2 {
		orNop(log).Warn("booktitle has more than two comma-separated parts, keeping the first two",
			zap.String("booktitle", booktitle))
	}
	return strings.TrimSpace(parts[1]) + " " + strings.TrimSpace(parts[0])
}

func parseBool(v string) (bool, bool) {
	switch {
	case strings.EqualFold(strings.TrimSpace(v), "true"):
		return true, true
	case strings.EqualFold(strings.TrimSpace(v), "false"):
		return false, true
	}
	return false, false
}

func parseInt(f Field, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", f, v, err)
	}
	return n, nil
}
