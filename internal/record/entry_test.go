// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"errors"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseEntryType(t *testing.T) {
	tests := []struct {
		input string
		want  EntryType
	}{
		{"article", Article},
		{"ARTICLE", Article},
		{" InProceedings ", InProceedings},
		{"mastersthesis", MastersThesis},
		{"PhDThesis", PhDThesis},
		{"techreport", TechReport},
	}
	for _, tt := range tests {
		got, err := ParseEntryType(tt.input)
		if err != nil {
			t.Fatalf("ParseEntryType(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseEntryType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseEntryTypeUnknown(t *testing.T) {
	for _, input := range []string{"", "patent", "inbook", "author"} {
		_, err := ParseEntryType(input)
		if !errors.Is(err, ErrUnknownEntryType) {
			t.Errorf("ParseEntryType(%q) error = %v, want ErrUnknownEntryType", input, err)
		}
	}
}

func TestEntryTypesClosedSet(t *testing.T) {
	types := EntryTypes()
	if len(types) != 9 {
		t.Fatalf("len(EntryTypes()) = %d, want 9", len(types))
	}
	for _, et := range types {
		if !et.Valid() {
			t.Errorf("%q should be valid", et)
		}
		if et.Label() == "" {
			t.Errorf("%q has no label", et)
		}
	}
	if EntryType("inbook").Valid() {
		t.Error("inbook should not be valid")
	}

	// Mutating the returned slice must not affect the package state.
	types[0] = "bogus"
	if EntryTypes()[0] != Article {
		t.Error("EntryTypes() exposes internal state")
	}
}

func TestNormalizePages(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"100-120", "100--120"},
		{"100--120", "100--120"},
		{"100---120", "100--120"},
		{"100", "100"},
		{"", ""},
		{"1-2, 5----9", "1--2, 5--9"},
		{"1-2-3", "1--2--3"},
		{"e-12-e-15", "e--12--e--15"},
	}
	for _, tt := range tests {
		if got := NormalizePages(tt.input); got != tt.want {
			t.Errorf("NormalizePages(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeBooktitle(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"International Conference on eScience, Proceedings of the", "Proceedings of the International Conference on eScience"},
		{"Proceedings of SC", "Proceedings of SC"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeBooktitle(tt.input, nil); got != tt.want {
			t.Errorf("NormalizeBooktitle(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeBooktitleExtraParts(t *testing.T) {
	log, logs := observedLogger()
	got := NormalizeBooktitle("Workshop, Proceedings of the, Volume 2", log)
	if got != "Proceedings of the Workshop" {
		t.Errorf("got %q", got)
	}
	if logs.FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
		t.Errorf("expected one warning, got %d", logs.Len())
	}
}

func TestNewEntry(t *testing.T) {
	fields := Fields{
		FieldAuthor:          "Doe, Jane and Roe, Rick",
		FieldEditor:          "Poe, Edgar",
		FieldBooktitle:       "Workshop, Proceedings of the",
		FieldPages:           "1-10",
		FieldTitle:           "T1",
		FieldYear:            "2020",
		FieldPublisher:       "ACM",
		FieldMainPublication: "TRUE",
		FieldOpSelf:          "false",
		FieldCitations:       "3",
		FieldNumAuthors:      "7",
	}
	e := NewEntry(InProceedings, "k1", fields, nil)

	if e.EntryType != InProceedings || e.CiteKey != "k1" {
		t.Fatalf("got %s/%s", e.EntryType, e.CiteKey)
	}
	if len(e.Authors) != 2 || e.Authors[1].LastName != "Roe" {
		t.Errorf("Authors = %v", e.Authors)
	}
	if len(e.Editors) != 1 || e.Editors[0].LastName != "Poe" {
		t.Errorf("Editors = %v", e.Editors)
	}
	if e.Booktitle != "Proceedings of the Workshop" {
		t.Errorf("Booktitle = %q", e.Booktitle)
	}
	if e.Pages != "1--10" {
		t.Errorf("Pages = %q", e.Pages)
	}
	if e.Publisher != "ACM" {
		t.Errorf("Publisher = %q", e.Publisher)
	}
	if !e.MainPublication {
		t.Error("MainPublication should be true")
	}
	if e.OpSelf == nil || *e.OpSelf {
		t.Errorf("OpSelf = %v, want false", e.OpSelf)
	}
	if n, err := e.CitationCount(); err != nil || n != 3 {
		t.Errorf("CitationCount() = %d, %v", n, err)
	}
	if n, err := e.NumAuthorsInt(); err != nil || n != 7 {
		t.Errorf("NumAuthorsInt() = %d, %v", n, err)
	}
	if y, err := e.YearInt(); err != nil || y != 2020 {
		t.Errorf("YearInt() = %d, %v", y, err)
	}
}

func TestNewEntryDefaults(t *testing.T) {
	e := NewEntry(Misc, "k", Fields{}, nil)
	if e.MainPublication {
		t.Error("MainPublication should default to false")
	}
	if e.OpSelf != nil {
		t.Error("OpSelf should be absent")
	}
	if e.Editors != nil {
		t.Error("Editors should be absent")
	}
	if n, err := e.CitationCount(); err != nil || n != 0 {
		t.Errorf("CitationCount() = %d, %v, want 0", n, err)
	}
	if _, err := e.YearInt(); err == nil {
		t.Error("YearInt() on a missing year should fail")
	}
}

func TestNewEntryNonBooleanFlags(t *testing.T) {
	log, logs := observedLogger()
	e := NewEntry(Article, "k", Fields{FieldMainPublication: "yes", FieldOpSelf: "maybe"}, log)
	if e.MainPublication {
		t.Error("non-boolean main_publication should be false")
	}
	if e.OpSelf != nil {
		t.Error("non-boolean op_self should be absent")
	}
	if got := logs.FilterLevelExact(zapcore.WarnLevel).Len(); got != 2 {
		t.Errorf("warnings = %d, want 2", got)
	}
	if got := logs.FilterMessage("main_publication is not a boolean, assuming false").Len(); got != 1 {
		t.Errorf("main_publication warnings = %d, want 1", got)
	}
}

func TestEntrySetters(t *testing.T) {
	e := NewEntry(Article, "k", Fields{}, nil)
	e.SetHIndex(4)
	e.SetNumAuthors(12)
	e.SetOpSelf(true)

	if h, _ := e.HIndexInt(); h != 4 {
		t.Errorf("HIndexInt() = %d", h)
	}
	if n, _ := e.NumAuthorsInt(); n != 12 {
		t.Errorf("NumAuthorsInt() = %d", n)
	}
	if !e.IsSelfReference() {
		t.Error("IsSelfReference() should be true")
	}
}

func TestEntryFields(t *testing.T) {
	e := NewEntry(Article, "k", Fields{
		FieldTitle:   "T",
		FieldAuthor:  "Doe, Jane",
		FieldJournal: "J",
	}, nil)

	got := e.Fields()
	want := Fields{
		FieldTitle:           "T",
		FieldAuthor:          "Doe, Jane",
		FieldJournal:         "J",
		FieldMainPublication: "false",
	}
	if len(got) != len(want) {
		t.Fatalf("Fields() = %v, want %v", got, want)
	}
	for f, v := range want {
		if got[f] != v {
			t.Errorf("Fields()[%s] = %q, want %q", f, got[f], v)
		}
	}
}

func TestLookupField(t *testing.T) {
	if f, ok := LookupField("howpublished"); !ok || f != FieldHowPublished {
		t.Errorf("LookupField(howpublished) = %q, %v", f, ok)
	}
	if _, ok := LookupField("abstract"); ok {
		t.Error("abstract is not a known field")
	}
}
