// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/citexpert/internal/record"
)

// --- test helpers ---

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func observedLoader() (*Loader, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(zap.New(core)), logs
}

const twoRecordFile = `@inproceedings{k1,
	author = {Doe, Jane},
	title = {T1},
	year = {2020},
	main_publication = {true},
}

@article{k2,
	author = {Roe, Rick},
	title = {T2},
	year = {2021},
	citations = {3},
}
`

// --- tests ---

func TestLoadEntriesEndToEnd(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pub.bib", twoRecordFile)

	c, err := New(nil).LoadEntries(path)
	require.NoError(t, err)
	require.Len(t, c.Primary, 1)
	require.Len(t, c.Citations, 1)

	primary := c.Primary[0]
	assert.Equal(t, "k1", primary.CiteKey)
	assert.Equal(t, record.InProceedings, primary.EntryType)
	assert.True(t, primary.MainPublication)
	assert.Equal(t, record.Authors{{FirstName: "Jane", LastName: "Doe"}}, primary.Authors)

	citation := c.Citations[0]
	assert.Equal(t, "k2", citation.CiteKey)
	assert.Equal(t, record.Article, citation.EntryType)
	assert.False(t, citation.MainPublication)
	n, err := citation.CitationCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestParseSingleLineRecords(t *testing.T) {
	input := "@inproceedings{k1, author={Doe, Jane}, title={T1}, year={2020}, main_publication={true}}\n" +
		"@article{k2, author={Roe, Rick}, title={T2}, year={2021}, citations={3}}\n"

	entries, err := New(nil).Parse(strings.NewReader(input), "inline.bib")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "k1", entries[0].CiteKey)
	assert.True(t, entries[0].MainPublication)
	assert.Equal(t, "Doe", entries[0].Authors[0].LastName)
	assert.Equal(t, "2020", entries[0].Year)

	assert.Equal(t, "k2", entries[1].CiteKey)
	n, err := entries[1].CitationCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestParseDefaultsCitationsToZero(t *testing.T) {
	entries, err := New(nil).Parse(strings.NewReader("@misc{k,\n title = {T},\n}\n"), "x.bib")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "0", entries[0].Citations)
}

func TestParseFieldHandling(t *testing.T) {
	input := `@ARTICLE{k,
	Title = "Quoted Title",
	journal = {{Journal of Things}},
	pages = {5-9},
	publisher = {ACM},
	howpublished = {\url{http://example.org/paper}},
	abstract = {not a known field},
	note = {},
	url = {http://example.org/?a=b&c=d},
	op_self = {False},
	num_authors = {4},
}
`
	l, logs := observedLoader()
	entries, err := l.Parse(strings.NewReader(input), "fields.bib")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]

	assert.Equal(t, record.Article, e.EntryType)
	assert.Equal(t, "Quoted Title", e.Title)
	assert.Equal(t, "Journal of Things", e.Journal)
	assert.Equal(t, "5--9", e.Pages)
	assert.Equal(t, "ACM", e.Publisher)
	assert.Equal(t, "http://example.org/paper", e.HowPublished)
	assert.Equal(t, "http://example.org/?a=b&c=d", e.URL)
	assert.Empty(t, e.Note)
	require.NotNil(t, e.OpSelf)
	assert.False(t, *e.OpSelf)
	assert.Equal(t, "4", e.NumAuthors)

	empty := logs.FilterMessage("ignoring field: value is empty").All()
	require.Len(t, empty, 1)
	assert.Equal(t, zapcore.DebugLevel, empty[0].Level)
	assert.Equal(t, "note", empty[0].ContextMap()["field"])
	assert.Equal(t, "k", empty[0].ContextMap()["cite_key"])

	assert.Equal(t, 1, logs.FilterMessage("ignoring unknown field").Len())
}

func TestParseLenientLines(t *testing.T) {
	input := `@article{c1,
 % old value was {x
 title = Foo, Bar,
 note = 5" floppy,
 journal = "J, Q",
 year = 2020}
@article{c2,
 title = {B},
}
`
	entries, err := New(nil).Parse(strings.NewReader(input), "lenient.bib")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	e := entries[0]
	assert.Equal(t, "Foo, Bar", e.Title)
	assert.Equal(t, "5 floppy", e.Note)
	assert.Equal(t, "J, Q", e.Journal)
	assert.Equal(t, "2020", e.Year)
	assert.Equal(t, "B", entries[1].Title)
}

func TestLoadNonBooleanMainPublicationIsCitation(t *testing.T) {
	path := writeFile(t, t.TempDir(), "flags.bib", `@article{m,
	title = {Main},
	main_publication = {true},
}
@article{c,
	title = {Cite},
	main_publication = {yes},
}
`)
	l, logs := observedLoader()
	c, err := l.LoadEntries(path)
	require.NoError(t, err)
	require.Len(t, c.Primary, 1)
	require.Len(t, c.Citations, 1)
	assert.Equal(t, "c", c.Citations[0].CiteKey)
	assert.Equal(t, 1, logs.FilterMessage("main_publication is not a boolean, assuming false").Len())
}

func TestParseUnknownEntryType(t *testing.T) {
	input := "@misc{ok,\n title = {A},\n}\n\n@patent{k9,\n title = {B},\n}\n"
	_, err := New(nil).Parse(strings.NewReader(input), "bad.bib")
	require.Error(t, err)
	assert.True(t, errors.Is(err, record.ErrUnknownEntryType))

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "k9", pe.Key)
	assert.Equal(t, 5, pe.Line)
	assert.Contains(t, err.Error(), "patent")
	assert.Contains(t, err.Error(), "k9")
}

func TestParseMissingCiteKey(t *testing.T) {
	_, err := New(nil).Parse(strings.NewReader("@misc{,\n title = {A},\n}\n"), "bad.bib")
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestLoadDeduplicatesCitationsAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.bib", `@article{main,
	title = {Main},
	main_publication = {true},
}
@article{c1,
	title = {Shared Title},
	year = {2019},
}
@misc{u1,
	year = {2019},
}
`)
	second := writeFile(t, dir, "b.bib", `@article{main2,
	title = {Main},
	main_publication = {true},
}
@inproceedings{c2,
	title = {Shared Title},
	year = {2020},
}
@article{c3,
	title = {Other Title},
}
@misc{u2,
	year = {2020},
}
`)

	l, logs := observedLoader()
	c, err := l.LoadEntries(first, second)
	require.NoError(t, err)

	var keys []string
	for _, e := range c.Citations {
		keys = append(keys, e.CiteKey)
	}
	assert.Equal(t, []string{"c1", "u1", "c3"}, keys, "first occurrence wins, untitled entries share the empty title")
	assert.Equal(t, 2, c.Duplicates)
	assert.Equal(t, 2, logs.FilterMessage("skipping duplicated entry").Len())

	// Primary entries are never deduplicated, even with equal titles.
	require.Len(t, c.Primary, 2)
	assert.Equal(t, "main", c.Primary[0].CiteKey)
	assert.Equal(t, "main2", c.Primary[1].CiteKey)

	all := c.All()
	require.Len(t, all, 5)
	assert.Equal(t, "main", all[0].CiteKey)
	assert.Equal(t, "c1", all[2].CiteKey)
}

func TestLoadEntriesEmptyPartitions(t *testing.T) {
	dir := t.TempDir()
	noPrimary := writeFile(t, dir, "np.bib", "@article{c1,\n title = {A},\n}\n")
	noCitations := writeFile(t, dir, "nc.bib", "@article{m,\n title = {M},\n main_publication = {true},\n}\n")

	c, err := New(nil).LoadEntries(noPrimary)
	assert.ErrorIs(t, err, ErrNoPrimaryEntries)
	assert.EqualError(t, err, "no valid main publication entries")
	require.NotNil(t, c)
	assert.Len(t, c.Citations, 1)

	_, err = New(nil).LoadEntries(noCitations)
	assert.ErrorIs(t, err, ErrNoCitationEntries)
}

func TestLoadAbortsOnParseError(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.bib", twoRecordFile)
	bad := writeFile(t, dir, "bad.bib", "@article{x,\n title = {X},\n")

	c, err := New(nil).Load(good, bad)
	assert.Nil(t, c, "no partial result on parse errors")
	assert.ErrorIs(t, err, ErrUnterminatedBlock)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := New(nil).Load(filepath.Join(t.TempDir(), "missing.bib"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseRecord(t *testing.T) {
	l := New(nil)

	e, err := l.ParseRecord("@article{k,\n title = {T},\n}\n", 17, "http://scholar.example/k")
	require.NoError(t, err)
	assert.Equal(t, "17", e.Citations)
	assert.Equal(t, "http://scholar.example/k", e.URL)

	e, err = l.ParseRecord("@article{k, title = {T}, url = {http://own.example}, citations = {2}}", 17, "http://scholar.example/k")
	require.NoError(t, err)
	assert.Equal(t, "2", e.Citations, "record values override defaults")
	assert.Equal(t, "http://own.example", e.URL)

	_, err = l.ParseRecord("@article{a,\n}\n@article{b,\n}\n", 0, "")
	assert.Error(t, err)
	_, err = l.ParseRecord("no record here", 0, "")
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	original := record.NewEntry(record.InProceedings, "silva2016", record.Fields{
		record.FieldAuthor:          "Ferreira da Silva, Rafael and Deelman, Ewa and others",
		record.FieldEditor:          "Poe, Edgar",
		record.FieldBooktitle:       "eScience, Proceedings of the",
		record.FieldTitle:           "Analysis of_workflow #traces",
		record.FieldYear:            "2016",
		record.FieldPages:           "100---120",
		record.FieldAddress:         "Baltimore, MD",
		record.FieldHowPublished:    "online",
		record.FieldURL:             "http://example.org/a?b=c",
		record.FieldDOI:             "10.1109/x.2016.1",
		record.FieldMainPublication: "true",
		record.FieldCitations:       "12",
		record.FieldOpSelf:          "false",
		record.FieldHIndex:          "3",
		record.FieldNumAuthors:      "8",
	}, nil)

	first := record.Format(original)
	entries, err := New(nil).Parse(strings.NewReader(first), "roundtrip.bib")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	second := record.Format(entries[0])
	assert.Equal(t, first, second)

	got := entries[0].Fields()
	for f, v := range original.Fields() {
		assert.Equal(t, record.Escape(v), got[f], "field %s", f)
	}
	assert.Equal(t, len(original.Fields()), len(got))
}
