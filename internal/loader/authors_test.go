// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citexpert/internal/record"
)

func TestLoadAuthorsDeduplicatesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.authors", `@author{
	first = {Jane},
	last = {Doe},
	affiliation = {University of Somewhere},
	email = {jane@somewhere.edu},
	citations = {10},
}

@author{
	first = {Rick},
	last = {Roe},
	country_code = {fr},
	citations = {2},
}
`)
	second := writeFile(t, dir, "b.authors", `@author{
	first = {Jane},
	last = {Doe},
	citations = {99},
}

@author{first = {Ana}, last = {Lima}, email = {ana@x.ac.uk}, keywords = {workflows}}
`)

	authors, err := New(nil).LoadAuthors(first, second)
	require.NoError(t, err)
	require.Len(t, authors, 3)

	jane := authors[0]
	assert.Equal(t, "Jane", jane.FirstName)
	assert.Equal(t, "Doe", jane.LastName)
	assert.Equal(t, "University of Somewhere", jane.Affiliation)
	assert.Equal(t, "us", jane.CountryCode, "derived from the e-mail domain")
	assert.Equal(t, 10, jane.Citations, "first occurrence wins")

	assert.Equal(t, "fr", authors[1].CountryCode)
	assert.Equal(t, 2, authors[1].Citations)

	ana := authors[2]
	assert.Equal(t, "Lima", ana.LastName)
	assert.Equal(t, "gb", ana.CountryCode)
	assert.Equal(t, "workflows", ana.Keywords)
	assert.Equal(t, 0, ana.Citations)
}

func TestParseAuthorsInvalidCitations(t *testing.T) {
	l, logs := observedLoader()
	authors, err := l.ParseAuthors(strings.NewReader("@author{\n first = {Jane},\n last = {Doe},\n citations = {many},\n}\n"), "x.authors")
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, 0, authors[0].Citations)
	assert.Equal(t, 1, logs.FilterMessage("author citations is not a number, assuming 0").Len())
}

func TestParseAuthorsFirstNameOnly(t *testing.T) {
	authors, err := New(nil).ParseAuthors(strings.NewReader("@author{\n first = {Jane Doe},\n}\n"), "x.authors")
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "Jane", authors[0].FirstName)
	assert.Equal(t, "Doe", authors[0].LastName)
}

func TestParseAuthorsRejectsOtherRecords(t *testing.T) {
	_, err := New(nil).ParseAuthors(strings.NewReader("@article{k,\n title = {T},\n}\n"), "x.authors")
	require.Error(t, err)
	assert.ErrorIs(t, err, record.ErrUnknownEntryType)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Line)
}

func TestAuthorsRoundTrip(t *testing.T) {
	in := []record.Author{
		{FirstName: "Jane", LastName: "Doe", Affiliation: "ISI", Email: "jane@isi.edu", CountryCode: "us", Citations: 4},
		{FirstName: "Ana", LastName: "Lima", CountryCode: "br", Keywords: "grids"},
	}
	var b strings.Builder
	require.NoError(t, record.WriteAuthors(&b, in))

	out, err := New(nil).ParseAuthors(strings.NewReader(b.String()), "roundtrip.authors")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
