// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format renders an entry in the persisted text format. Fields appear in a
// fixed order and absent fields are omitted.
func Format(e *Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", e.EntryType, e.CiteKey)
	for _, f := range fieldOrder {
		if v, ok := e.value(f); ok {
			b.WriteString(formatField(string(f), v, f.capitalized()))
		}
	}
	b.WriteString("}\n\n")
	return b.String()
}

// FormatAuthor renders an author as an @author record.
func FormatAuthor(a Author) string {
	var b strings.Builder
	b.WriteString("@author{\n")
	writeOptional(&b, "first", a.FirstName)
	writeOptional(&b, "last", a.LastName)
	writeOptional(&b, "affiliation", a.Affiliation)
	writeOptional(&b, "email", a.Email)
	writeOptional(&b, "country_code", a.CountryCode)
	b.WriteString(formatField("citations", strconv.Itoa(a.Citations), false))
	writeOptional(&b, "keywords", a.Keywords)
	b.WriteString("}\n\n")
	return b.String()
}

// WriteEntries writes each entry to w in order.
func WriteEntries(w io.Writer, entries []*Entry) error {
	for _, e := range entries {
		if _, err := io.WriteString(w, Format(e)); err != nil {
			return fmt.Errorf("writing entry %s: %w", e.CiteKey, err)
		}
	}
	return nil
}

// WriteAuthors writes each author to w as an @author record.
func WriteAuthors(w io.Writer, authors []Author) error {
	for _, a := range authors {
		if _, err := io.WriteString(w, FormatAuthor(a)); err != nil {
			return fmt.Errorf("writing author %s: %w", a, err)
		}
	}
	return nil
}

// Escape prepares a value for the text format: "_" and "#" are
// backslash-escaped and "$" is removed. Already escaped characters are left
// alone, so Escape(Escape(v)) == Escape(v).
func Escape(v string) string {
	v = strings.ReplaceAll(v, "_", `\_`)
	v = strings.ReplaceAll(v, `\\_`, `\_`)
	v = strings.ReplaceAll(v, "#", `\#`)
	v = strings.ReplaceAll(v, `\\#`, `\#`)
	return strings.ReplaceAll(v, "$", "")
}

func writeOptional(b *strings.Builder, name, value string) {
	if value != "" {
		b.WriteString(formatField(name, value, false))
	}
}

func formatField(name, value string, capitalized bool) string {
	if capitalized {
		return fmt.Sprintf("\t%s = {{%s}},\n", name, Escape(value))
	}
	return fmt.Sprintf("\t%s = {%s},\n", name, Escape(value))
}
