// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// AnonymousAuthor is the placeholder used in author lists for omitted authors.
const AnonymousAuthor = "others"

// Author is one person in an author or editor list. LastName is empty when
// the name could not be split.
type Author struct {
	FirstName   string `json:"first" yaml:"first"`
	LastName    string `json:"last,omitempty" yaml:"last,omitempty"`
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
	CountryCode string `json:"country_code,omitempty" yaml:"country_code,omitempty"`
	Citations   int    `json:"citations" yaml:"citations"`
	Keywords    string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// ParseAuthorName builds an Author from a free-text name.
//
// "Last, First" splits at the first comma. Otherwise the name is split on
// whitespace: two tokens are first and last; with more tokens the final
// token is the last name, joined by the second-to-last token when that token
// is a short particle ("de", "da") rather than an initial ("J."). A single
// token becomes the first name and a warning is logged, except for the
// "others" placeholder.
func ParseAuthorName(name string, log *zap.Logger) Author {
	log = orNop(log)
	name = strings.TrimSpace(name)

	if last, first, ok := strings.Cut(name, ","); ok {
		return Author{
			FirstName: strings.TrimSpace(first),
			LastName:  strings.TrimSpace(last),
		}
	}

	tokens := strings.Fields(name)
	switch {
	case len(tokens) == 2:
		return Author{FirstName: tokens[0], LastName: tokens[1]}

	case len(tokens) > 2:
		end := len(tokens) - 1
		last := tokens[end]
		if particle := tokens[end-1]; utf8.RuneCountInString(particle) <= 2 && !strings.HasSuffix(particle, ".") {
			last = particle + " " + last
			end--
		}
		return Author{
			FirstName: strings.Join(tokens[:end], " "),
			LastName:  last,
		}
	}

	if !strings.EqualFold(name, AnonymousAuthor) {
		log.Warn("unable to find last name", zap.String("author", name))
	}
	return Author{FirstName: name}
}

// Equal reports whether a and b name the same person. When both carry a last
// name, first and last names must match; otherwise only first names are
// compared.
func (a Author) Equal(b Author) bool {
	if a.LastName != "" && b.LastName != "" {
		return a.LastName == b.LastName && a.FirstName == b.FirstName
	}
	return a.FirstName == b.FirstName
}

// IsAnonymous reports whether a is the "others" placeholder.
func (a Author) IsAnonymous() bool {
	return a.LastName == "" && strings.EqualFold(a.FirstName, AnonymousAuthor)
}

// String renders the author as "Last, First", or just the first name.
func (a Author) String() string {
	if a.LastName != "" {
		return a.LastName + ", " + a.FirstName
	}
	return a.FirstName
}

// Authors is an ordered author or editor list.
type Authors []Author

// ParseAuthors splits a BibTeX name list on " and " (an upper-case " AND "
// is accepted too) and parses each non-empty name. Empty input yields an
// empty list.
func ParseAuthors(text string, log *zap.Logger) Authors {
	text = strings.ReplaceAll(text, " AND ", " and ")
	var authors Authors
	for _, name := range strings.Split(text, " and ") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		authors = append(authors, ParseAuthorName(name, log))
	}
	return authors
}

// Contains reports whether author is in the list.
func (as Authors) Contains(author Author) bool {
	for _, a := range as {
		if a.Equal(author) {
			return true
		}
	}
	return false
}

// Overlaps reports whether the two lists share at least one author.
func (as Authors) Overlaps(other Authors) bool {
	for _, a := range other {
		if as.Contains(a) {
			return true
		}
	}
	return false
}

func (as Authors) String() string {
	names := make([]string, len(as))
	for i, a := range as {
		names[i] = a.String()
	}
	return strings.Join(names, " and ")
}

// ParseCountryCode maps the top-level domain of an e-mail address to a
// country code. Generic US domains map to "us" and "uk" to "gb".
func ParseCountryCode(tld string) string {
	cc := strings.ToLower(strings.TrimSpace(tld))
	switch cc {
	case "edu", "com", "org", "gov":
		return "us"
	case "uk":
		return "gb"
	}
	return cc
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
