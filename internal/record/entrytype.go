// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEntryType is returned when a record names an entry type outside
// the closed set of supported types.
var ErrUnknownEntryType = errors.New("unknown entry type")

// EntryType identifies the kind of a bibliographic record. It is both the
// record discriminant and a histogram key for the analyses.
type EntryType string

const (
	Article       EntryType = "article"
	Book          EntryType = "book"
	InCollection  EntryType = "incollection"
	InProceedings EntryType = "inproceedings"
	MastersThesis EntryType = "mastersthesis"
	PhDThesis     EntryType = "phdthesis"
	Misc          EntryType = "misc"
	Proceedings   EntryType = "proceedings"
	TechReport    EntryType = "techreport"
)

// entryTypes lists every supported type in histogram order.
var entryTypes = []EntryType{
	Article,
	Book,
	InCollection,
	InProceedings,
	MastersThesis,
	PhDThesis,
	Misc,
	Proceedings,
	TechReport,
}

// EntryTypes returns all supported entry types in a stable order.
func EntryTypes() []EntryType {
	out := make([]EntryType, len(entryTypes))
	copy(out, entryTypes)
	return out
}

// ParseEntryType resolves name case-insensitively against the supported
// entry types. Surrounding whitespace is ignored.
func ParseEntryType(name string) (EntryType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: entry type not found", ErrUnknownEntryType)
	}
	for _, t := range entryTypes {
		if strings.EqualFold(name, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEntryType, name)
}

// Valid reports whether t is one of the supported entry types.
func (t EntryType) Valid() bool {
	for _, known := range entryTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns a human-readable name for charts and reports.
func (t EntryType) Label() string {
	switch t {
	case Article:
		return "Article"
	case Book:
		return "Book"
	case InCollection:
		return "In Collection"
	case InProceedings:
		return "In Proceedings"
	case MastersThesis:
		return "Master Thesis"
	case PhDThesis:
		return "PhD Thesis"
	case Misc:
		return "Misc"
	case Proceedings:
		return "Proceedings"
	case TechReport:
		return "Tech Report"
	}
	return string(t)
}

func (t EntryType) String() string {
	return string(t)
}
