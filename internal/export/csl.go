// Package export converts loaded citation entries to CSL (Citation Style
// Language) items so collections can be handed to Pandoc and reference
// managers.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citexpert/internal/record"
	"github.com/pdiddy/citexpert/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL format. The field names
// and structure follow the CSL-JSON/CSL-YAML schema.
type CSLItem struct {
	ID             string    `json:"id" yaml:"id"`
	Type           string    `json:"type" yaml:"type"`
	Title          string    `json:"title,omitempty" yaml:"title,omitempty"`
	Author         []CSLName `json:"author,omitempty" yaml:"author,omitempty"`
	Editor         []CSLName `json:"editor,omitempty" yaml:"editor,omitempty"`
	ContainerTitle string    `json:"container-title,omitempty" yaml:"container-title,omitempty"`
	CollectionName string    `json:"collection-title,omitempty" yaml:"collection-title,omitempty"`
	Publisher      string    `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PublisherPlace string    `json:"publisher-place,omitempty" yaml:"publisher-place,omitempty"`
	Genre          string    `json:"genre,omitempty" yaml:"genre,omitempty"`
	Edition        string    `json:"edition,omitempty" yaml:"edition,omitempty"`
	Volume         string    `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue          string    `json:"issue,omitempty" yaml:"issue,omitempty"`
	Page           string    `json:"page,omitempty" yaml:"page,omitempty"`
	Issued         *CSLDate  `json:"issued,omitempty" yaml:"issued,omitempty"`
	Note           string    `json:"note,omitempty" yaml:"note,omitempty"`
	DOI            string    `json:"DOI,omitempty" yaml:"DOI,omitempty"`
	URL            string    `json:"URL,omitempty" yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `json:"date-parts" yaml:"date-parts"`
}

var cslTypes = map[record.EntryType]string{
	record.Article:       "article-journal",
	record.Book:          "book",
	record.InCollection:  "chapter",
	record.InProceedings: "paper-conference",
	record.MastersThesis: "thesis",
	record.PhDThesis:     "thesis",
	record.Misc:          "document",
	record.Proceedings:   "book",
	record.TechReport:    "report",
}

// Items converts entries to CSL items, preserving order.
func Items(entries []*record.Entry) []CSLItem {
	items := make([]CSLItem, len(entries))
	for i, e := range entries {
		items[i] = toCSLItem(e)
	}
	return items
}

// Write encodes entries as a CSL-YAML or CSL-JSON list. An empty format
// means YAML.
func Write(w io.Writer, entries []*record.Entry, format types.ReportFormat) error {
	items := Items(entries)
	switch format {
	case types.FormatYAML, "":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(items)
	case types.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// toCSLItem converts an Entry to a CSLItem.
func toCSLItem(e *record.Entry) CSLItem {
	item := CSLItem{
		ID:             e.CiteKey,
		Type:           cslTypes[e.EntryType],
		Title:          unescape(e.Title),
		Author:         cslNames(e.Authors),
		Editor:         cslNames(e.Editors),
		CollectionName: unescape(e.Series),
		PublisherPlace: unescape(e.Address),
		Edition:        e.Edition,
		Volume:         e.Volume,
		Issue:          e.Number,
		Page:           strings.ReplaceAll(e.Pages, "--", "-"),
		Note:           unescape(e.Note),
		DOI:            unescape(e.DOI),
		URL:            unescape(e.URL),
	}
	if item.Type == "" {
		item.Type = "document"
	}

	switch {
	case e.Journal != "":
		item.ContainerTitle = unescape(e.Journal)
	case e.Booktitle != "":
		item.ContainerTitle = unescape(e.Booktitle)
	}

	// Theses and reports name the issuing body as publisher.
	for _, p := range []string{e.Publisher, e.School, e.Institution, e.Organization} {
		if p != "" {
			item.Publisher = unescape(p)
			break
		}
	}

	switch e.EntryType {
	case record.PhDThesis:
		item.Genre = "PhD thesis"
	case record.MastersThesis:
		item.Genre = "Master's thesis"
	case record.TechReport:
		item.Genre = unescape(e.Type)
	}

	if y, err := e.YearInt(); err == nil {
		parts := []int{y}
		if m := monthNumber(e.Month); m > 0 {
			parts = append(parts, m)
		}
		item.Issued = &CSLDate{DateParts: [][]int{parts}}
	}

	return item
}

// cslNames converts an author list to CSL names. The anonymous placeholder
// has no CSL equivalent and is dropped.
func cslNames(authors record.Authors) []CSLName {
	var names []CSLName
	for _, a := range authors {
		switch {
		case a.IsAnonymous():
			continue
		case a.LastName == "":
			names = append(names, CSLName{Literal: unescape(a.FirstName)})
		default:
			names = append(names, CSLName{Family: unescape(a.LastName), Given: unescape(a.FirstName)})
		}
	}
	return names
}

var months = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// monthNumber parses a numeric month or an English month name. It returns
// zero when the value is not a month.
func monthNumber(month string) int {
	month = strings.ToLower(strings.TrimSpace(month))
	if n, err := strconv.Atoi(month); err == nil {
		if n >= 1 && n <= 12 {
			return n
		}
		return 0
	}
	if len(month) < 3 {
		return 0
	}
	for i, m := range months {
		if strings.HasPrefix(month, m) {
			return i + 1
		}
	}
	return 0
}

var unescaper = strings.NewReplacer(`\_`, "_", `\#`, "#")

// unescape reverts the text-format escaping of "_" and "#".
func unescape(v string) string {
	return unescaper.Replace(v)
}
