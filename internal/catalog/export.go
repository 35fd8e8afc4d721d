// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citexpert/internal/record"
	"github.com/pdiddy/citexpert/pkg/types"
)

// ExportEntry is the summary of one catalog entry written by Export.
type ExportEntry struct {
	CiteKey         string   `json:"cite_key" yaml:"cite_key"`
	EntryType       string   `json:"entry_type" yaml:"entry_type"`
	Title           string   `json:"title" yaml:"title"`
	Year            string   `json:"year,omitempty" yaml:"year,omitempty"`
	Authors         []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	MainPublication bool     `json:"main_publication" yaml:"main_publication"`
	Citations       int      `json:"citations" yaml:"citations"`
	OpSelf          *bool    `json:"op_self,omitempty" yaml:"op_self,omitempty"`
}

const exportLimit = 100000

// Export writes the entries matching opts as YAML, JSON or citation
// records.
func (s *Store) Export(ctx context.Context, w io.Writer, opts QueryOptions, format types.ReportFormat) error {
	opts.MaxResults = exportLimit
	entries, err := s.Retrieve(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	switch format {
	case types.FormatRecords:
		return record.WriteEntries(w, entries)
	case types.FormatYAML, "":
		data, err := yaml.Marshal(exportEntries(entries))
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case types.FormatJSON:
		data, err := json.MarshalIndent(exportEntries(entries), "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	}
	return fmt.Errorf("unsupported export format %q", format)
}

func exportEntries(entries []*record.Entry) []ExportEntry {
	out := make([]ExportEntry, len(entries))
	for i, e := range entries {
		citations, _ := e.CitationCount()
		out[i] = ExportEntry{
			CiteKey:         e.CiteKey,
			EntryType:       string(e.EntryType),
			Title:           e.Title,
			Year:            e.Year,
			MainPublication: e.MainPublication,
			Citations:       citations,
			OpSelf:          e.OpSelf,
		}
		for _, a := range e.Authors {
			out[i].Authors = append(out[i].Authors, a.String())
		}
	}
	return out
}
