// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/citexpert/internal/analysis"
	"github.com/pdiddy/citexpert/internal/loader"
	"github.com/pdiddy/citexpert/internal/record"
	"github.com/pdiddy/citexpert/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a citation analysis over one or more citation files",
	Long: `Analyze loads the citation files given with -i, removes duplicate
citations and runs one analysis:

  self     mark citations sharing an author with the publication (op_self)
           and count self and external citations per year and entry type
  h-index  compute the h-index of the citing works and its yearly evolution
  author   count the distinct citing authors and write them to
           <first input>.authors

The updated entries are written to --output (or standard output) and the
numeric report to --report (default: <reports_dir>/<first input>-<analysis>.yaml).`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("analysis")
	inputs, _ := cmd.Flags().GetStringArray("input")

	if !slices.Contains(types.AnalysisKinds, types.AnalysisKind(kind)) {
		return fmt.Errorf("unsupported analysis type %q: use one of %v", kind, types.AnalysisKinds)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("a file with all citations should be provided (-i)")
	}

	c, err := loader.New(logger).LoadEntries(inputs...)
	if err != nil {
		return err
	}
	logger.Info("loaded citation files",
		zap.Int("primary", len(c.Primary)), zap.Int("citations", len(c.Citations)), zap.Int("duplicates", c.Duplicates))

	a := analysis.New(logger, currentYear(cmd))

	var report any
	switch types.AnalysisKind(kind) {
	case types.AnalysisHIndex:
		report = a.HIndex(c.Primary, c.Citations)
	case types.AnalysisSelfReference:
		report = a.SelfReference(c.Primary, c.Citations)
	case types.AnalysisAuthor:
		r, citing := a.AuthorCount(c.Primary, c.Citations)
		if err := writeAuthorsFile(authorsPath(inputs[0]), citing); err != nil {
			return err
		}
		report = r
	}

	if err := writeEntries(cmd, c); err != nil {
		return err
	}
	return writeReport(cmd, inputs[0], kind, report)
}

// writeEntries writes primary entries followed by citation entries.
func writeEntries(cmd *cobra.Command, c *loader.Collection) error {
	w, closeOutput, err := openOutput(cmd)
	if err != nil {
		return err
	}
	if err := record.WriteEntries(w, c.All()); err != nil {
		closeOutput()
		return err
	}
	return closeOutput()
}

// authorsPath replaces the extension of the first input with ".authors".
func authorsPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".authors"
}

func writeAuthorsFile(path string, authors []record.Author) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating authors file: %w", err)
	}
	if err := record.WriteAuthors(f, authors); err != nil {
		f.Close()
		return err
	}
	logger.Info("wrote citing authors", zap.String("file", path), zap.Int("authors", len(authors)))
	return f.Close()
}

// writeReport writes an analysis report to --report, or to the reports
// directory named after the first input and the analysis.
func writeReport(cmd *cobra.Command, input, name string, report any) error {
	format := cfg.Analysis.ReportFormat
	if f, _ := cmd.Flags().GetString("report-format"); f != "" {
		format = types.ReportFormat(f)
	}
	if format == "" {
		format = types.FormatYAML
	}

	path, _ := cmd.Flags().GetString("report")
	if path == "" {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		path = filepath.Join(cfg.Analysis.ReportsDir, fmt.Sprintf("%s-%s.%s", base, name, format))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating reports directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	if err := analysis.WriteReport(f, report, format); err != nil {
		f.Close()
		return err
	}
	logger.Info("wrote report", zap.String("file", path))
	return f.Close()
}

func currentYear(cmd *cobra.Command) int {
	if y, _ := cmd.Flags().GetInt("current-year"); y > 0 {
		return y
	}
	return cfg.Analysis.CurrentYear
}

func init() {
	analyzeCmd.Flags().StringP("analysis", "a", "", "analysis to run: self, h-index or author")
	analyzeCmd.Flags().StringArrayP("input", "i", nil, "citations file (repeatable)")
	analyzeCmd.Flags().String("report", "", "report file (default: <reports_dir>/<input>-<analysis>.<format>)")
	analyzeCmd.Flags().String("report-format", "", "report format: yaml or json (default from config)")
	analyzeCmd.Flags().Int("current-year", 0, "last year of the yearly series (default: this year)")
	_ = analyzeCmd.MarkFlagRequired("analysis")

	rootCmd.AddCommand(analyzeCmd)
}
