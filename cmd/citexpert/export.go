package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citexpert/internal/export"
	"github.com/pdiddy/citexpert/internal/loader"
	"github.com/pdiddy/citexpert/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [citation-file...]",
	Short: "Export citation files as CSL-YAML or CSL-JSON",
	Long: `Export loads the citation files, drops duplicate citations and writes
all entries as Citation Style Language items, consumable by Pandoc
(--bibliography) and reference managers.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	inputs, _ := cmd.Flags().GetStringArray("input")
	inputs = append(inputs, args...)
	if len(inputs) == 0 {
		return fmt.Errorf("at least one citation file is required")
	}

	format := cfg.Export.Format
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		format = types.ReportFormat(f)
	}

	c, err := loader.New(logger).Load(inputs...)
	if err != nil {
		return err
	}

	w, closeOutput, err := openOutput(cmd)
	if err != nil {
		return err
	}
	if err := export.Write(w, c.All(), format); err != nil {
		closeOutput()
		return err
	}
	return closeOutput()
}

func init() {
	exportCmd.Flags().StringArrayP("input", "i", nil, "citations file (repeatable)")
	exportCmd.Flags().String("format", "", "export format: yaml or json (default from config)")

	rootCmd.AddCommand(exportCmd)
}
