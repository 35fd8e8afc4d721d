package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/citexpert/internal/analysis"
	"github.com/pdiddy/citexpert/internal/loader"
	"github.com/pdiddy/citexpert/internal/record"
)

var authorsCmd = &cobra.Command{
	Use:   "authors",
	Short: "Build the authors-per-country map from authors files",
	Long: `Authors loads one or more authors files (as written by
"analyze -a author"), removes duplicate authors, writes the remaining
authors to --output and reports how many authors come from each country.`,
	RunE: runAuthors,
}

func runAuthors(cmd *cobra.Command, args []string) error {
	files, _ := cmd.Flags().GetStringArray("authors-map")
	files = append(files, args...)
	if len(files) == 0 {
		return fmt.Errorf("an authors file should be provided (-m)")
	}

	authors, err := loader.New(logger).LoadAuthors(files...)
	if err != nil {
		return err
	}
	logger.Info("creating authors map", zap.Int("authors", len(authors)))

	w, closeOutput, err := openOutput(cmd)
	if err != nil {
		return err
	}
	if err := record.WriteAuthors(w, authors); err != nil {
		closeOutput()
		return err
	}
	if err := closeOutput(); err != nil {
		return err
	}

	return writeReport(cmd, files[0], "authormap", analysis.AuthorMap(authors))
}

func init() {
	authorsCmd.Flags().StringArrayP("authors-map", "m", nil, "authors file (repeatable)")
	authorsCmd.Flags().String("report", "", "report file (default: <reports_dir>/<input>-authormap.<format>)")
	authorsCmd.Flags().String("report-format", "", "report format: yaml or json (default from config)")

	rootCmd.AddCommand(authorsCmd)
}
