package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/citexpert/internal/loader"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [citation-file...]",
	Short: "Merge citation files into one, dropping duplicate citations",
	Long: `Merge loads every citation file in order, drops citations whose title
already appeared in an earlier entry and writes the primary entries
followed by the remaining citations to --output.`,
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	inputs, _ := cmd.Flags().GetStringArray("input")
	inputs = append(inputs, args...)
	if len(inputs) == 0 {
		return fmt.Errorf("at least one citation file is required")
	}

	c, err := loader.New(logger).Load(inputs...)
	if err != nil {
		return err
	}
	logger.Info("merged citation files",
		zap.Int("files", len(inputs)), zap.Int("primary", len(c.Primary)),
		zap.Int("citations", len(c.Citations)), zap.Int("duplicates", c.Duplicates))

	return writeEntries(cmd, c)
}

func init() {
	mergeCmd.Flags().StringArrayP("input", "i", nil, "citations file (repeatable)")

	rootCmd.AddCommand(mergeCmd)
}
