package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citexpert/internal/loader"
	"github.com/pdiddy/citexpert/internal/record"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [record-file]",
	Short: "Convert one raw search-engine record into the citation format",
	Long: `Ingest reads a single raw record, as exported by a scholarly search
engine, from the given file or standard input. The citation count and URL
reported by the search engine are added unless the record carries its own
values. With --main the record is flagged as the analyzed publication.

The normalized record is appended to --output, or written to standard
output, so a harvesting script can call ingest once per result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	citations, _ := cmd.Flags().GetInt("citations")
	url, _ := cmd.Flags().GetString("url")
	primary, _ := cmd.Flags().GetBool("main")

	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading record: %w", err)
	}

	e, err := loader.New(logger).ParseRecord(string(data), citations, url)
	if err != nil {
		return err
	}
	if primary {
		e.MainPublication = true
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		out, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening output file: %w", err)
		}
		defer out.Close()
	}
	_, err = io.WriteString(out, record.Format(e))
	return err
}

func init() {
	ingestCmd.Flags().Int("citations", 0, "citation count reported by the search engine")
	ingestCmd.Flags().String("url", "", "URL of the record at the search engine")
	ingestCmd.Flags().Bool("main", false, "flag the record as the analyzed publication")

	rootCmd.AddCommand(ingestCmd)
}
