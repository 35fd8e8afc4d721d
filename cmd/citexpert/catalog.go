// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citexpert/internal/catalog"
	"github.com/pdiddy/citexpert/internal/loader"
	"github.com/pdiddy/citexpert/internal/record"
	"github.com/pdiddy/citexpert/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the citation catalog (store, retrieve, export)",
	Long: `Catalog manages a local SQLite database of citation entries. Use
subcommands to add citation files, query entries, or export them.`,
}

// --- store subcommand ---

var catalogStoreCmd = &cobra.Command{
	Use:   "store [citation-file...]",
	Short: "Add citation files to the catalog",
	Long: `Store loads the citation files, drops duplicate citations and stores
every entry in the catalog keyed by cite key. Entries already stored with
the same content are skipped; changed entries are replaced.`,
	RunE: runCatalogStore,
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	inputs, _ := cmd.Flags().GetStringArray("input")
	inputs = append(inputs, args...)
	if len(inputs) == 0 {
		return fmt.Errorf("at least one citation file is required")
	}

	c, err := loader.New(logger).Load(inputs...)
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(catalogConfig(cmd), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), c.All(), strings.Join(inputs, ","))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "indexed: %d, updated: %d, skipped: %d, duplicates dropped: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, c.Duplicates)
	return nil
}

// --- retrieve subcommand ---

var catalogRetrieveCmd = &cobra.Command{
	Use:   "retrieve [title words]",
	Short: "Query the catalog by title, author, type or year",
	Long: `Retrieve searches the catalog. Title and author matches ignore case
and diacritics. At least one filter is required.`,
	RunE: runCatalogRetrieve,
}

func runCatalogRetrieve(cmd *cobra.Command, args []string) error {
	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide title words, --author, --type, --year or --main")
	}

	store, err := catalog.NewStore(catalogConfig(cmd), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(entries, jsonOutput)
}

func formatRetrieveOutput(entries []*record.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-14s  %-4s  %-5s  %s\n", "Key", "Type", "Year", "Cites", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, e := range entries {
		key := e.CiteKey
		if len(key) > 20 {
			key = key[:17] + "..."
		}
		title := e.Title
		if e.MainPublication {
			title = "* " + title
		}
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-14s  %-4s  %-5s  %s\n", key, e.EntryType, e.Year, e.Citations, title)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(entries))
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML, JSON or citation records",
	Long: `Export writes the whole catalog (or a filtered subset) to --output.
The bib format writes the entries back in the citation record format.
Supports the same filter flags as retrieve.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(catalogConfig(cmd), logger)
	if err != nil {
		return err
	}
	defer store.Close()

	w, closeOutput, err := openOutput(cmd)
	if err != nil {
		return err
	}
	if err := store.Export(context.Background(), w, opts, types.ReportFormat(format)); err != nil {
		closeOutput()
		return err
	}
	return closeOutput()
}

// --- shared helpers ---

func catalogConfig(cmd *cobra.Command) types.CatalogConfig {
	c := cfg.Catalog
	if dir, _ := cmd.Flags().GetString("catalog-dir"); dir != "" {
		c.Dir = dir
	}
	if c.Dir == "" {
		c.Dir = "catalog"
	}
	if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
		c.MaxResults = n
	}
	return c
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) (catalog.QueryOptions, error) {
	title, _ := cmd.Flags().GetString("title")
	if title == "" && len(args) > 0 {
		title = strings.Join(args, " ")
	}
	author, _ := cmd.Flags().GetString("author")
	typeName, _ := cmd.Flags().GetString("type")
	year, _ := cmd.Flags().GetInt("year")
	mainOnly, _ := cmd.Flags().GetBool("main")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := catalog.QueryOptions{
		Title:      title,
		Author:     author,
		Year:       year,
		MainOnly:   mainOnly,
		MaxResults: limit,
	}
	if typeName != "" {
		t, err := record.ParseEntryType(typeName)
		if err != nil {
			return opts, err
		}
		opts.Type = t
	}
	return opts, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "match title text")
	cmd.Flags().String("author", "", "match author name")
	cmd.Flags().String("type", "", "filter by entry type (article, inproceedings, ...)")
	cmd.Flags().Int("year", 0, "filter by publication year")
	cmd.Flags().Bool("main", false, "only main publication entries")
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("catalog-dir", "", "catalog directory (default from config: catalog)")
	catalogCmd.PersistentFlags().Int("max-results", 0, "default maximum number of query results")

	catalogStoreCmd.Flags().StringArrayP("input", "i", nil, "citations file (repeatable)")

	addFilterFlags(catalogRetrieveCmd)
	catalogRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	addFilterFlags(catalogExportCmd)
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml, json or bib")

	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogRetrieveCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
