// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citexpert CLI. citexpert parses
// collections of citation records, merges and exports them, keeps them in a
// local catalog and runs citation analyses (h-index, self-references and
// citing authors).
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/citexpert/internal/logging"
	"github.com/pdiddy/citexpert/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is populated from citexpert.yaml, CITEXPERT_* variables and .env
	// before any subcommand runs.
	cfg types.Config

	// logger is injected into the loader, the analyses and the catalog.
	logger = zap.NewNop()
)

// rootCmd is the base command for the citexpert CLI.
var rootCmd = &cobra.Command{
	Use:   "citexpert",
	Short: "Citation collection and analysis tool",
	Long: `citexpert reads citation records for a publication and the works that
cite it, removes duplicates across files and analyzes the collection.

Records are kept in a BibTeX-style text format. Entries flagged
main_publication describe the analyzed publication(s); all other entries
are citations. Analyses write the updated records and a YAML or JSON report
with the numeric series for charting.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("reading configuration: %w", err)
		}

		debug, _ := cmd.Flags().GetBool("debug")
		verbose, _ := cmd.Flags().GetBool("verbose")
		log, err := logging.New(logging.Options{Debug: debug, Verbose: verbose, Level: cfg.Log.Level})
		if err != nil {
			return err
		}
		logger = log
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("file", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citexpert.yaml or ~/.config/citexpert/citexpert.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "turn on debugging output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "show progress messages")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output file (default: standard output)")

	viper.SetDefault("log.level", "")
	viper.SetDefault("analysis.report_format", string(types.FormatYAML))
	viper.SetDefault("analysis.reports_dir", "reports")
	viper.SetDefault("analysis.current_year", 0)
	viper.SetDefault("catalog.dir", "catalog")
	viper.SetDefault("catalog.max_results", 20)
	viper.SetDefault("export.format", string(types.FormatYAML))
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citexpert")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citexpert"))
		}
	}

	viper.SetEnvPrefix("CITEXPERT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

// openOutput returns the writer selected by --output and a function that
// closes it. Without --output, records go to standard output.
func openOutput(cmd *cobra.Command) (io.Writer, func() error, error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	logger.Info("writing entries", zap.String("file", path))
	return f, f.Close, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
