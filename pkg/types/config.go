package types

// LogConfig holds logging settings.
type LogConfig struct {
	// Level overrides the level chosen by --debug/--verbose
	// (debug, info, warn, error). Empty keeps the flag-derived level.
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// ReportFormat selects the encoding of analysis reports and exports.
type ReportFormat string

const (
	FormatYAML ReportFormat = "yaml"
	FormatJSON ReportFormat = "json"

	// FormatRecords is the citation record text format. Only the catalog
	// export accepts it.
	FormatRecords ReportFormat = "bib"
)

// AnalysisConfig holds settings for the analyze and authors commands.
type AnalysisConfig struct {
	// ReportFormat selects the report encoding: yaml or json.
	ReportFormat ReportFormat `json:"report_format" yaml:"report_format" mapstructure:"report_format"`

	// ReportsDir is where reports are written when no report path is given.
	ReportsDir string `json:"reports_dir" yaml:"reports_dir" mapstructure:"reports_dir"`

	// CurrentYear ends the yearly series. Zero means the current calendar year.
	CurrentYear int `json:"current_year" yaml:"current_year" mapstructure:"current_year"`
}

// CatalogConfig holds settings for the SQLite catalog.
type CatalogConfig struct {
	// Dir is the directory holding the catalog database.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ExportConfig holds settings for the export command.
type ExportConfig struct {
	// Format selects CSL-YAML or CSL-JSON output.
	Format ReportFormat `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all citexpert settings as read from citexpert.yaml and
// CITEXPERT_* environment variables.
type Config struct {
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis" mapstructure:"analysis"`
	Catalog  CatalogConfig  `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Export   ExportConfig   `json:"export" yaml:"export" mapstructure:"export"`
}
