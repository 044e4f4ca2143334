// Package config provides configuration management for the ifacegen CLI.
//
// Settings layer in the usual precedence order: defaults, then an
// ifacegen.yaml project file, then IFACEGEN_ environment variables, then
// explicit CLI flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	TableName    string `koanf:"table_name"`
	MappingSheet string `koanf:"mapping_sheet"`
	ControlFile  string `koanf:"control_file"`
	ColumnsCSV   string `koanf:"columns_csv"`
	OutputDir    string `koanf:"output_dir"`
	BatchColumn  string `koanf:"batch_column"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	// ProjectRoot is the directory all relative paths resolve against.
	// Not a config key; inferred at load time.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultOutputDir = "output"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)
