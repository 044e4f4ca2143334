// Package commands implements the ifacegen subcommands.
package commands

import (
	"log/slog"
	"os"

	"github.com/datapour/ifacegen/internal/cli/config"
	"github.com/datapour/ifacegen/internal/cli/output"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the command's config
// and context logger.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	return &config.Config{
		TableName:    os.Getenv("IFACEGEN_TABLE_NAME"),
		MappingSheet: os.Getenv("IFACEGEN_MAPPING_SHEET"),
		ControlFile:  os.Getenv("IFACEGEN_CONTROL_FILE"),
		ColumnsCSV:   os.Getenv("IFACEGEN_COLUMNS_CSV"),
		OutputDir:    getEnvOrDefault("IFACEGEN_OUTPUT_DIR", config.DefaultOutputDir),
		BatchColumn:  os.Getenv("IFACEGEN_BATCH_COLUMN"),
		Verbose:      os.Getenv("IFACEGEN_VERBOSE") == "true",
		OutputFormat: os.Getenv("IFACEGEN_OUTPUT"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// ensureOutputDir creates the output directory if it does not exist.
func ensureOutputDir(cfg *config.Config) error {
	return os.MkdirAll(cfg.OutputDir, 0750)
}

// rendererWithFormat builds a renderer with an explicit format override.
func rendererWithFormat(cmd *cobra.Command, format string) *output.Renderer {
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))
}
