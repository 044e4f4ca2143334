package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/datapour/ifacegen/internal/cli/output"
	"github.com/datapour/ifacegen/internal/render"
	"github.com/datapour/ifacegen/pkg/ctl"
	"github.com/datapour/ifacegen/pkg/mapping"
	"github.com/spf13/cobra"
)

// SpoolOptions holds options for the spool command.
type SpoolOptions struct {
	SpoolPath string // Target CSV path embedded in the SPOOL directive
	DryRun    bool
	Format    string
}

// NewSpoolCommand creates the spool command.
func NewSpoolCommand() *cobra.Command {
	opts := &SpoolOptions{}
	cmd := &cobra.Command{
		Use:   "spool",
		Short: "Generate a spool query from a SQL*Loader control file",
		Long: `Generate a SQL*Plus spool query that exports validated staging rows in
the exact column order of the SQL*Loader control file.

Columns loaded as constants are excluded: they were never part of the
source data file, so they have no place in the export. Entries that do
not look like column definitions are skipped with a warning.`,
		Example: `  # Generate using ifacegen.yaml settings
  ifacegen spool

  # Explicit inputs
  ifacegen spool --table XX_SUPPLIER_STG --control-file loader.ctl

  # Custom spool target inside the query
  ifacegen spool --spool-path /u01/out/suppliers.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSpool(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.SpoolPath, "spool-path", "", "CSV path for the SPOOL directive (default: <TABLE>_export.csv)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Generate and report without writing files")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

// spoolSummary is the JSON summary for the spool command.
type spoolSummary struct {
	Table       string   `json:"table"`
	BatchColumn string   `json:"batch_column"`
	Columns     []string `json:"columns"`
	Warnings    []string `json:"warnings,omitempty"`
	File        string   `json:"file,omitempty"`
}

func runSpool(cmd *cobra.Command, opts *SpoolOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = rendererWithFormat(cmd, opts.Format)
	}

	if err := cfg.RequireTable(); err != nil {
		return err
	}
	if err := cfg.RequireInputs("control_file"); err != nil {
		return err
	}

	raw, err := os.ReadFile(cfg.ControlFile)
	if err != nil {
		return fmt.Errorf("failed to read control file: %w", err)
	}

	ctlFile, err := ctl.Parse(string(raw))
	if err != nil {
		return fmt.Errorf("failed to parse control file %s: %w", cfg.ControlFile, err)
	}
	columns := ctlFile.ExportColumns()

	batchColumn := cfg.BatchColumn
	if batchColumn == "" {
		batchColumn, err = mapping.DetectBatchColumn(columns)
		if errors.Is(err, mapping.ErrBatchColumnNotFound) {
			return fmt.Errorf("%w\nHint: Pass --batch-column or set batch_column in ifacegen.yaml", err)
		}
		if err != nil {
			return err
		}
	}

	cmdCtx.Logger.Debug("generating spool query",
		"table", cfg.TableName,
		"columns", len(columns),
		"batch_column", batchColumn)

	spoolPath := opts.SpoolPath
	if spoolPath == "" {
		spoolPath = cfg.TableName + "_export.csv"
	}

	query, err := render.RenderTemplate(render.SpoolQuery, map[string]string{
		"TABLE_NAME":     cfg.TableName,
		"BATCH_COLUMN":   batchColumn,
		"SPOOL_CSV_PATH": spoolPath,
		"SELECT_COLUMNS": selectList(columns),
	})
	if err != nil {
		return err
	}

	summary := spoolSummary{
		Table:       cfg.TableName,
		BatchColumn: batchColumn,
		Columns:     columns,
		Warnings:    ctlFile.Warnings,
	}

	if !opts.DryRun {
		if err := ensureOutputDir(cfg); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		path := filepath.Join(cfg.OutputDir, cfg.TableName+"_Spool_Query.sql")
		if err := os.WriteFile(path, []byte(query), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		summary.File = path
	}

	return renderSpoolSummary(r, &summary, query, opts.DryRun)
}

// selectList renders column names as an indented comma-separated SELECT list.
func selectList(columns []string) string {
	indented := make([]string, len(columns))
	for i, c := range columns {
		indented[i] = "    " + c
	}
	return strings.Join(indented, ",\n")
}

func renderSpoolSummary(r *output.Renderer, summary *spoolSummary, query string, dryRun bool) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	case output.ModeMarkdown:
		r.Printf("# Spool query for %s\n\n", summary.Table)
		r.Printf("Exports %d columns, batch column `%s`.\n\n", len(summary.Columns), summary.BatchColumn)
		for _, w := range summary.Warnings {
			r.Println("> Warning: " + w)
		}
		if dryRun {
			r.Println(output.FormatCodeBlock("sql", query))
		} else {
			r.Printf("Wrote `%s`\n", summary.File)
		}
		r.Println("")
		return nil
	default:
		styles := r.Styles()
		r.Println("")
		r.Println(styles.Header1.Render(fmt.Sprintf("Spool query for %s (%d columns)", summary.Table, len(summary.Columns))))
		r.Printf("  %s: %s\n", styles.Bold.Render("Batch column"), summary.BatchColumn)
		for _, w := range summary.Warnings {
			r.Println(styles.Warning.Render("Warning: " + w))
		}
		if dryRun {
			r.Println("")
			r.Println(query)
		} else {
			r.Println(styles.Muted.Render("Wrote " + summary.File))
		}
		r.Println("")
		return nil
	}
}
