package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/datapour/ifacegen/internal/cli/output"
	"github.com/datapour/ifacegen/internal/render"
	"github.com/datapour/ifacegen/pkg/ddl"
	"github.com/spf13/cobra"
)

// TableOptions holds options for the table command.
type TableOptions struct {
	DryRun bool
	Format string
}

// NewTableCommand creates the table command.
func NewTableCommand() *cobra.Command {
	opts := &TableOptions{}
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Generate a CREATE TABLE script from a column listing",
		Long: `Generate a staging-table CREATE TABLE script from a CSV column listing
(as exported from an Oracle data dictionary: Name, Datatype, Length,
Precision, Not-null).

Datatypes map to Oracle column definitions: VARCHAR2 carries its
length (255 when unspecified), NUMBER carries its precision, and
DATE/TIMESTAMP/CLOB pass through unchanged.`,
		Example: `  # Generate using ifacegen.yaml settings
  ifacegen table

  # Explicit inputs
  ifacegen table --table XX_SUPPLIER_STG --columns-csv columns.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTable(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Generate and report without writing files")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

// tableSummary is the JSON summary for the table command.
type tableSummary struct {
	Table   string   `json:"table"`
	Columns []string `json:"columns"`
	File    string   `json:"file,omitempty"`
}

func runTable(cmd *cobra.Command, opts *TableOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = rendererWithFormat(cmd, opts.Format)
	}

	if err := cfg.RequireTable(); err != nil {
		return err
	}
	if err := cfg.RequireInputs("columns_csv"); err != nil {
		return err
	}

	f, err := os.Open(cfg.ColumnsCSV)
	if err != nil {
		return fmt.Errorf("failed to open columns CSV: %w", err)
	}
	defer func() { _ = f.Close() }()

	columns, err := ddl.ParseColumnsCSV(f)
	if err != nil {
		return fmt.Errorf("failed to parse columns CSV %s: %w", cfg.ColumnsCSV, err)
	}

	cmdCtx.Logger.Debug("generating create table script",
		"table", cfg.TableName,
		"columns", len(columns))

	script, err := render.RenderTemplate(render.CreateTable, map[string]string{
		"TABLE_NAME":  cfg.TableName,
		"DATE":        strings.ToUpper(time.Now().Format("02-Jan-2006")),
		"COLUMN_DEFS": ddl.ColumnDefs(columns),
	})
	if err != nil {
		return err
	}

	summary := tableSummary{Table: cfg.TableName}
	for _, c := range columns {
		summary.Columns = append(summary.Columns, ddl.ColumnDef(c))
	}

	if !opts.DryRun {
		if err := ensureOutputDir(cfg); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		path := filepath.Join(cfg.OutputDir, "create_table_"+cfg.TableName+".sql")
		if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		summary.File = path
	}

	return renderTableSummary(r, &summary, script, opts.DryRun)
}

func renderTableSummary(r *output.Renderer, summary *tableSummary, script string, dryRun bool) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	case output.ModeMarkdown:
		r.Printf("# CREATE TABLE %s\n\n", summary.Table)
		if dryRun {
			r.Println(output.FormatCodeBlock("sql", script))
		} else {
			r.Printf("Wrote `%s` (%d columns)\n", summary.File, len(summary.Columns))
		}
		r.Println("")
		return nil
	default:
		styles := r.Styles()
		r.Println("")
		r.Println(styles.Header1.Render(fmt.Sprintf("CREATE TABLE %s (%d columns)", summary.Table, len(summary.Columns))))
		if dryRun {
			r.Println("")
			r.Println(script)
		} else {
			r.Println(styles.Muted.Render("Wrote " + summary.File))
		}
		r.Println("")
		return nil
	}
}
