package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/datapour/ifacegen/internal/cli/output"
	"github.com/datapour/ifacegen/internal/render"
	"github.com/datapour/ifacegen/pkg/mapping"
	"github.com/datapour/ifacegen/pkg/plsql"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// CompileOptions holds options for the compile command.
type CompileOptions struct {
	DryRun bool // Render without writing files
	Format string
}

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	opts := &CompileOptions{}
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile mapping-sheet rules into a validation package",
		Long: `Compile a mapping sheet's validation and transformation rules into an
Oracle PL/SQL validation package for a staging table.

Reads the mapping sheet CSV, matches each free-text rule against the
known rule patterns, and writes a package spec (.pks), a package body
(.pkb), and a JSON manifest recording how each rule was handled.
Rules that match no pattern are emitted as TODO comments for a
developer to complete; they are never guessed.`,
		Example: `  # Compile using ifacegen.yaml settings
  ifacegen compile

  # Explicit inputs
  ifacegen compile --table XX_SUPPLIER_STG --mapping-sheet mapping.csv

  # Inspect without writing artifacts
  ifacegen compile --dry-run

  # Machine-readable summary
  ifacegen compile --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompile(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Compile and report without writing files")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

// ruleDisposition records how one mapping-sheet rule was compiled, for
// the manifest and the run summary.
type ruleDisposition struct {
	Field    string   `json:"field"`
	Phase    string   `json:"phase"`
	Rule     string   `json:"rule,omitempty"`
	Pattern  string   `json:"pattern,omitempty"`
	SQL      string   `json:"sql,omitempty"`
	TODO     string   `json:"todo,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// compileManifest is the JSON manifest written alongside the package files.
type compileManifest struct {
	RunID       string            `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Table       string            `json:"table"`
	BatchColumn string            `json:"batch_column"`
	Rules       []ruleDisposition `json:"rules"`
	TODOCount   int               `json:"todo_count"`
	Files       []string          `json:"files,omitempty"`
}

func runCompile(cmd *cobra.Command, opts *CompileOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = rendererWithFormat(cmd, opts.Format)
	}

	if err := cfg.RequireTable(); err != nil {
		return err
	}
	if err := cfg.RequireInputs("mapping_sheet"); err != nil {
		return err
	}

	f, err := os.Open(cfg.MappingSheet)
	if err != nil {
		return fmt.Errorf("failed to open mapping sheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	fields, err := mapping.ParseSheet(f)
	if err != nil {
		return fmt.Errorf("failed to parse mapping sheet %s: %w", cfg.MappingSheet, err)
	}

	batchColumn, err := resolveBatchColumn(cfg.BatchColumn, fields)
	if err != nil {
		return err
	}

	cmdCtx.Logger.Debug("compiling mapping sheet",
		"table", cfg.TableName,
		"fields", len(fields),
		"batch_column", batchColumn)

	result, err := plsql.Compile(fields, plsql.Options{
		TableName:   cfg.TableName,
		BatchColumn: batchColumn,
	})
	if err != nil {
		return err
	}

	pkgName := cfg.TableName + "_VAL_PKG"
	replacements := map[string]string{
		"PKG_NAME":             pkgName,
		"TABLE_NAME":           cfg.TableName,
		"DATE":                 strings.ToUpper(time.Now().Format("02-Jan-2006")),
		"BATCH_COLUMN":         batchColumn,
		"MANDATORY_CHECKS":     result.Section(plsql.PhaseMandatory),
		"VALIDATION_CHECKS":    result.Section(plsql.PhaseValidation),
		"TRANSFORMATION_LOGIC": result.Section(plsql.PhaseTransformation),
	}

	spec, err := render.RenderTemplate(render.PackageSpec, replacements)
	if err != nil {
		return err
	}
	body, err := render.RenderTemplate(render.PackageBody, replacements)
	if err != nil {
		return err
	}

	manifest := compileManifest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Table:       cfg.TableName,
		BatchColumn: batchColumn,
		Rules:       dispositions(result),
		TODOCount:   result.TODOCount(),
	}

	if !opts.DryRun {
		if err := ensureOutputDir(cfg); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		for _, art := range []struct {
			name    string
			content string
		}{
			{cfg.TableName + "_VAL_PKG.pks", spec},
			{cfg.TableName + "_VAL_PKG.pkb", body},
		} {
			path := filepath.Join(cfg.OutputDir, art.name)
			if err := os.WriteFile(path, []byte(art.content), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			manifest.Files = append(manifest.Files, path)
		}

		manifestPath := filepath.Join(cfg.OutputDir, cfg.TableName+"_mapping_rules.json")
		data, err := json.MarshalIndent(manifest, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", manifestPath, err)
		}
		manifest.Files = append(manifest.Files, manifestPath)
	}

	return renderCompileSummary(r, &manifest, result, opts.DryRun)
}

// resolveBatchColumn uses the configured override when set, otherwise
// detects the batch column from the sheet's field names.
func resolveBatchColumn(override string, fields []mapping.FieldRule) (string, error) {
	if override != "" {
		return override, nil
	}
	col, err := mapping.DetectBatchColumn(mapping.FieldNames(fields))
	if errors.Is(err, mapping.ErrBatchColumnNotFound) {
		return "", fmt.Errorf("%w\nHint: Pass --batch-column or set batch_column in ifacegen.yaml", err)
	}
	return col, err
}

func dispositions(result *plsql.Result) []ruleDisposition {
	out := make([]ruleDisposition, 0, len(result.Rules))
	for _, cr := range result.Rules {
		out = append(out, ruleDisposition{
			Field:    cr.Field,
			Phase:    cr.Phase.String(),
			Rule:     cr.Rule,
			Pattern:  cr.Pattern,
			SQL:      cr.SQL,
			TODO:     cr.TODO,
			Warnings: cr.Warnings,
		})
	}
	return out
}

func renderCompileSummary(r *output.Renderer, manifest *compileManifest, result *plsql.Result, dryRun bool) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(manifest)
	case output.ModeMarkdown:
		return compileSummaryMarkdown(r, manifest, result, dryRun)
	default:
		return compileSummaryText(r, manifest, result, dryRun)
	}
}

func compileSummaryText(r *output.Renderer, manifest *compileManifest, result *plsql.Result, dryRun bool) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Compiled %s (%d rules)", manifest.Table, len(manifest.Rules))))
	r.Println("")

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Phase", "Field", "Pattern", "Disposition"})
	for _, d := range manifest.Rules {
		t.AppendRow(table.Row{d.Phase, d.Field, d.Pattern, dispositionLabel(d)})
	}
	t.Render()
	r.Println("")

	if manifest.TODOCount > 0 {
		r.Println(styles.Warning.Render(fmt.Sprintf("%d rule(s) need manual completion (search the package body for TODO)", manifest.TODOCount)))
	} else {
		r.Println(styles.Success.Render("All rules compiled to SQL"))
	}
	for _, w := range result.Warnings() {
		r.Println(styles.Warning.Render("Warning: " + w))
	}

	if dryRun {
		r.Println(styles.Muted.Render("Dry run: no files written"))
	} else {
		for _, f := range manifest.Files {
			r.Println(styles.Muted.Render("Wrote " + f))
		}
	}
	r.Println("")
	return nil
}

func compileSummaryMarkdown(r *output.Renderer, manifest *compileManifest, result *plsql.Result, dryRun bool) error {
	r.Printf("# Compiled %s\n\n", manifest.Table)
	r.Printf("Batch column: `%s`\n\n", manifest.BatchColumn)

	r.Println("| Phase | Field | Pattern | Disposition |")
	r.Println("| --- | --- | --- | --- |")
	for _, d := range manifest.Rules {
		r.Printf("| %s | %s | %s | %s |\n", d.Phase, d.Field, d.Pattern, dispositionLabel(d))
	}
	r.Println("")

	if manifest.TODOCount > 0 {
		r.Printf("**%d rule(s) need manual completion.**\n\n", manifest.TODOCount)
	}
	for _, w := range result.Warnings() {
		r.Println("> Warning: " + w)
	}
	if !dryRun {
		for _, f := range manifest.Files {
			r.Printf("- Wrote `%s`\n", f)
		}
	}
	r.Println("")
	return nil
}

func dispositionLabel(d ruleDisposition) string {
	switch {
	case d.TODO != "":
		return "TODO"
	case len(d.Warnings) > 0:
		return "sql (" + strings.Join(d.Warnings, "; ") + ")"
	case d.SQL != "":
		return "sql"
	default:
		return ""
	}
}
