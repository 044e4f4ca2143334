package commands

import (
	"encoding/json"
	"fmt"

	"github.com/datapour/ifacegen/internal/cli/output"
	"github.com/datapour/ifacegen/pkg/plsql"
	"github.com/spf13/cobra"
)

// PatternsOptions holds options for the patterns command.
type PatternsOptions struct {
	Format string
}

// NewPatternsCommand creates the patterns command.
func NewPatternsCommand() *cobra.Command {
	opts := &PatternsOptions{}
	cmd := &cobra.Command{
		Use:   "patterns [pattern-name]",
		Short: "List recognized validation rule patterns",
		Long: `List the free-text rule patterns the compiler recognizes.

Patterns are tried in a fixed order; the first match wins. Rules that
match none of them are compiled to TODO comments rather than guessed
SQL.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all patterns
  ifacegen patterns

  # Show details for one pattern
  ifacegen patterns allowed-values

  # Output as JSON
  ifacegen patterns --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showPattern(cmd, args[0], opts)
			}
			return listPatterns(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func listPatterns(cmd *cobra.Command, opts *PatternsOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = rendererWithFormat(cmd, opts.Format)
	}

	patterns := plsql.Patterns()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(patterns)
	case output.ModeMarkdown:
		return listPatternsMarkdown(r, patterns)
	default:
		return listPatternsText(r, patterns)
	}
}

func showPattern(cmd *cobra.Command, name string, opts *PatternsOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = rendererWithFormat(cmd, opts.Format)
	}

	var pattern *plsql.PatternInfo
	for _, p := range plsql.Patterns() {
		if p.Name == name {
			pattern = &p
			break
		}
	}
	if pattern == nil {
		return fmt.Errorf("pattern %q not found", name)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		enc := json.NewEncoder(r.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(pattern)
	case output.ModeMarkdown:
		return showPatternMarkdown(r, pattern)
	default:
		return showPatternText(r, pattern)
	}
}

// listPatternsText outputs patterns in styled text format.
func listPatternsText(r *output.Renderer, patterns []plsql.PatternInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Rule Patterns (%d, tried in order)", len(patterns))))
	r.Println("")

	for i, p := range patterns {
		r.Printf("  %d. %s - %s\n", i+1, styles.Bold.Render(p.Name), p.Description)
	}

	r.Println("")
	r.Println(styles.Muted.Render("Use 'ifacegen patterns <name>' for examples and generated SQL"))
	r.Println("")

	return nil
}

// listPatternsMarkdown outputs patterns in markdown format.
func listPatternsMarkdown(r *output.Renderer, patterns []plsql.PatternInfo) error {
	r.Println("# Rule Patterns")
	r.Println("")
	r.Println("Patterns are tried in order; the first match wins.")
	r.Println("")
	for i, p := range patterns {
		r.Printf("%d. **%s** - %s\n", i+1, p.Name, p.Description)
	}
	r.Println("")
	return nil
}

// showPatternText displays detailed pattern info in text format.
func showPatternText(r *output.Renderer, p *plsql.PatternInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(p.Name))
	r.Println("")
	r.Println("  " + p.Description)
	r.Println("")

	r.Println(styles.Bold.Render("Example Rule"))
	r.Println(styles.Muted.Render("  " + p.Example))
	r.Println("")

	r.Println(styles.Bold.Render("Generates"))
	r.Println("  " + p.Generates)
	r.Println("")

	return nil
}

// showPatternMarkdown displays detailed pattern info in markdown format.
func showPatternMarkdown(r *output.Renderer, p *plsql.PatternInfo) error {
	r.Printf("# %s\n\n", p.Name)
	r.Println(p.Description)
	r.Println("")
	r.Println("## Example Rule")
	r.Println("")
	r.Println("> " + p.Example)
	r.Println("")
	r.Println("## Generates")
	r.Println("")
	r.Println(p.Generates)
	r.Println("")
	return nil
}
