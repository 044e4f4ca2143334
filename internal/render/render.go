// Package render substitutes {{KEY}} placeholders in the embedded SQL
// templates that frame the generated artifacts.
//
// The substitution is deliberately dumb: no conditionals, no loops, no
// expression language. Every dynamic piece is computed by the caller and
// handed over as a finished string, which keeps the generators pure and
// the templates auditable as plain SQL.
package render

import (
	"embed"
	"fmt"
	"regexp"
	"strings"
)

//go:embed templates/*.sql
var templateFS embed.FS

// Template names of the embedded artifacts.
const (
	PackageSpec = "package_spec.tpl.sql"
	PackageBody = "package_body.tpl.sql"
	SpoolQuery  = "spool_query.tpl.sql"
	CreateTable = "create_table.tpl.sql"
)

var placeholderRe = regexp.MustCompile(`\{\{([A-Z_]+)\}\}`)

// Template returns the raw text of an embedded template.
func Template(name string) (string, error) {
	content, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("template %s not found: %w", name, err)
	}
	return string(content), nil
}

// Render replaces every {{KEY}} placeholder in tpl with its value. A
// placeholder left unresolved is an error, not silent passthrough: the
// output is executed against a database, so a stray {{KEY}} must never
// reach it.
func Render(tpl string, replacements map[string]string) (string, error) {
	out := tpl
	for key, val := range replacements {
		out = strings.ReplaceAll(out, "{{"+key+"}}", val)
	}

	if m := placeholderRe.FindString(out); m != "" {
		return "", fmt.Errorf("unresolved placeholder %s in template", m)
	}
	return out, nil
}

// RenderTemplate loads an embedded template and renders it in one step.
func RenderTemplate(name string, replacements map[string]string) (string, error) {
	tpl, err := Template(name)
	if err != nil {
		return "", err
	}
	out, err := Render(tpl, replacements)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
