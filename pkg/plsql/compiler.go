package plsql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/datapour/ifacegen/pkg/mapping"
)

// indent matches the procedure-body indentation of the package template.
const indent = "        "

// Options configures a compilation. Both identifiers are required: every
// generated fragment is scoped to one batch of one interface table.
type Options struct {
	TableName   string
	BatchColumn string
}

// Result is the output of Compile: one CompiledRule per input rule, in
// phase order (mandatory, validation, transformation) and input row order
// within each phase.
type Result struct {
	Rules []CompiledRule
}

var (
	errNoTableName   = errors.New("plsql: table name is required")
	errNoBatchColumn = errors.New("plsql: batch column is required")
)

// Compile turns field rules into PL/SQL fragments.
//
// Mandatory fields each get an independent NULL check; all violations for
// a row are recorded, not just the first. Validation rules are matched
// against the fixed pattern table, first match wins, unmatched rules
// become TODO comments. Transformation rules are always TODO comments.
//
// Compile is deterministic: identical input produces byte-identical
// output. It performs no I/O and holds no state between calls.
func Compile(fields []mapping.FieldRule, opts Options) (*Result, error) {
	if opts.TableName == "" {
		return nil, errNoTableName
	}
	if opts.BatchColumn == "" {
		return nil, errNoBatchColumn
	}

	res := &Result{}

	checkNum := 0
	for _, f := range fields {
		if !f.Mandatory {
			continue
		}
		// The batch column is the WHERE filter, not a checked field.
		if strings.EqualFold(f.Field, opts.BatchColumn) {
			continue
		}
		checkNum++
		ctx := fragmentContext{Table: opts.TableName, Batch: opts.BatchColumn, Field: f.Field}
		res.Rules = append(res.Rules, CompiledRule{
			Phase: PhaseMandatory,
			Field: f.Field,
			SQL:   mandatoryBlock(ctx, checkNum),
		})
	}

	for _, f := range fields {
		if f.Validation == "" {
			continue
		}
		ctx := fragmentContext{Table: opts.TableName, Batch: opts.BatchColumn, Field: f.Field, Rule: f.Validation}
		res.Rules = append(res.Rules, compileValidation(ctx))
	}

	for _, f := range fields {
		if f.Transformation == "" {
			continue
		}
		ctx := fragmentContext{Table: opts.TableName, Batch: opts.BatchColumn, Field: f.Field, Rule: f.Transformation}
		res.Rules = append(res.Rules, CompiledRule{
			Phase: PhaseTransformation,
			Field: f.Field,
			Rule:  f.Transformation,
			TODO:  transformationTODO(ctx),
		})
	}

	for i := range res.Rules {
		if res.Rules[i].SQL != "" {
			res.Rules[i].Warnings = scanFragment(res.Rules[i].SQL, opts.BatchColumn)
		}
	}

	return res, nil
}

// compileValidation walks the pattern table in order and builds a fragment
// from the first match. Unmatched rule text is preserved verbatim in a
// TODO comment so a reviewer can finish the job; the compiler never
// guesses a predicate.
func compileValidation(ctx fragmentContext) CompiledRule {
	for _, p := range patterns {
		captures := p.match(ctx.Rule)
		if captures == nil {
			continue
		}
		return CompiledRule{
			Phase:   PhaseValidation,
			Field:   ctx.Field,
			Rule:    ctx.Rule,
			Pattern: p.info.Name,
			SQL:     p.build(ctx, captures),
		}
	}
	return CompiledRule{
		Phase: PhaseValidation,
		Field: ctx.Field,
		Rule:  ctx.Rule,
		TODO:  validationTODO(ctx),
	}
}

// ByPhase returns the compiled rules for one phase, preserving order.
func (r *Result) ByPhase(phase Phase) []CompiledRule {
	var out []CompiledRule
	for _, c := range r.Rules {
		if c.Phase == phase {
			out = append(out, c)
		}
	}
	return out
}

// TODOCount returns how many rules were deferred to manual review.
func (r *Result) TODOCount() int {
	n := 0
	for _, c := range r.Rules {
		if c.IsTODO() {
			n++
		}
	}
	return n
}

// Warnings aggregates guardrail findings across all rules, each prefixed
// with the owning field.
func (r *Result) Warnings() []string {
	var out []string
	for _, c := range r.Rules {
		for _, w := range c.Warnings {
			out = append(out, fmt.Sprintf("%s: %s", c.Field, w))
		}
	}
	return out
}

// Section renders one phase of the package body: the rule blocks joined
// with blank lines, or a placeholder comment when the phase is empty.
func (r *Result) Section(phase Phase) string {
	rules := r.ByPhase(phase)
	if len(rules) == 0 {
		switch phase {
		case PhaseMandatory:
			return indent + "-- No mandatory field checks defined.\n"
		case PhaseValidation:
			return indent + "-- No custom validation rules defined.\n"
		default:
			return indent + "-- No transformation rules defined.\n"
		}
	}

	blocks := make([]string, len(rules))
	for i, c := range rules {
		blocks[i] = c.Block()
	}
	return strings.Join(blocks, "\n")
}

func escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func mandatoryBlock(ctx fragmentContext, checkNum int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s-- %d. Mandatory: %s\n", indent, checkNum, ctx.Field)
	fmt.Fprintf(&b, "%sUPDATE %s t\n", indent, ctx.Table)
	fmt.Fprintf(&b, "%sSET t.status = 'E',\n", indent)
	fmt.Fprintf(&b, "%s    t.error_message = NVL(t.error_message, '') || '%s is mandatory and cannot be NULL; '\n",
		indent, escape(ctx.Field))
	fmt.Fprintf(&b, "%sWHERE t.%s = p_batch_id\n", indent, ctx.Batch)
	fmt.Fprintf(&b, "%sAND t.%s IS NULL;\n", indent, ctx.Field)
	return b.String()
}

// validationBlock assembles the shared UPDATE shape for validation rules:
// flag the row, append to error_message, scope to the batch, then apply
// the pattern-specific predicates.
func validationBlock(ctx fragmentContext, message string, predicates ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s-- Validation: %s - %s\n", indent, ctx.Field, ctx.Rule)
	fmt.Fprintf(&b, "%sUPDATE %s t\n", indent, ctx.Table)
	fmt.Fprintf(&b, "%sSET t.status = 'E',\n", indent)
	fmt.Fprintf(&b, "%s    t.error_message = NVL(t.error_message, '') || '%s'\n", indent, message)
	fmt.Fprintf(&b, "%sWHERE t.%s = p_batch_id", indent, ctx.Batch)
	for _, p := range predicates {
		fmt.Fprintf(&b, "\n%sAND %s", indent, p)
	}
	b.WriteString(";\n")
	return b.String()
}

func validationTODO(ctx fragmentContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s-- TODO: Implement validation for %s: %s\n", indent, ctx.Field, ctx.Rule)
	fmt.Fprintf(&b, "%s-- UPDATE %s t\n", indent, ctx.Table)
	fmt.Fprintf(&b, "%s-- SET t.status = 'E',\n", indent)
	fmt.Fprintf(&b, "%s--     t.error_message = NVL(t.error_message, '') || '%s validation failed; '\n",
		indent, escape(ctx.Field))
	fmt.Fprintf(&b, "%s-- WHERE t.%s = p_batch_id\n", indent, ctx.Batch)
	fmt.Fprintf(&b, "%s-- AND <condition>;\n", indent)
	return b.String()
}

func transformationTODO(ctx fragmentContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s-- TODO: Implement transformation for %s: %s\n", indent, ctx.Field, ctx.Rule)
	fmt.Fprintf(&b, "%s-- UPDATE %s t\n", indent, ctx.Table)
	fmt.Fprintf(&b, "%s-- SET t.%s = <transformed_value>\n", indent, ctx.Field)
	fmt.Fprintf(&b, "%s-- WHERE t.%s = p_batch_id;\n", indent, ctx.Batch)
	return b.String()
}
