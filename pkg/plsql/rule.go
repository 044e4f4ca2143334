// Package plsql compiles field-mapping rules into PL/SQL validation
// fragments for an interface-table validation package.
//
// The compiler is deliberately conservative: free-text rules it cannot
// match against a fixed pattern list become TODO comments carrying the
// original text verbatim, never guessed SQL. A missed validation surfaced
// to a reviewer is recoverable; silently wrong SQL is not.
package plsql

// Phase identifies which section of the validation routine a compiled
// rule belongs to. Output is always emitted in phase order.
type Phase int

const (
	// PhaseMandatory holds NULL checks for mandatory fields.
	PhaseMandatory Phase = iota
	// PhaseValidation holds compiled validation rules.
	PhaseValidation
	// PhaseTransformation holds transformation rules (always TODOs).
	PhaseTransformation
)

// String returns the phase name used in manifests and logs.
func (p Phase) String() string {
	switch p {
	case PhaseMandatory:
		return "mandatory"
	case PhaseValidation:
		return "validation"
	case PhaseTransformation:
		return "transformation"
	default:
		return "unknown"
	}
}

// CompiledRule is the output for a single field rule. It is a tagged
// variant: exactly one of SQL or TODO is populated. SQL holds a generated
// UPDATE block; TODO holds a commented-out block describing a rule the
// compiler declined to translate.
type CompiledRule struct {
	Phase Phase  `json:"phase"`
	Field string `json:"field"`
	// Rule is the original free-text rule ("" for mandatory checks).
	Rule string `json:"rule,omitempty"`
	// Pattern names the matched pattern for compiled validation rules.
	Pattern string `json:"pattern,omitempty"`
	SQL     string `json:"sql,omitempty"`
	TODO    string `json:"todo,omitempty"`
	// Warnings holds guardrail findings attached to this rule. They are
	// advisory: the fragment is still emitted for inspection.
	Warnings []string `json:"warnings,omitempty"`
}

// IsTODO reports whether this rule was deferred to manual review.
func (c *CompiledRule) IsTODO() bool { return c.TODO != "" }

// Block returns whichever body the rule carries.
func (c *CompiledRule) Block() string {
	if c.SQL != "" {
		return c.SQL
	}
	return c.TODO
}
