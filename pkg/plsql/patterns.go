package plsql

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternInfo describes one recognized validation-rule shape. It is a
// DTO consumed by the patterns command and the rules manifest.
type PatternInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Example     string `json:"example"`
	Generates   string `json:"generates"`
}

// fragmentContext carries the identifiers every generated block needs.
type fragmentContext struct {
	Table string
	Batch string
	Field string
	Rule  string
}

// pattern pairs a rule-text matcher with a fragment builder. Patterns are
// evaluated in declaration order and the first match wins; anything no
// pattern claims falls through to a TODO comment.
type pattern struct {
	info  PatternInfo
	match func(rule string) []string // captures, nil when unmatched
	build func(ctx fragmentContext, captures []string) string
}

var (
	enumRe    = regexp.MustCompile(`(?i)(?:should|must)\s+only\s+be\s+((?:'[^']+'\s*(?:,\s*|or\s+))*'[^']+')`)
	enumValRe = regexp.MustCompile(`'([^']+)'`)
	condRe    = regexp.MustCompile(`(?i)if.*not\s*null`)
	numericRe = regexp.MustCompile(`(?i)(?:must|should)\s+be\s+(?:numeric|a\s+number)`)
	lengthRe  = regexp.MustCompile(`(?i)(?:length|max\s+length)\s+(?:must\s+not\s+exceed|is|of)\s+(\d+)`)
	specialRe = regexp.MustCompile(`(?i)(?:cannot|must\s+not|should\s+not)\s+contain\s+special\s+char`)
	existsRe  = regexp.MustCompile(`(?i)(?:must|should)\s+exist\s+in\s+(\w+)\.(\w+)`)
)

// patterns is the ordered strategy table. Order is part of the contract:
// identical input must always pick the same pattern.
var patterns = []pattern{
	{
		info: PatternInfo{
			Name:        "allowed-values",
			Description: "Restricts the field to a fixed list of quoted literals.",
			Example:     "should only be 'I' or 'U'",
			Generates:   "field NOT IN (...)",
		},
		match: func(rule string) []string {
			if condRe.MatchString(rule) {
				return nil // conditional variant handles these
			}
			m := enumRe.FindStringSubmatch(rule)
			if m == nil {
				return nil
			}
			return enumValues(m[1])
		},
		build: buildAllowedValues(false),
	},
	{
		info: PatternInfo{
			Name:        "conditional-allowed-values",
			Description: "Restricts the field to a fixed list, but only when it is not null.",
			Example:     "If NOT NULL, then should only be 'A' or 'B'",
			Generates:   "field IS NOT NULL AND field NOT IN (...)",
		},
		match: func(rule string) []string {
			if !condRe.MatchString(rule) {
				return nil
			}
			m := enumRe.FindStringSubmatch(rule)
			if m == nil {
				return nil
			}
			return enumValues(m[1])
		},
		build: buildAllowedValues(true),
	},
	{
		info: PatternInfo{
			Name:        "numeric-only",
			Description: "Requires the field to contain a number.",
			Example:     "must be numeric",
			Generates:   `NOT REGEXP_LIKE(field, '^[0-9]+(\.[0-9]+)?$')`,
		},
		match: func(rule string) []string {
			if numericRe.MatchString(rule) {
				return []string{}
			}
			return nil
		},
		build: func(ctx fragmentContext, _ []string) string {
			return validationBlock(ctx,
				fmt.Sprintf("%s must be numeric; ", escape(ctx.Field)),
				fmt.Sprintf("t.%s IS NOT NULL", ctx.Field),
				fmt.Sprintf(`NOT REGEXP_LIKE(t.%s, '^[0-9]+(\.[0-9]+)?$')`, ctx.Field),
			)
		},
	},
	{
		info: PatternInfo{
			Name:        "max-length",
			Description: "Caps the character length of the field.",
			Example:     "length must not exceed 30",
			Generates:   "LENGTH(field) > N",
		},
		match: func(rule string) []string {
			m := lengthRe.FindStringSubmatch(rule)
			if m == nil {
				return nil
			}
			return m[1:]
		},
		build: func(ctx fragmentContext, captures []string) string {
			maxLen := captures[0]
			return validationBlock(ctx,
				fmt.Sprintf("%s exceeds maximum length of %s; ", escape(ctx.Field), maxLen),
				fmt.Sprintf("t.%s IS NOT NULL", ctx.Field),
				fmt.Sprintf("LENGTH(t.%s) > %s", ctx.Field, maxLen),
			)
		},
	},
	{
		info: PatternInfo{
			Name:        "no-special-characters",
			Description: "Rejects values whose character length differs from their byte length. Known limitation: this only catches multi-byte characters, not ASCII punctuation.",
			Example:     "cannot contain special characters",
			Generates:   "LENGTH(field) != LENGTHB(field)",
		},
		match: func(rule string) []string {
			if specialRe.MatchString(rule) {
				return []string{}
			}
			return nil
		},
		build: func(ctx fragmentContext, _ []string) string {
			return validationBlock(ctx,
				fmt.Sprintf("%s contains special characters; ", escape(ctx.Field)),
				fmt.Sprintf("t.%s IS NOT NULL", ctx.Field),
				fmt.Sprintf("LENGTH(t.%s) != LENGTHB(t.%s)", ctx.Field, ctx.Field),
			)
		},
	},
	{
		info: PatternInfo{
			Name:        "cross-table-exists",
			Description: "Requires the value to exist in another table's column.",
			Example:     "must exist in HZ_PARTIES.PARTY_NUMBER",
			Generates:   "NOT EXISTS (SELECT 1 FROM ref WHERE ref.col = field)",
		},
		match: func(rule string) []string {
			m := existsRe.FindStringSubmatch(rule)
			if m == nil {
				return nil
			}
			return m[1:]
		},
		build: func(ctx fragmentContext, captures []string) string {
			refTable, refCol := captures[0], captures[1]
			exists := fmt.Sprintf("NOT EXISTS (\n%s    SELECT 1 FROM %s ref\n%s    WHERE ref.%s = t.%s\n%s)",
				indent, refTable, indent, refCol, ctx.Field, indent)
			return validationBlock(ctx,
				fmt.Sprintf("%s does not exist in %s; ", escape(ctx.Field), refTable),
				fmt.Sprintf("t.%s IS NOT NULL", ctx.Field),
				exists,
			)
		},
	},
}

// Patterns returns metadata for every recognized validation-rule shape,
// in evaluation order.
func Patterns() []PatternInfo {
	infos := make([]PatternInfo, len(patterns))
	for i, p := range patterns {
		infos[i] = p.info
	}
	return infos
}

// enumValues extracts the quoted literals from a matched enumeration,
// preserving their order as given.
func enumValues(list string) []string {
	var values []string
	for _, m := range enumValRe.FindAllStringSubmatch(list, -1) {
		values = append(values, m[1])
	}
	return values
}

func buildAllowedValues(conditional bool) func(ctx fragmentContext, captures []string) string {
	return func(ctx fragmentContext, captures []string) string {
		quotedMsg := make([]string, len(captures))
		quotedSQL := make([]string, len(captures))
		for i, v := range captures {
			quotedMsg[i] = "''" + escape(v) + "''"
			quotedSQL[i] = "'" + escape(v) + "'"
		}
		message := fmt.Sprintf("%s must be one of (%s); ", escape(ctx.Field), strings.Join(quotedMsg, ", "))

		predicates := []string{}
		if conditional {
			predicates = append(predicates, fmt.Sprintf("t.%s IS NOT NULL", ctx.Field))
		}
		predicates = append(predicates, fmt.Sprintf("t.%s NOT IN (%s)", ctx.Field, strings.Join(quotedSQL, ", ")))
		return validationBlock(ctx, message, predicates...)
	}
}
