package plsql

import (
	"fmt"
	"strings"
)

// dangerousTokens are statement keywords that should never appear in
// generated validation SQL. The trailing space avoids matching column
// names like DROP_CODE.
var dangerousTokens = []string{"DROP ", "TRUNCATE ", "ALTER "}

// scanFragment inspects one generated fragment for dangerous keywords and
// for the batch-scoping predicate. Findings are warnings, not rejections:
// partial output is still produced so a reviewer can inspect it.
func scanFragment(sql, batchColumn string) []string {
	var warnings []string

	for lineNo, line := range strings.Split(sql, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "--") {
			continue
		}
		upper := strings.ToUpper(stripped)
		for _, tok := range dangerousTokens {
			if strings.Contains(upper, tok) {
				warnings = append(warnings, fmt.Sprintf(
					"dangerous keyword %s at line %d: %s",
					strings.TrimSpace(tok), lineNo+1, truncate(stripped, 100)))
			}
		}
	}

	predicate := strings.ToUpper(fmt.Sprintf("t.%s = p_batch_id", batchColumn))
	if !strings.Contains(strings.ToUpper(sql), predicate) {
		warnings = append(warnings, fmt.Sprintf(
			"fragment does not filter on batch column %s", batchColumn))
	}

	return warnings
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
