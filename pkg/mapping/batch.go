package mapping

import (
	"errors"
	"strings"
)

// ErrBatchColumnNotFound indicates that no column name contains "BATCH".
// Every generated predicate is scoped by the batch column, so callers must
// treat this as fatal rather than defaulting silently.
var ErrBatchColumnNotFound = errors.New("no batch column found: no field name contains \"BATCH\"")

// DetectBatchColumn returns the first name containing "BATCH"
// (case-insensitive substring match), preserving input order.
//
// When several names contain "BATCH" the first occurrence wins. This is a
// heuristic carried over from the original rule sheets; it is deliberately
// first-match rather than anything smarter.
func DetectBatchColumn(names []string) (string, error) {
	for _, n := range names {
		if strings.Contains(strings.ToUpper(n), "BATCH") {
			return n, nil
		}
	}
	return "", ErrBatchColumnNotFound
}
