// Package mapping parses field-mapping sheets: tabular specifications of
// per-field mandatory, validation and transformation rules for an Oracle
// interface table.
package mapping

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Fixed sheet header names. Field is required; the rest are optional.
const (
	HeaderField          = "Field"
	HeaderMandatory      = "Mandatory"
	HeaderValidation     = "Validations"
	HeaderTransformation = "Transformations"
)

// ErrNoRules indicates the sheet contained no usable field rows.
var ErrNoRules = errors.New("no field rules found in mapping sheet")

// FieldRule is one row of the mapping sheet.
type FieldRule struct {
	// Field is the target table column this rule applies to.
	Field string `json:"field"`
	// Mandatory is true when the Mandatory cell reads "Yes".
	Mandatory bool `json:"mandatory"`
	// Validation is the free-text validation rule, if any.
	Validation string `json:"validation,omitempty"`
	// Transformation is the free-text transformation rule, if any.
	Transformation string `json:"transformation,omitempty"`
}

// ParseSheet reads a mapping sheet CSV and returns its field rules in
// source order.
//
// Rows with an empty Field cell are skipped. A duplicate field name
// (case-insensitive) is a data-quality error, not a merge: the sheet is
// rejected with the offending row number so the owner can fix it.
func ParseSheet(r io.Reader) ([]FieldRule, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoRules
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet header: %w", err)
	}
	if len(header) > 0 {
		// Sheets exported from Excel often carry a UTF-8 BOM.
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	idx := headerIndex(header)
	fieldIdx, ok := idx[HeaderField]
	if !ok {
		return nil, fmt.Errorf("mapping sheet must have a %q header, found: %s",
			HeaderField, strings.Join(header, ", "))
	}

	var rules []FieldRule
	seen := make(map[string]int) // upper-cased field name -> row number
	rowNum := 1                  // header was row 1

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet row %d: %w", rowNum+1, err)
		}
		rowNum++

		field := strings.TrimSpace(cell(record, fieldIdx))
		if field == "" {
			continue
		}

		key := strings.ToUpper(field)
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate field %q at row %d (first seen at row %d)", field, rowNum, prev)
		}
		seen[key] = rowNum

		rules = append(rules, FieldRule{
			Field:          field,
			Mandatory:      strings.EqualFold(strings.TrimSpace(cell(record, cellIdx(idx, HeaderMandatory))), "YES"),
			Validation:     strings.TrimSpace(cell(record, cellIdx(idx, HeaderValidation))),
			Transformation: strings.TrimSpace(cell(record, cellIdx(idx, HeaderTransformation))),
		})
	}

	if len(rules) == 0 {
		return nil, ErrNoRules
	}
	return rules, nil
}

// FieldNames returns the field names of rules in order.
func FieldNames(rules []FieldRule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Field
	}
	return names
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

// cellIdx returns the index for a header or -1 when the column is absent.
func cellIdx(idx map[string]int, name string) int {
	if i, ok := idx[name]; ok {
		return i
	}
	return -1
}

// cell returns the record value at i, or "" when the column is missing
// from this row (ragged CSVs are tolerated).
func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
