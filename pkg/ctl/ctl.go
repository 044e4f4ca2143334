// Package ctl parses SQL*Loader control files and extracts the ordered
// column list used to build export SELECT clauses.
//
// Only the parenthesized column block is inspected. Column order is
// significant: it defines the physical load and export order and is
// preserved verbatim, never re-sorted.
package ctl

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrMalformed indicates no balanced (...) column block was found.
	ErrMalformed = errors.New("no balanced column block (...) found in control file")
	// ErrEmptyBlock indicates the column block contained no entries.
	ErrEmptyBlock = errors.New("column block is empty: nothing to export")
	// ErrNoExportableColumns indicates every entry was a constant or was
	// skipped as malformed.
	ErrNoExportableColumns = errors.New("column block contains no exportable columns")
)

// Column is one entry of the column block.
type Column struct {
	// Name is the upper-cased column identifier.
	Name string
	// Constant marks entries bound to a literal (excluded from export).
	Constant bool
	// RawType is the trailing type/format annotation as written, e.g.
	// `CHAR(360)` or `DATE "YYYY-MM-DD"`. Informational only.
	RawType string
}

// File is a parsed control file.
type File struct {
	Columns []Column
	// Warnings holds per-entry findings for entries that were skipped.
	// A single malformed entry never aborts the whole extraction.
	Warnings []string
}

var (
	identRe     = regexp.MustCompile(`^[A-Z_][A-Z0-9_$#]*$`)
	constantRe  = regexp.MustCompile(`(?i)\bconstant\b`)
	intoTableRe = regexp.MustCompile(`(?i)INTO\s+TABLE`)
)

// Parse extracts the column block from control-file text.
//
// The block runs from the first '(' to its matching ')'. Entries are
// comma-separated at the top level; line breaks inside an entry are
// tolerated. Entries whose leading token is not a valid identifier are
// skipped with a warning.
func Parse(text string) (*File, error) {
	block, err := columnBlock(text)
	if err != nil {
		return nil, err
	}

	entries := splitEntries(block)
	if len(entries) == 0 {
		return nil, ErrEmptyBlock
	}

	f := &File{}
	exportable := 0
	for _, entry := range entries {
		name, rest := leadingToken(entry)
		name = strings.ToUpper(name)

		if !identRe.MatchString(name) {
			f.Warnings = append(f.Warnings, fmt.Sprintf("skipping non-identifier token %q in entry %q", name, entry))
			continue
		}

		col := Column{Name: name, RawType: rest}
		if constantRe.MatchString(rest) {
			col.Constant = true
		} else {
			exportable++
		}
		f.Columns = append(f.Columns, col)
	}

	if exportable == 0 {
		return nil, ErrNoExportableColumns
	}
	return f, nil
}

// ExportColumns returns the non-constant column names in source order.
func (f *File) ExportColumns() []string {
	var names []string
	for _, c := range f.Columns {
		if !c.Constant {
			names = append(names, c.Name)
		}
	}
	return names
}

// columnBlock returns the text between the first '(' after the load
// directive and its matching ')'. Anchoring on INTO TABLE keeps the
// OPTIONS (...) clause from being mistaken for the column block.
// Parentheses inside the block (type annotations like CHAR(360)) nest
// and are skipped over.
func columnBlock(text string) (string, error) {
	search := 0
	if loc := intoTableRe.FindStringIndex(text); loc != nil {
		search = loc[1]
	}
	rel := strings.IndexByte(text[search:], '(')
	if rel == -1 {
		return "", ErrMalformed
	}
	start := search + rel

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return text[start+1 : i], nil
			}
		}
	}
	return "", ErrMalformed
}

// splitEntries splits the block on top-level commas. Commas inside
// nested parentheses or quoted format strings do not split.
func splitEntries(block string) []string {
	var entries []string
	var cur strings.Builder
	depth := 0
	var quote byte

	flush := func() {
		entry := strings.TrimSpace(cur.String())
		cur.Reset()
		if entry != "" {
			entries = append(entries, entry)
		}
	}

	for i := 0; i < len(block); i++ {
		c := block[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			cur.WriteByte(c)
		case c == '"' || c == '\'':
			quote = c
			cur.WriteByte(c)
		case c == '(':
			depth++
			cur.WriteByte(c)
		case c == ')':
			depth--
			cur.WriteByte(c)
		case c == ',' && depth == 0:
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()

	return entries
}

// leadingToken splits an entry into its first whitespace-delimited token
// and the remaining annotation text.
func leadingToken(entry string) (token, rest string) {
	fields := strings.Fields(entry)
	if len(fields) == 0 {
		return "", ""
	}
	token = fields[0]
	rest = strings.TrimSpace(strings.TrimPrefix(entry, token))
	return token, rest
}
