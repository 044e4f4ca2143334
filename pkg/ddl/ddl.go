// Package ddl generates CREATE TABLE scripts for interface staging tables
// from the column-metadata CSV exported from the Oracle ERP documentation.
package ddl

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Fixed CSV header names. Name and Datatype are required; Length,
// Precision and Not-null are optional. A Status column is tolerated and
// ignored.
const (
	HeaderName      = "Name"
	HeaderDatatype  = "Datatype"
	HeaderLength    = "Length"
	HeaderPrecision = "Precision"
	HeaderNotNull   = "Not-null"
)

// ErrNoColumns indicates the CSV contained no column rows.
var ErrNoColumns = errors.New("no columns found in interface columns CSV")

// Column is one interface-table column definition.
type Column struct {
	Name      string
	Datatype  string
	Length    string
	Precision string
	NotNull   bool
}

// ParseColumnsCSV reads interface-column metadata in source order.
func ParseColumnsCSV(r io.Reader) ([]Column, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read columns header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{HeaderName, HeaderDatatype} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("columns CSV must have a %q header, found: %s",
				required, strings.Join(header, ", "))
		}
	}

	at := func(record []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var cols []Column
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read columns row: %w", err)
		}

		name := at(record, HeaderName)
		if name == "" {
			continue
		}
		cols = append(cols, Column{
			Name:      name,
			Datatype:  at(record, HeaderDatatype),
			Length:    at(record, HeaderLength),
			Precision: at(record, HeaderPrecision),
			NotNull:   strings.EqualFold(at(record, HeaderNotNull), "YES"),
		})
	}

	if len(cols) == 0 {
		return nil, ErrNoColumns
	}
	return cols, nil
}

// ColumnDef returns one column definition line for a CREATE TABLE
// statement, indented for the script body.
func ColumnDef(c Column) string {
	dt := strings.ToUpper(strings.TrimSpace(c.Datatype))

	var typeStr string
	switch dt {
	case "VARCHAR2":
		if c.Length != "" {
			typeStr = fmt.Sprintf("VARCHAR2(%s)", c.Length)
		} else {
			typeStr = "VARCHAR2(255)" // safe fallback
		}
	case "NUMBER":
		if c.Precision != "" {
			typeStr = fmt.Sprintf("NUMBER(%s)", c.Precision)
		} else {
			typeStr = "NUMBER"
		}
	case "DATE", "TIMESTAMP", "CLOB":
		typeStr = dt
	default:
		// Unknown types pass through as written.
		typeStr = dt
	}

	constraint := ""
	if c.NotNull {
		constraint = " NOT NULL"
	}
	return fmt.Sprintf("    %s %s%s", c.Name, typeStr, constraint)
}

// ColumnDefs renders the comma-joined body of a CREATE TABLE statement.
func ColumnDefs(cols []Column) string {
	lines := make([]string, len(cols))
	for i, c := range cols {
		lines[i] = ColumnDef(c)
	}
	return strings.Join(lines, ",\n")
}
