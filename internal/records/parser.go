// Package records reads the flat CSV snapshots the portal is served from.
package records

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
)

// Minimum column counts of the two snapshot schemas.
const (
	AllowedPhoneColumns = 3 // phone_number, name, status
	TransactionColumns  = 4 // date, description, amount, type
)

// ErrIOFailure marks a backing file that could not be read at all.
var ErrIOFailure = errors.New("backing file unreadable")

// Source supplies the raw text of a named snapshot.
type Source interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// Row is one accepted data line. Ordinal is the 1-based position of the
// line among the data lines of the file, skipped lines included.
type Row struct {
	Ordinal int
	Fields  []string
}

// Table is a parsed snapshot: its header, accepted rows and skip count.
type Table struct {
	Header  []string
	Rows    []Row
	Skipped int
}

// Parse splits raw text into a header and the data rows having at least
// minColumns fields. Short rows are counted in Skipped and dropped.
//
// Each line is read on its own, so a damaged quote stays inside the row
// it appears in.
func Parse(raw string, minColumns int) Table {
	var table Table
	ordinal := 0
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields, err := splitLine(line)
		if table.Header == nil {
			if err == nil {
				table.Header = fields
			} else {
				table.Header = []string{}
			}
			continue
		}

		ordinal++
		if err != nil || len(fields) < minColumns {
			table.Skipped++
			continue
		}
		table.Rows = append(table.Rows, Row{Ordinal: ordinal, Fields: fields})
	}
	return table
}

// Load reads name from src and parses it. A read failure is returned
// wrapped in ErrIOFailure together with an empty table.
func Load(ctx context.Context, src Source, name string, minColumns int) (Table, error) {
	raw, err := src.Read(ctx, name)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %s: %w", ErrIOFailure, name, err)
	}
	return Parse(string(raw), minColumns), nil
}

// splitLine reads the comma separated fields of a single line. Quoted
// fields may contain commas; a quote left open ends at the line break.
func splitLine(line string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(line))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rec, err := cr.Read()
	if err != nil {
		return nil, err
	}

	fields := make([]string, len(rec))
	for i, f := range rec {
		fields[i] = strings.TrimSpace(f)
	}
	return fields, nil
}
