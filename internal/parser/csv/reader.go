// Package csv reads the two delimited source files into raw string grids.
//
// It is deliberately lenient: LazyQuotes, variable field counts, and
// best-effort row fitting, because both real-world sources (Eurostat TSV,
// World Bank CSV) carry quirks that must degrade to missing cells rather
// than abort the run. Typing and semantics happen downstream in the cleaner.
package csv

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Options configures a single read. All fields are optional; zero values mean
// comma-delimited, no skipped lines, no trimming.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// SkipRows drops this many raw lines before the header row. The World
	// Bank export carries 4 metadata lines that are not valid CSV, so they
	// are skipped at the line level, before encoding/csv sees the stream.
	SkipRows int

	// TrimSpace trims surrounding whitespace from every cell and replaces
	// U+00A0 NO-BREAK SPACE with a plain space first, so that NBSP-padded
	// cells trim the same way as ASCII-padded ones.
	TrimSpace bool
}

// Table is a raw parsed grid: trimmed header names plus rows fitted to the
// header width. Short rows are padded with empty cells, long rows truncated,
// so column indexes are stable for every row.
type Table struct {
	Header []string
	Rows   [][]string
}

// Index returns the position of the named header, or -1 when absent.
func (t Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

const nbsp = " "

// ReadTable reads an entire delimited file into memory. The first non-skipped
// row is the header; header names are always whitespace-trimmed regardless of
// opt.TrimSpace, matching the column-name contract of the cleaner.
func ReadTable(r io.Reader, opt Options) (Table, error) {
	br := bufio.NewReaderSize(r, 64*1024)

	for i := 0; i < opt.SkipRows; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				return Table{}, fmt.Errorf("skip %d header lines: input ended after %d", opt.SkipRows, i)
			}
			return Table{}, fmt.Errorf("skip header lines: %w", err)
		}
	}

	comma := opt.Comma
	if comma == 0 {
		comma = ','
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.FieldsPerRecord = -1 // widths enforced here, not by encoding/csv
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = false

	header, err := cr.Read()
	if err == io.EOF {
		return Table{}, fmt.Errorf("read header: empty input")
	}
	if err != nil {
		return Table{}, fmt.Errorf("read header: %w", err)
	}
	header = stripHeaderBOM(header)
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		row := fitRowToWidth(rec, len(header))
		if opt.TrimSpace {
			for i := range row {
				row[i] = strings.TrimSpace(strings.ReplaceAll(row[i], nbsp, " "))
			}
		}
		rows = append(rows, row)
	}

	return Table{Header: header, Rows: rows}, nil
}

// fitRowToWidth truncates or pads a record to exactly n cells. Missing
// trailing cells become empty strings.
func fitRowToWidth(row []string, n int) []string {
	cp := make([]string, n)
	copy(cp, row)
	return cp
}

// stripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
func stripHeaderBOM(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	return header
}
