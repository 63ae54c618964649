// Package probe samples the first bytes of a local delimited file and
// reports its header shape: which columns are year columns, which carry the
// composite key or country name, and how dense each sampled column is.
//
// It exists for operators pointing the pipeline at new source exports: a
// quick way to check delimiter, skip rows, and year coverage before a run.
// Sampling is best-effort; a truncated last line is expected and dropped.
package probe

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"ggekpi/internal/cleaner"
	"ggekpi/internal/table"
)

// Column describes one sampled header.
type Column struct {
	Name       string  `json:"name"`
	Normalized string  `json:"normalized"`
	Kind       string  `json:"kind"` // "key", "country", "year", "year_out_of_range", "text"
	FillRate   float64 `json:"fill_rate"` // share of sampled rows with a non-empty cell
}

// Report is the JSON-serializable probe result.
type Report struct {
	Path        string   `json:"path"`
	Columns     []Column `json:"columns"`
	YearColumns []int    `json:"year_columns"`
	SampledRows int      `json:"sampled_rows"`
}

// File probes path: reads up to sampleBytes from the start, skips skipRows
// raw lines, and inspects the header plus the sampled data rows.
func File(path string, delim rune, skipRows, sampleBytes int) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if sampleBytes <= 0 {
		sampleBytes = 256 * 1024
	}
	buf := make([]byte, sampleBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Report{}, fmt.Errorf("read %s: %w", path, err)
	}
	data := buf[:n]

	// Drop a truncated trailing line unless we read the whole file.
	if n == sampleBytes {
		if i := bytes.LastIndexByte(data, '\n'); i >= 0 {
			data = data[:i]
		}
	}

	header, rows, err := readSample(data, delim, skipRows)
	if err != nil {
		return Report{}, err
	}

	rep := Report{Path: path, SampledRows: len(rows)}
	years := table.DefaultYears()
	for i, h := range header {
		col := Column{
			Name:       h,
			Normalized: normalizeFieldName(h),
			Kind:       classify(h, years),
			FillRate:   fillRate(rows, i),
		}
		if col.Kind == "year" {
			y, _ := strconv.Atoi(strings.TrimSpace(h))
			rep.YearColumns = append(rep.YearColumns, y)
		}
		rep.Columns = append(rep.Columns, col)
	}
	return rep, nil
}

// readSample parses the sampled bytes best-effort: malformed or misaligned
// rows are skipped, and all rows are fitted to the header width.
func readSample(data []byte, delim rune, skipRows int) ([]string, [][]string, error) {
	for i := 0; i < skipRows; i++ {
		j := bytes.IndexByte(data, '\n')
		if j < 0 {
			return nil, nil, fmt.Errorf("sample ended inside the %d skipped lines", skipRows)
		}
		data = data[j+1:]
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var header []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return []string{}, nil, nil
		}
		if err != nil || len(rec) == 0 {
			continue // best-effort: skip bad line
		}
		header = rec
		break
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(rec) == 0 {
			continue
		}
		row := make([]string, len(header))
		copy(row, rec)
		rows = append(rows, row)
	}
	return header, rows, nil
}

func classify(header string, years table.YearRange) string {
	switch header {
	case cleaner.CompositeKeyColumn:
		return "key"
	case cleaner.CountryNameColumn:
		return "country"
	}
	if y, err := strconv.Atoi(strings.TrimSpace(header)); err == nil {
		if years.Contains(y) {
			return "year"
		}
		return "year_out_of_range"
	}
	return "text"
}

func fillRate(rows [][]string, col int) float64 {
	if len(rows) == 0 {
		return 0
	}
	filled := 0
	for _, row := range rows {
		if col < len(row) && strings.TrimSpace(row[col]) != "" {
			filled++
		}
	}
	return float64(filled) / float64(len(rows))
}

// normalizeFieldName converts arbitrary header text into a lowercase ASCII
// identifier:
//  1. lowercase
//  2. strip accents (NFD -> remove Mn -> NFC)
//  3. keep [a-z0-9_]; convert space/dash/dot to underscore; drop others
//  4. fallback to "col" if empty
func normalizeFieldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "col"
	}
	return name
}
