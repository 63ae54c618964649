package csv

import (
	"reflect"
	"strings"
	"testing"
)

/*
TestReadTable_TableDriven verifies the raw-grid contract of ReadTable:

  - headers are trimmed and BOM-stripped
  - SkipRows drops raw metadata lines that are not valid CSV
  - short rows are padded to the header width with empty cells
  - long rows are truncated to the header width
  - NBSP-padded cells trim like ASCII-padded ones when TrimSpace is set
*/
func TestReadTable_TableDriven(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opt  Options
		want Table
	}{
		{
			name: "tab_delimited_trimmed_headers",
			in:   "a \t b\tc\n1\t2\t3\n",
			opt:  Options{Comma: '\t'},
			want: Table{Header: []string{"a", "b", "c"}, Rows: [][]string{{"1", "2", "3"}}},
		},
		{
			name: "bom_stripped_from_first_header",
			in:   "\uFEFFa,b\n1,2\n",
			opt:  Options{},
			want: Table{Header: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}},
		},
		{
			name: "skip_rows_before_header",
			in:   "junk line one\n\"unbalanced, junk\n\nsource,updated\na,b\n1,2\n",
			opt:  Options{SkipRows: 4},
			want: Table{Header: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}},
		},
		{
			name: "short_row_padded_long_row_truncated",
			in:   "a,b,c\n1\n1,2,3,4\n",
			opt:  Options{},
			want: Table{Header: []string{"a", "b", "c"}, Rows: [][]string{{"1", "", ""}, {"1", "2", "3"}}},
		},
		{
			name: "trim_space_handles_nbsp",
			in:   "a,b\n 7 , x \n",
			opt:  Options{TrimSpace: true},
			want: Table{Header: []string{"a", "b"}, Rows: [][]string{{"7", "x"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadTable(strings.NewReader(tt.in), tt.opt)
			if err != nil {
				t.Fatalf("ReadTable() error = %v", err)
			}
			if !reflect.DeepEqual(got.Header, tt.want.Header) {
				t.Errorf("Header = %q, want %q", got.Header, tt.want.Header)
			}
			if !reflect.DeepEqual(got.Rows, tt.want.Rows) {
				t.Errorf("Rows = %q, want %q", got.Rows, tt.want.Rows)
			}
		})
	}
}

func TestReadTable_Errors(t *testing.T) {
	if _, err := ReadTable(strings.NewReader(""), Options{}); err == nil {
		t.Errorf("empty input: want error, got nil")
	}
	if _, err := ReadTable(strings.NewReader("one line\n"), Options{SkipRows: 4}); err == nil {
		t.Errorf("input shorter than SkipRows: want error, got nil")
	}
}

func TestTableIndex(t *testing.T) {
	tbl := Table{Header: []string{"Country Name", "1990"}}
	if got := tbl.Index("Country Name"); got != 0 {
		t.Errorf("Index(Country Name) = %d, want 0", got)
	}
	if got := tbl.Index("nope"); got != -1 {
		t.Errorf("Index(nope) = %d, want -1", got)
	}
}
