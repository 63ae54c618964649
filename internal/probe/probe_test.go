package probe

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNormalizeFieldName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Country Name", "country_name"},
		{"redução_%_atual", "reducao_atual"},
		{"  1990 ", "1990"},
		{"Indicator-Code", "indicator_code"},
		{"№№№", "col"},
		{"emissions.per.capita", "emissions_per_capita"},
	}
	for _, tt := range tests {
		if got := normalizeFieldName(tt.in); got != tt.want {
			t.Errorf("normalizeFieldName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassifyViaFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gge.tsv")
	content := "freq,unit,airpol,src_crf,geo\\TIME_PERIOD\t1960 \t1990 \t2023 \tnote\n" +
		"A,THS_T,GHG,CRF1,PT\t1\t2\t3\t\n" +
		"A,THS_T,GHG,CRF2,PT\t4\t\t6\tx\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rep, err := File(path, '\t', 0, 0)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}

	kinds := make([]string, len(rep.Columns))
	for i, c := range rep.Columns {
		kinds[i] = c.Kind
	}
	wantKinds := []string{"key", "year_out_of_range", "year", "year", "text"}
	if !reflect.DeepEqual(kinds, wantKinds) {
		t.Errorf("kinds = %v, want %v", kinds, wantKinds)
	}
	if want := []int{1990, 2023}; !reflect.DeepEqual(rep.YearColumns, want) {
		t.Errorf("YearColumns = %v, want %v", rep.YearColumns, want)
	}
	if rep.SampledRows != 2 {
		t.Errorf("SampledRows = %d, want 2", rep.SampledRows)
	}

	// Column 2 (1990) is empty on the second row: fill rate 0.5. The note
	// column is empty on the first row: also 0.5.
	if got := rep.Columns[2].FillRate; got != 0.5 {
		t.Errorf("1990 fill rate = %v, want 0.5", got)
	}
	if got := rep.Columns[0].FillRate; got != 1.0 {
		t.Errorf("key fill rate = %v, want 1.0", got)
	}
}

// Skip rows and truncated sampling: the last line of a full sample window is
// dropped rather than half-parsed.
func TestFileSkipRowsAndTruncation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pop.csv")
	content := "junk line one\njunk line two\n" +
		"Country Name,1990,2023\n" +
		"Portugal,10000000,10300000\n" +
		"Spain,38000000,48000000\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	// Sample window ends mid-way through the Spain row; that row must not
	// appear in the sample.
	rep, err := File(path, ',', 2, len(content)-10)
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if rep.SampledRows != 1 {
		t.Errorf("SampledRows = %d, want 1", rep.SampledRows)
	}
	if rep.Columns[0].Kind != "country" {
		t.Errorf("column 0 kind = %q, want country", rep.Columns[0].Kind)
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "nope.tsv"), '\t', 0, 0); err == nil {
		t.Error("File() error = nil, want open error")
	}
}
