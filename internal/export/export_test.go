package export

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/guregu/null"

	"ggekpi/internal/table"
)

func TestHeaderOrder(t *testing.T) {
	want := []string{
		"freq", "unit", "airpol", "src_crf", "geo", "country", "year",
		"emissions", "sector_main", "population", "emissions_per_capita",
		"redução_%_atual", "meta_2030", "gap_2030",
	}
	if got := Header(); !reflect.DeepEqual(got, want) {
		t.Errorf("Header() = %v, want %v", got, want)
	}
}

func sampleRow() table.MergedRow {
	return table.MergedRow{
		Freq:               "A",
		Unit:               "THS_T",
		Airpol:             "GHG",
		SrcCRF:             "CRF1.A",
		Geo:                "PT",
		Country:            null.StringFrom("Portugal"),
		SectorMain:         "Energia",
		Year:               null.IntFrom(1990),
		Emissions:          null.FloatFrom(120.5),
		Population:         null.IntFrom(9899284),
		EmissionsPerCapita: null.FloatFrom(0.00001),
		ReductionPctActual: null.FloatFrom(-55),
		Meta2030:           null.FloatFrom(90),
		Gap2030:            null.FloatFrom(0),
	}
}

func TestCells(t *testing.T) {
	want := []string{
		"A", "THS_T", "GHG", "CRF1.A", "PT", "Portugal", "1990",
		"120.5", "Energia", "9899284", "0.00001", "-55", "90", "0",
	}
	if got := cells(sampleRow()); !reflect.DeepEqual(got, want) {
		t.Errorf("cells() = %v, want %v", got, want)
	}
}

// Missing cells render as empty strings, never as "0" or "<nil>".
func TestCellsMissing(t *testing.T) {
	r := table.MergedRow{Geo: "ES", Country: null.StringFrom("Spain"), Year: null.IntFrom(2023)}
	got := cells(r)
	for _, i := range []int{7, 9, 10, 11, 12, 13} {
		if got[i] != "" {
			t.Errorf("cell %d (%s) = %q, want empty", i, Header()[i], got[i])
		}
	}
}

func TestNewUnknownKind(t *testing.T) {
	if _, err := New(Config{Kind: "parquet", Path: "x"}); err == nil {
		t.Error("New(parquet) error = nil, want unknown-kind error")
	}
}

func TestTSVSinkWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	sink, err := New(Config{Kind: "tsv", Path: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := sink.Write(context.Background(), []table.MergedRow{sampleRow()}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header + 1 row", len(lines))
	}
	if got, want := lines[0], strings.Join(Header(), "\t"); got != want {
		t.Errorf("header line = %q, want %q", got, want)
	}
	if got, want := lines[1], strings.Join(cells(sampleRow()), "\t"); got != want {
		t.Errorf("data line = %q, want %q", got, want)
	}
}

/*
TestTSVSinkIdempotent writes the same rows twice to the same path and checks
that both the bytes and the digest match: reruns over unchanged inputs must
produce byte-identical output.
*/
func TestTSVSinkIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	rows := []table.MergedRow{sampleRow(), {Geo: "ES", Country: null.StringFrom("Spain")}}

	sink := &TSVSink{Path: path}
	if err := sink.Write(context.Background(), rows); err != nil {
		t.Fatalf("first Write() error = %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	firstDigest, err := Digest(path)
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}

	if err := sink.Write(context.Background(), rows); err != nil {
		t.Fatalf("second Write() error = %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	secondDigest, err := Digest(path)
	if err != nil {
		t.Fatalf("Digest() error = %v", err)
	}

	if string(first) != string(second) {
		t.Error("rewrite produced different bytes")
	}
	if firstDigest != secondDigest {
		t.Errorf("digests differ: %x vs %x", firstDigest, secondDigest)
	}
}

func TestTSVSinkBadPath(t *testing.T) {
	sink := &TSVSink{Path: filepath.Join(t.TempDir(), "no", "such", "dir", "out.tsv")}
	if err := sink.Write(context.Background(), nil); err == nil {
		t.Error("Write() error = nil, want create error")
	}
}
