// Package export serializes the final merged table. It mirrors the storage
// factory shape used elsewhere in the project: a narrow Sink interface, a
// kind-keyed factory, and one file per concrete sink.
package export

import (
	"context"
	"fmt"
	"strconv"

	"github.com/guregu/null"

	"ggekpi/internal/table"
)

// Sink writes the full merged table to its destination in one shot. I/O
// failures are surfaced, not recovered; the pipeline has no retry story for
// a one-shot batch job over local files.
type Sink interface {
	Write(ctx context.Context, rows []table.MergedRow) error
}

// Config selects and parameterizes a sink.
type Config struct {
	// Kind selects the sink implementation: "tsv" (default) or "xlsx".
	Kind string `json:"kind"`

	// Path is the output file path.
	Path string `json:"path"`

	// Sheet names the worksheet for the xlsx sink. Empty means "merged".
	Sheet string `json:"sheet,omitempty"`
}

// New constructs the sink for cfg.Kind.
func New(cfg Config) (Sink, error) {
	switch cfg.Kind {
	case "", "tsv":
		return &TSVSink{Path: cfg.Path}, nil
	case "xlsx":
		sheet := cfg.Sheet
		if sheet == "" {
			sheet = "merged"
		}
		return &XLSXSink{Path: cfg.Path, Sheet: sheet}, nil
	default:
		return nil, fmt.Errorf("unknown output kind %q (want tsv or xlsx)", cfg.Kind)
	}
}

// Header is the output header row, in the insertion order produced by the
// stage sequence: melt columns first, then each derived column in the order
// its stage runs.
func Header() []string {
	return []string{
		table.ColFreq,
		table.ColUnit,
		table.ColAirpol,
		table.ColSrcCRF,
		table.ColGeo,
		table.ColCountry,
		table.ColYear,
		table.ColEmissions,
		table.ColSectorMain,
		table.ColPopulation,
		table.ColEmissionsPerCapita,
		table.ColReductionPct,
		table.ColMeta2030,
		table.ColGap2030,
	}
}

// cells renders one merged row in Header order. Missing cells render as
// empty strings so they surface as blanks for manual review. Floats use the
// shortest representation that round-trips, which keeps output byte-stable
// across runs.
func cells(r table.MergedRow) []string {
	return []string{
		r.Freq,
		r.Unit,
		r.Airpol,
		r.SrcCRF,
		r.Geo,
		nullString(r.Country),
		nullInt(r.Year),
		nullFloat(r.Emissions),
		r.SectorMain,
		nullInt(r.Population),
		nullFloat(r.EmissionsPerCapita),
		nullFloat(r.ReductionPctActual),
		nullFloat(r.Meta2030),
		nullFloat(r.Gap2030),
	}
}

func nullString(v null.String) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

func nullInt(v null.Int) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatInt(v.Int64, 10)
}

func nullFloat(v null.Float) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}
