// Package table defines the typed tabular records flowing through the
// pipeline, plus the nullable arithmetic used to derive columns from them.
//
// Design notes:
//
//   - Every numeric cell that can be absent is a guregu/null value. A cell is
//     either a concrete number or invalid ("missing"); there is no implicit
//     zero. All derived-column arithmetic lives in nullmath.go and defines its
//     missing-input behavior explicitly.
//   - Wide tables carry their year columns separately from their rows
//     (EmissionsTable.YearCols). A year column can exist while every cell in
//     it is missing, which matters for the "column absent" error contracts.
//   - Stages never mutate their input; each stage returns freshly built rows.
package table

import "github.com/guregu/null"

// YearRange is an inclusive range of year columns, e.g. 1990..2023.
type YearRange struct {
	First int
	Last  int
}

// DefaultYears is the range covered by both source datasets.
func DefaultYears() YearRange { return YearRange{First: 1990, Last: 2023} }

// Contains reports whether y falls inside the range.
func (r YearRange) Contains(y int) bool { return y >= r.First && y <= r.Last }

// Years returns every year in the range in ascending order.
func (r YearRange) Years() []int {
	if r.Last < r.First {
		return nil
	}
	ys := make([]int, 0, r.Last-r.First+1)
	for y := r.First; y <= r.Last; y++ {
		ys = append(ys, y)
	}
	return ys
}

// EmissionsWide is one cleaned emissions row: the five fields split out of the
// Eurostat composite key, the decoded country, and one cell per year column.
// Country is invalid when the geo code is not in the configured mapping.
type EmissionsWide struct {
	Freq    string
	Unit    string
	Airpol  string
	SrcCRF  string
	Geo     string
	Country null.String

	// Years holds one cell per year column of the source table. A key that is
	// present with an invalid value is an unparseable cell; a key that is
	// absent means the source had no column for that year.
	Years map[int]null.Float

	// Derived by the feature stage; invalid until computed.
	TotalEmissions  null.Float
	DifferenceTotal null.Float
}

// CloneYears returns a copy of the Years map so derived tables can be built
// without aliasing the input rows.
func (w EmissionsWide) CloneYears() map[int]null.Float {
	cp := make(map[int]null.Float, len(w.Years))
	for y, v := range w.Years {
		cp[y] = v
	}
	return cp
}

// EmissionsTable is a cleaned wide emissions table: the ordered set of year
// columns present in the source plus one EmissionsWide per source row.
type EmissionsTable struct {
	YearCols []int // ascending
	Rows     []EmissionsWide
}

// HasYear reports whether the table has a column for year y.
func (t *EmissionsTable) HasYear(y int) bool {
	for _, c := range t.YearCols {
		if c == y {
			return true
		}
	}
	return false
}

// PopulationWide is one cleaned population row: a country from the allow-list
// plus one cell per year column.
type PopulationWide struct {
	Country string
	Years   map[int]null.Int
}

// PopulationTable is a cleaned wide population table.
type PopulationTable struct {
	YearCols []int // ascending
	Rows     []PopulationWide
}

// EmissionsLong is one row of the melted emissions table: one (row, year)
// combination with a single emissions value and the coarse sector bucket.
type EmissionsLong struct {
	Freq       string
	Unit       string
	Airpol     string
	SrcCRF     string
	Geo        string
	Country    null.String
	SectorMain string
	Year       null.Int
	Emissions  null.Float
}

// PopulationLong is one row of the melted population table.
type PopulationLong struct {
	Country    string
	Year       null.Int
	Population null.Int
}

// MergedRow joins EmissionsLong with PopulationLong on (country, year) and
// carries every derived column through to export. Cells stay invalid when
// their inputs were missing; the exporter writes them as empty fields.
type MergedRow struct {
	Freq       string
	Unit       string
	Airpol     string
	SrcCRF     string
	Geo        string
	Country    null.String
	SectorMain string
	Year       null.Int
	Emissions  null.Float
	Population null.Int

	EmissionsPerCapita null.Float
	ReductionPctActual null.Float // redução_%_atual
	Meta2030           null.Float
	Gap2030            null.Float
}
