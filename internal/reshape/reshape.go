// Package reshape melts the cleaned wide tables (one column per year) into
// long tables (one row per entity per year).
//
// The melt replicates every (id fields x year column) combination, in year
// order then row order, which keeps output deterministic across runs. Wide
// derived columns (totals, differences) are intentionally not carried into
// the long tables; they are features of the wide representation only.
package reshape

import (
	"github.com/guregu/null"

	"ggekpi/internal/table"
)

// EmissionsWideToLong melts the wide emissions table. Each output row carries
// the id fields of its source row, a nullable integer year, and a single
// nullable emissions value. SectorMain is left empty; the feature stage
// fills it in.
func EmissionsWideToLong(t *table.EmissionsTable, years table.YearRange) []table.EmissionsLong {
	cols := inRange(t.YearCols, years)
	out := make([]table.EmissionsLong, 0, len(cols)*len(t.Rows))
	for _, y := range cols {
		for _, w := range t.Rows {
			out = append(out, table.EmissionsLong{
				Freq:      w.Freq,
				Unit:      w.Unit,
				Airpol:    w.Airpol,
				SrcCRF:    w.SrcCRF,
				Geo:       w.Geo,
				Country:   w.Country,
				Year:      null.IntFrom(int64(y)),
				Emissions: w.Years[y],
			})
		}
	}
	return out
}

// PopulationWideToLong melts the wide population table into (country, year,
// population) rows.
func PopulationWideToLong(t *table.PopulationTable, years table.YearRange) []table.PopulationLong {
	cols := inRange(t.YearCols, years)
	out := make([]table.PopulationLong, 0, len(cols)*len(t.Rows))
	for _, y := range cols {
		for _, w := range t.Rows {
			out = append(out, table.PopulationLong{
				Country:    w.Country,
				Year:       null.IntFrom(int64(y)),
				Population: w.Years[y],
			})
		}
	}
	return out
}

func inRange(cols []int, years table.YearRange) []int {
	out := make([]int, 0, len(cols))
	for _, y := range cols {
		if years.Contains(y) {
			out = append(out, y)
		}
	}
	return out
}
