// Package feature derives computed columns on the wide and long tables:
// row-wise totals and differences on the wide emissions table, the coarse
// sector bucket on the long table, per-capita emissions on the merged table,
// and the final rounding pass.
package feature

import (
	"fmt"

	"github.com/guregu/null"

	"ggekpi/internal/table"
)

// AddTotalEmissions sums the year cells inside the range row-wise into
// TotalEmissions. Missing cells contribute nothing to the sum; a row whose
// cells are all missing totals to zero, mirroring the source semantics.
// It fails when the table has no year columns inside the requested range,
// which indicates a misconfigured range rather than bad data.
func AddTotalEmissions(t *table.EmissionsTable, years table.YearRange) (*table.EmissionsTable, error) {
	cols := yearsInRange(t.YearCols, years)
	if len(cols) == 0 {
		return nil, fmt.Errorf("total emissions: no year columns found in range %d-%d", years.First, years.Last)
	}

	out := &table.EmissionsTable{YearCols: t.YearCols, Rows: make([]table.EmissionsWide, len(t.Rows))}
	for i, w := range t.Rows {
		sum := 0.0
		for _, y := range cols {
			if v := w.Years[y]; v.Valid {
				sum += v.Float64
			}
		}
		row := w
		row.Years = w.CloneYears()
		row.TotalEmissions = null.FloatFrom(sum)
		out.Rows[i] = row
	}
	return out, nil
}

// AddDifferenceBetweenYears computes DifferenceTotal = value(yearB) -
// value(yearA) on the wide emissions table. Both year columns must exist;
// rows where either cell is missing are dropped rather than zero-filled, so
// a partial time series never fakes a difference of its own magnitude.
func AddDifferenceBetweenYears(t *table.EmissionsTable, yearA, yearB int) (*table.EmissionsTable, error) {
	if !t.HasYear(yearA) {
		return nil, fmt.Errorf("difference between years: missing year column %d", yearA)
	}
	if !t.HasYear(yearB) {
		return nil, fmt.Errorf("difference between years: missing year column %d", yearB)
	}

	out := &table.EmissionsTable{YearCols: t.YearCols}
	for _, w := range t.Rows {
		a, b := w.Years[yearA], w.Years[yearB]
		if !a.Valid || !b.Valid {
			continue
		}
		row := w
		row.Years = w.CloneYears()
		row.DifferenceTotal = table.SubFloat(b, a)
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// AddEmissionsPerCapita derives emissions / population on every merged row.
// A missing or zero population leaves the cell missing: the division result
// is parked for manual review instead of surfacing as ±Inf or aborting.
func AddEmissionsPerCapita(rows []table.MergedRow) []table.MergedRow {
	out := make([]table.MergedRow, len(rows))
	for i, r := range rows {
		r.EmissionsPerCapita = table.DivFloat(r.Emissions, table.IntToFloat(r.Population))
		out[i] = r
	}
	return out
}

func yearsInRange(cols []int, years table.YearRange) []int {
	out := make([]int, 0, len(cols))
	for _, y := range cols {
		if years.Contains(y) {
			out = append(out, y)
		}
	}
	return out
}
