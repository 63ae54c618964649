// Package kpi computes the country-level target indicators and broadcasts
// them onto every row of the country.
//
// Both computations follow the same two-phase shape: first build a small
// per-country lookup of group sums at the anchor years, then left-join that
// lookup back onto the full row set by country. Rows keep their own year;
// the KPI cells are group facts repeated on every row of the group.
package kpi

import (
	"github.com/guregu/null"

	"ggekpi/internal/table"
)

// groupSums holds, per country, the emissions sum at one anchor year. A
// country absent from the map has no rows at that year at all; its KPIs stay
// missing rather than becoming zero.
type groupSums map[string]float64

// sumAtYear sums the emissions of every row whose year matches, grouped by
// country. Missing emissions cells contribute nothing to the sum, but their
// row still marks the (country, year) group as present, so an all-missing
// group sums to zero rather than being absent.
func sumAtYear(rows []table.MergedRow, year int) groupSums {
	sums := make(groupSums)
	for _, r := range rows {
		if !r.Country.Valid || !r.Year.Valid || r.Year.Int64 != int64(year) {
			continue
		}
		s := sums[r.Country.String]
		if r.Emissions.Valid {
			s += r.Emissions.Float64
		}
		sums[r.Country.String] = s
	}
	return sums
}

// AddReductionPercent derives the actual percent change of each country's
// emissions between baseYear and currentYear:
//
//	redução_%_atual = (sum(currentYear) - sum(baseYear)) * 100 / sum(baseYear)
//
// and broadcasts it to every row of the country. Countries with no rows at
// either anchor year, or a zero base sum, get a missing cell on all rows.
func AddReductionPercent(rows []table.MergedRow, baseYear, currentYear int) []table.MergedRow {
	base := sumAtYear(rows, baseYear)
	curr := sumAtYear(rows, currentYear)

	out := make([]table.MergedRow, len(rows))
	for i, r := range rows {
		r.ReductionPctActual = null.Float{}
		if r.Country.Valid {
			b, okB := base[r.Country.String]
			c, okC := curr[r.Country.String]
			if okB && okC && b != 0 {
				// Multiply before dividing so round ratios (e.g. a 55%
				// cut) come out exact.
				r.ReductionPctActual = null.FloatFrom((c - b) * 100 / b)
			}
		}
		out[i] = r
	}
	return out
}

// AddTargetAndGap derives the theoretical 2030 target level and the distance
// from it, per country:
//
//	meta_2030 = sum(baseYear) * (100 + targetReductionPct) / 100
//	gap_2030  = meta_2030 - sum(compareYear)
//
// targetReductionPct is signed: -55 means a 55% cut. meta_2030 only needs
// the base-year sum; gap_2030 additionally needs the compare-year sum, so a
// country can have a target but a missing gap.
func AddTargetAndGap(rows []table.MergedRow, targetReductionPct float64, baseYear, compareYear int) []table.MergedRow {
	base := sumAtYear(rows, baseYear)
	comp := sumAtYear(rows, compareYear)

	out := make([]table.MergedRow, len(rows))
	for i, r := range rows {
		r.Meta2030 = null.Float{}
		r.Gap2030 = null.Float{}
		if r.Country.Valid {
			if b, ok := base[r.Country.String]; ok {
				target := b * (100 + targetReductionPct) / 100
				r.Meta2030 = null.FloatFrom(target)
				if c, ok := comp[r.Country.String]; ok {
					r.Gap2030 = null.FloatFrom(target - c)
				}
			}
		}
		out[i] = r
	}
	return out
}
