// Package merge joins the long emissions table with the long population
// table on (country, year).
//
// Duplicate keys on either side fan out (Cartesian product for that key).
// That is accepted behavior: inputs are expected to be pre-aggregated to at
// most one row per (country, year, sector), and the merger does not
// second-guess them with deduplication.
package merge

import (
	"fmt"

	"github.com/guregu/null"

	"ggekpi/internal/table"
)

// Mode selects the join semantics.
type Mode string

const (
	Inner Mode = "inner" // only keys present in both sources survive
	Left  Mode = "left"  // every emissions row, population cells may be missing
	Right Mode = "right" // every population row, emissions cells may be missing
	Outer Mode = "outer" // every key from either side
)

// ParseMode validates a join mode string from configuration.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Inner, Left, Right, Outer:
		return Mode(s), nil
	case "":
		return Inner, nil
	default:
		return "", fmt.Errorf("unknown join mode %q (want inner, left, right, or outer)", s)
	}
}

// key identifies one (country, year) pair. Rows with a missing country or
// year never match the other side; they only survive the join modes that
// keep unmatched rows.
type key struct {
	country string
	year    int64
}

func emissionsKey(r table.EmissionsLong) (key, bool) {
	if !r.Country.Valid || !r.Year.Valid {
		return key{}, false
	}
	return key{country: r.Country.String, year: r.Year.Int64}, true
}

// Join merges the two long tables on (country, year) with the selected mode.
// Output order is deterministic: emissions rows in input order with their
// matches expanded in population input order, then (for right/outer joins)
// unmatched population rows in input order.
func Join(em []table.EmissionsLong, pop []table.PopulationLong, mode Mode) ([]table.MergedRow, error) {
	switch mode {
	case Inner, Left, Right, Outer:
	default:
		return nil, fmt.Errorf("unknown join mode %q", mode)
	}

	popIdx := make(map[key][]int, len(pop))
	popMatched := make([]bool, len(pop))
	for i, p := range pop {
		if !p.Year.Valid {
			continue
		}
		k := key{country: p.Country, year: p.Year.Int64}
		popIdx[k] = append(popIdx[k], i)
	}

	var out []table.MergedRow
	for _, e := range em {
		k, ok := emissionsKey(e)
		matches := popIdx[k]
		if ok && len(matches) > 0 {
			for _, pi := range matches {
				popMatched[pi] = true
				out = append(out, fromEmissions(e, pop[pi].Population))
			}
			continue
		}
		// Unmatched emissions row.
		if mode == Left || mode == Outer {
			out = append(out, fromEmissions(e, null.Int{}))
		}
	}

	if mode == Right || mode == Outer {
		for i, p := range pop {
			if !popMatched[i] {
				out = append(out, fromPopulation(p))
			}
		}
	}
	return out, nil
}

func fromEmissions(e table.EmissionsLong, population null.Int) table.MergedRow {
	return table.MergedRow{
		Freq:       e.Freq,
		Unit:       e.Unit,
		Airpol:     e.Airpol,
		SrcCRF:     e.SrcCRF,
		Geo:        e.Geo,
		Country:    e.Country,
		SectorMain: e.SectorMain,
		Year:       e.Year,
		Emissions:  e.Emissions,
		Population: population,
	}
}

// fromPopulation builds the population-only side of a right/outer join: the
// emissions fields stay at their missing/empty values.
func fromPopulation(p table.PopulationLong) table.MergedRow {
	return table.MergedRow{
		Country:    null.StringFrom(p.Country),
		Year:       p.Year,
		Population: p.Population,
	}
}
