package feature

import (
	"github.com/guregu/null"
	"github.com/shopspring/decimal"

	"ggekpi/internal/table"
)

// DefaultFiveDecimalColumns are the magnitude columns rounded to 5 decimals.
func DefaultFiveDecimalColumns() []string {
	return []string{
		table.ColEmissions,
		table.ColEmissionsPerCapita,
		table.ColGap2030,
		table.ColMeta2030,
	}
}

// DefaultPercentColumns are rounded to whole percents.
func DefaultPercentColumns() []string {
	return []string{table.ColReductionPct}
}

// roundable maps a column name to an accessor for the cell it rounds.
// Names outside this map are silently skipped, matching the
// columns-not-present contract of the rounding step.
var roundable = map[string]func(*table.MergedRow) *null.Float{
	table.ColEmissions:          func(r *table.MergedRow) *null.Float { return &r.Emissions },
	table.ColEmissionsPerCapita: func(r *table.MergedRow) *null.Float { return &r.EmissionsPerCapita },
	table.ColReductionPct:       func(r *table.MergedRow) *null.Float { return &r.ReductionPctActual },
	table.ColMeta2030:           func(r *table.MergedRow) *null.Float { return &r.Meta2030 },
	table.ColGap2030:            func(r *table.MergedRow) *null.Float { return &r.Gap2030 },
}

// ApplyRounding rounds the named magnitude columns to 5 decimal places and
// the named percent columns to 0 decimal places. Missing cells stay missing.
//
// Halfway values round away from zero (shopspring/decimal Round semantics):
// 0.000005 at 5 places becomes 0.00001, and -54.5 percent becomes -55.
func ApplyRounding(rows []table.MergedRow, fiveDecimalCols, percentCols []string) []table.MergedRow {
	out := make([]table.MergedRow, len(rows))
	copy(out, rows)
	for _, col := range fiveDecimalCols {
		roundColumn(out, col, 5)
	}
	for _, col := range percentCols {
		roundColumn(out, col, 0)
	}
	return out
}

func roundColumn(rows []table.MergedRow, col string, places int32) {
	access, ok := roundable[col]
	if !ok {
		return
	}
	for i := range rows {
		cell := access(&rows[i])
		if !cell.Valid {
			continue
		}
		rounded, _ := decimal.NewFromFloat(cell.Float64).Round(places).Float64()
		*cell = null.FloatFrom(rounded)
	}
}
