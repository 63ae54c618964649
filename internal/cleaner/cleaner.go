// Package cleaner normalizes the two raw source grids into canonical typed
// wide tables. Everything downstream relies on its output contract: split
// composite key, trimmed headers, decoded country names, allow-listed
// population rows, and year columns restricted to the configured range.
package cleaner

import (
	"sort"
	"strconv"
	"strings"

	"github.com/guregu/null"

	csvparser "ggekpi/internal/parser/csv"
	"ggekpi/internal/table"
)

// CompositeKeyColumn is the Eurostat header that packs the five id fields
// into a single comma-separated cell.
const CompositeKeyColumn = `freq,unit,airpol,src_crf,geo\TIME_PERIOD`

// CountryNameColumn is the World Bank header carrying the country name.
const CountryNameColumn = "Country Name"

// EUTotalGeo is the Eurostat pseudo-country aggregating the whole EU. It is
// dropped by default so per-country KPIs are not polluted by the aggregate.
const EUTotalGeo = "EU27_2020"

// populationMetadataColumns are dropped from the population source when
// present. The cleaner tolerates exports both with and without them.
var populationMetadataColumns = []string{"Country Code", "Indicator Name", "Indicator Code"}

// DefaultCountryMap decodes Eurostat geo codes into country names: the 27 EU
// member states, Norway and Iceland, and the EU27 aggregate pseudo-code.
func DefaultCountryMap() map[string]string {
	return map[string]string{
		"AT": "Austria",
		"BE": "Belgium",
		"BG": "Bulgaria",
		"CY": "Cyprus",
		"CZ": "Czech Republic",
		"DE": "Germany",
		"DK": "Denmark",
		"EE": "Estonia",
		"EL": "Greece",
		"ES": "Spain",
		"FI": "Finland",
		"FR": "France",
		"HR": "Croatia",
		"HU": "Hungary",
		"IE": "Ireland",
		"IT": "Italy",
		"LT": "Lithuania",
		"LU": "Luxembourg",
		"LV": "Latvia",
		"MT": "Malta",
		"NL": "Netherlands",
		"PL": "Poland",
		"PT": "Portugal",
		"RO": "Romania",
		"SE": "Sweden",
		"SI": "Slovenia",
		"SK": "Slovakia",
		"NO": "Norway",
		"IS": "Iceland",
		EUTotalGeo: "European Union (EU27)",
	}
}

// DefaultEUCountries is the population allow-list: the 27 EU member states
// plus Iceland and Norway. Any source country outside the list is dropped.
func DefaultEUCountries() []string {
	return []string{
		"Austria", "Belgium", "Bulgaria", "Cyprus", "Czech Republic",
		"Germany", "Denmark", "Estonia", "Greece", "Spain",
		"Finland", "France", "Croatia", "Hungary", "Ireland",
		"Italy", "Lithuania", "Luxembourg", "Latvia", "Malta",
		"Netherlands", "Poland", "Portugal", "Romania", "Sweden",
		"Slovenia", "Slovakia", "Iceland", "Norway",
	}
}

// EmissionsOptions configures CleanEmissions. Zero values select the
// defaults: the built-in country map, the default year range, and dropping
// the EU aggregate.
type EmissionsOptions struct {
	CountryMap map[string]string
	Years      table.YearRange
	// KeepEUTotal retains EU27_2020 aggregate rows. Inverted so that the
	// zero value preserves the default drop behavior.
	KeepEUTotal bool
}

// CleanEmissions turns the raw Eurostat grid into a typed wide table:
//
//   - splits the composite key column into freq, unit, airpol, src_crf, geo
//   - decodes geo into a country name via the mapping (missing when unmapped)
//   - keeps only year columns inside the configured range
//   - coerces every year cell to a nullable float (unparseable -> missing)
//   - drops EU-aggregate rows unless KeepEUTotal is set
//
// A grid without the composite key column is a schema mismatch and aborts
// the run with a *table.SchemaError.
func CleanEmissions(raw csvparser.Table, opt EmissionsOptions) (*table.EmissionsTable, error) {
	if opt.CountryMap == nil {
		opt.CountryMap = DefaultCountryMap()
	}
	if opt.Years == (table.YearRange{}) {
		opt.Years = table.DefaultYears()
	}

	keyIdx := raw.Index(CompositeKeyColumn)
	if keyIdx < 0 {
		return nil, &table.SchemaError{Table: "emissions", Column: CompositeKeyColumn}
	}

	yearCols, yearIdx := yearColumns(raw.Header, opt.Years)

	out := &table.EmissionsTable{YearCols: yearCols}
	for _, row := range raw.Rows {
		freq, unit, airpol, src, geo := splitCompositeKey(row[keyIdx])
		if !opt.KeepEUTotal && geo == EUTotalGeo {
			continue
		}

		w := table.EmissionsWide{
			Freq:   freq,
			Unit:   unit,
			Airpol: airpol,
			SrcCRF: src,
			Geo:    geo,
			Years:  make(map[int]null.Float, len(yearCols)),
		}
		if name, ok := opt.CountryMap[geo]; ok {
			w.Country = null.StringFrom(name)
		}
		for _, y := range yearCols {
			w.Years[y] = table.ParseFloat(row[yearIdx[y]])
		}
		out.Rows = append(out.Rows, w)
	}
	return out, nil
}

// splitCompositeKey splits "freq,unit,airpol,src_crf,geo" into its five
// fields. Rows with fewer than five comma-separated fields yield empty
// trailing fields rather than an error; extra fields are ignored.
func splitCompositeKey(cell string) (freq, unit, airpol, src, geo string) {
	parts := strings.Split(cell, ",")
	fields := [5]string{}
	for i := 0; i < len(fields) && i < len(parts); i++ {
		fields[i] = strings.TrimSpace(parts[i])
	}
	return fields[0], fields[1], fields[2], fields[3], fields[4]
}

// PopulationOptions configures CleanPopulation. Zero values select the
// default allow-list and year range.
type PopulationOptions struct {
	Allowed []string
	Years   table.YearRange
}

// CleanPopulation turns the raw World Bank grid into a typed wide table:
//
//   - filters rows to the country allow-list (others silently dropped)
//   - drops the metadata columns when present (tolerates their absence)
//   - keeps only year columns inside the configured range
//   - coerces every year cell to a nullable integer (unparseable -> missing)
//
// A grid without the Country Name column is a schema mismatch and aborts
// the run with a *table.SchemaError.
func CleanPopulation(raw csvparser.Table, opt PopulationOptions) (*table.PopulationTable, error) {
	if opt.Allowed == nil {
		opt.Allowed = DefaultEUCountries()
	}
	if opt.Years == (table.YearRange{}) {
		opt.Years = table.DefaultYears()
	}

	nameIdx := raw.Index(CountryNameColumn)
	if nameIdx < 0 {
		return nil, &table.SchemaError{Table: "population", Column: CountryNameColumn}
	}

	allowed := make(map[string]struct{}, len(opt.Allowed))
	for _, c := range opt.Allowed {
		allowed[c] = struct{}{}
	}

	// Metadata columns are dropped implicitly: only Country Name and the
	// in-range year columns are read out of the raw grid.
	yearCols, yearIdx := yearColumns(raw.Header, opt.Years)

	out := &table.PopulationTable{YearCols: yearCols}
	for _, row := range raw.Rows {
		name := strings.TrimSpace(row[nameIdx])
		if _, ok := allowed[name]; !ok {
			continue
		}
		w := table.PopulationWide{
			Country: name,
			Years:   make(map[int]null.Int, len(yearCols)),
		}
		for _, y := range yearCols {
			w.Years[y] = table.ParseInt(row[yearIdx[y]])
		}
		out.Rows = append(out.Rows, w)
	}
	return out, nil
}

// yearColumns scans trimmed headers for integer year names inside the range
// and returns them ascending, plus a year -> column index lookup. Headers
// outside the range (e.g. 1960..1989 in the World Bank export) are dropped.
func yearColumns(header []string, years table.YearRange) ([]int, map[int]int) {
	idx := make(map[int]int)
	var cols []int
	for i, h := range header {
		y, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil || !years.Contains(y) {
			continue
		}
		if _, dup := idx[y]; dup {
			continue // first column wins on duplicate year headers
		}
		idx[y] = i
		cols = append(cols, y)
	}
	sort.Ints(cols)
	return cols, idx
}
