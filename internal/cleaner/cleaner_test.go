package cleaner

import (
	"errors"
	"testing"

	csvparser "ggekpi/internal/parser/csv"
	"ggekpi/internal/table"
)

func emissionsGrid(rows ...[]string) csvparser.Table {
	return csvparser.Table{
		Header: []string{CompositeKeyColumn, "1990", "2023"},
		Rows:   rows,
	}
}

/*
TestCleanEmissions verifies the emissions cleaning contract:

  - the composite key splits into five discrete fields
  - short keys yield empty trailing fields, not an error
  - geo decodes to a country name when mapped, missing otherwise
  - EU27_2020 aggregate rows are dropped by default and kept on request
  - unparseable year cells become missing cells
*/
func TestCleanEmissions(t *testing.T) {
	raw := emissionsGrid(
		[]string{"A,KT,CO2,CRF1.A,PT", "10.5", "8.25"},
		[]string{"A,KT,CO2,CRF1.A,EU27_2020", "100", "90"},
		[]string{"A,KT,CO2,CRF2,XX", ":", "1"},
		[]string{"A,KT", "1", "2"},
	)

	got, err := CleanEmissions(raw, EmissionsOptions{})
	if err != nil {
		t.Fatalf("CleanEmissions() error = %v", err)
	}
	if len(got.Rows) != 3 {
		t.Fatalf("rows = %d, want 3 (EU aggregate dropped)", len(got.Rows))
	}

	pt := got.Rows[0]
	if pt.Freq != "A" || pt.Unit != "KT" || pt.Airpol != "CO2" || pt.SrcCRF != "CRF1.A" || pt.Geo != "PT" {
		t.Errorf("composite key split = %+v", pt)
	}
	if !pt.Country.Valid || pt.Country.String != "Portugal" {
		t.Errorf("country = %v, want Portugal", pt.Country)
	}
	if v := pt.Years[1990]; !v.Valid || v.Float64 != 10.5 {
		t.Errorf("1990 cell = %v, want 10.5", v)
	}

	xx := got.Rows[1]
	if xx.Country.Valid {
		t.Errorf("unmapped geo %q decoded to %v, want missing", xx.Geo, xx.Country)
	}
	if xx.Years[1990].Valid {
		t.Errorf("unparseable cell %q coerced to %v, want missing", ":", xx.Years[1990])
	}

	short := got.Rows[2]
	if short.Freq != "A" || short.Unit != "KT" || short.Airpol != "" || short.Geo != "" {
		t.Errorf("short key: got %+v, want empty trailing fields", short)
	}
}

func TestCleanEmissions_KeepEUTotal(t *testing.T) {
	raw := emissionsGrid([]string{"A,KT,CO2,TOTX,EU27_2020", "100", "90"})
	got, err := CleanEmissions(raw, EmissionsOptions{KeepEUTotal: true})
	if err != nil {
		t.Fatalf("CleanEmissions() error = %v", err)
	}
	if len(got.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(got.Rows))
	}
	if got.Rows[0].Country.String != "European Union (EU27)" {
		t.Errorf("country = %v, want EU aggregate name", got.Rows[0].Country)
	}
}

func TestCleanEmissions_MissingKeyColumn(t *testing.T) {
	raw := csvparser.Table{Header: []string{"wrong", "1990"}, Rows: [][]string{{"x", "1"}}}
	_, err := CleanEmissions(raw, EmissionsOptions{})
	var se *table.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *table.SchemaError", err)
	}
	if se.Table != "emissions" || se.Column != CompositeKeyColumn {
		t.Errorf("SchemaError = %+v, want emissions/%s", se, CompositeKeyColumn)
	}
}

/*
TestCleanPopulation verifies the population cleaning contract:

  - only allow-listed countries survive
  - metadata columns are tolerated and ignored
  - year columns outside 1990-2023 are dropped
  - non-numeric cells coerce to missing, not an error
*/
func TestCleanPopulation(t *testing.T) {
	raw := csvparser.Table{
		Header: []string{"Country Name", "Country Code", "Indicator Name", "Indicator Code", "1960", "1990", "2023"},
		Rows: [][]string{
			{"Portugal", "PRT", "Population, total", "SP.POP.TOTL", "8857716", "9983218", "10525347"},
			{"Brazil", "BRA", "Population, total", "SP.POP.TOTL", "7", "8", "9"},
			{"Iceland", "ISL", "Population, total", "SP.POP.TOTL", "..", "..", "393600"},
		},
	}

	got, err := CleanPopulation(raw, PopulationOptions{})
	if err != nil {
		t.Fatalf("CleanPopulation() error = %v", err)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("rows = %d, want 2 (Brazil dropped)", len(got.Rows))
	}
	if len(got.YearCols) != 2 || got.YearCols[0] != 1990 || got.YearCols[1] != 2023 {
		t.Fatalf("YearCols = %v, want [1990 2023] (1960 dropped)", got.YearCols)
	}

	pt := got.Rows[0]
	if pt.Country != "Portugal" {
		t.Fatalf("country = %q", pt.Country)
	}
	if v := pt.Years[1990]; !v.Valid || v.Int64 != 9983218 {
		t.Errorf("1990 cell = %v, want 9983218", v)
	}

	is := got.Rows[1]
	if is.Years[1990].Valid {
		t.Errorf("non-numeric cell coerced to %v, want missing", is.Years[1990])
	}
	if v := is.Years[2023]; !v.Valid || v.Int64 != 393600 {
		t.Errorf("2023 cell = %v, want 393600", v)
	}
}

func TestCleanPopulation_WithoutMetadataColumns(t *testing.T) {
	raw := csvparser.Table{
		Header: []string{"Country Name", "1990"},
		Rows:   [][]string{{"Malta", "352430"}},
	}
	got, err := CleanPopulation(raw, PopulationOptions{})
	if err != nil {
		t.Fatalf("CleanPopulation() error = %v", err)
	}
	if len(got.Rows) != 1 || got.Rows[0].Country != "Malta" {
		t.Fatalf("rows = %+v, want one Malta row", got.Rows)
	}
}

func TestCleanPopulation_MissingCountryName(t *testing.T) {
	raw := csvparser.Table{Header: []string{"Name", "1990"}}
	_, err := CleanPopulation(raw, PopulationOptions{})
	var se *table.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *table.SchemaError", err)
	}
	if se.Table != "population" || se.Column != CountryNameColumn {
		t.Errorf("SchemaError = %+v", se)
	}
}

/*
TestDefaultTables pins the sizes of the decode map and the allow-list: 30
geo codes (29 countries plus the EU aggregate) and 29 allow-listed names.
Every allow-listed name must be reachable from some geo code, otherwise its
population rows could never join.
*/
func TestDefaultTables(t *testing.T) {
	m := DefaultCountryMap()
	if len(m) != 30 {
		t.Errorf("len(DefaultCountryMap()) = %d, want 30", len(m))
	}
	allowed := DefaultEUCountries()
	if len(allowed) != 29 {
		t.Errorf("len(DefaultEUCountries()) = %d, want 29", len(allowed))
	}

	mapped := make(map[string]bool, len(m))
	for _, name := range m {
		mapped[name] = true
	}
	for _, c := range allowed {
		if !mapped[c] {
			t.Errorf("allow-listed country %q has no geo code mapping", c)
		}
	}
}
