package table

// Canonical output column names. The final header follows insertion order:
// the melt emits the id fields, year and emissions; the feature, merge and
// KPI stages append the rest in the order they run. The KPI names keep the
// original reporting labels.
const (
	ColFreq               = "freq"
	ColUnit               = "unit"
	ColAirpol             = "airpol"
	ColSrcCRF             = "src_crf"
	ColGeo                = "geo"
	ColCountry            = "country"
	ColYear               = "year"
	ColEmissions          = "emissions"
	ColSectorMain         = "sector_main"
	ColPopulation         = "population"
	ColEmissionsPerCapita = "emissions_per_capita"
	ColReductionPct       = "redução_%_atual"
	ColMeta2030           = "meta_2030"
	ColGap2030            = "gap_2030"
)
