// Package config defines the canonical, JSON-serializable configuration
// model for the pipeline. It is intentionally small and explicit so that a
// run can be loaded from disk and passed through the program without glue
// code; decoding is performed by the standard library.
//
// Example (trimmed):
//
//	{
//	  "job": "gge_eu_targets",
//	  "emissions":  { "path": "data/raw/estat_env_air_gge.tsv", "delimiter": "\t" },
//	  "population": { "path": "data/raw/populacao.csv", "skip_rows": 4 },
//	  "output":     { "kind": "tsv", "path": "data/processed/merged_dataset.tsv" },
//	  "years":      { "base": 1990, "current": 2023, "compare": 2023 },
//	  "target_reduction_pct": -55.0,
//	  "join": "inner"
//	}
package config

import (
	"ggekpi/internal/export"
	"ggekpi/internal/feature"
)

// Pipeline is the top-level object decoded from a config file.
type Pipeline struct {
	// Job names the run; it labels metrics and log lines.
	Job string `json:"job"`

	// Emissions locates the Eurostat wide TSV source.
	Emissions Input `json:"emissions"`

	// Population locates the World Bank wide CSV source.
	Population Input `json:"population"`

	// Output selects the sink (tsv or xlsx) and its path.
	Output export.Config `json:"output"`

	// Years anchors the KPI computations. Zero values default to
	// base 1990, current 2023, compare 2023.
	Years Years `json:"years"`

	// TargetReductionPct is the signed target percentage; -55 means a 55%
	// cut from the base year. Nil defaults to -55.
	TargetReductionPct *float64 `json:"target_reduction_pct"`

	// Join selects the merge mode: inner (default), left, right, outer.
	Join string `json:"join"`

	// KeepEUTotal retains the EU27_2020 aggregate pseudo-country in the
	// emissions table. Default false (the aggregate is dropped).
	KeepEUTotal bool `json:"keep_eu_total"`

	// Rounding overrides the per-column rounding groups. Nil slices select
	// the defaults from the feature package.
	Rounding Rounding `json:"rounding"`

	// CountryMap optionally replaces the built-in geo code -> name mapping.
	CountryMap map[string]string `json:"country_map,omitempty"`

	// EUCountries optionally replaces the population allow-list.
	EUCountries []string `json:"eu_countries,omitempty"`
}

// Input locates one delimited source file.
type Input struct {
	// Path is the local filesystem path to the input file.
	Path string `json:"path"`

	// Delimiter is the field separator; the first rune is used. Empty
	// means comma.
	Delimiter string `json:"delimiter,omitempty"`

	// SkipRows drops this many raw lines before the header row.
	SkipRows int `json:"skip_rows,omitempty"`
}

// Comma returns the delimiter rune, defaulting to ','.
func (in Input) Comma() rune {
	if in.Delimiter == "" {
		return ','
	}
	return []rune(in.Delimiter)[0]
}

// Years holds the KPI anchor years.
type Years struct {
	Base    int `json:"base"`
	Current int `json:"current"`
	Compare int `json:"compare"`
}

// Rounding lists the columns per rounding rule.
type Rounding struct {
	FiveDecimalCols []string `json:"five_decimal_cols,omitempty"`
	PercentCols     []string `json:"percent_cols,omitempty"`
}

// ApplyDefaults fills every unset field with its documented default. It is
// called once after decoding, so later stages can rely on concrete values.
func (p *Pipeline) ApplyDefaults() {
	if p.Job == "" {
		p.Job = "gge_pipeline"
	}
	if p.Years.Base == 0 {
		p.Years.Base = 1990
	}
	if p.Years.Current == 0 {
		p.Years.Current = 2023
	}
	if p.Years.Compare == 0 {
		p.Years.Compare = p.Years.Current
	}
	if p.TargetReductionPct == nil {
		v := -55.0
		p.TargetReductionPct = &v
	}
	if p.Join == "" {
		p.Join = "inner"
	}
	if p.Rounding.FiveDecimalCols == nil {
		p.Rounding.FiveDecimalCols = feature.DefaultFiveDecimalColumns()
	}
	if p.Rounding.PercentCols == nil {
		p.Rounding.PercentCols = feature.DefaultPercentColumns()
	}
}
