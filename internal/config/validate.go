// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of
// issues (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"

	"ggekpi/internal/merge"
	"ggekpi/internal/table"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be
	// surfaced to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "output.kind",
// "years.base"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation of a Pipeline. Call it after
// ApplyDefaults; it does not mutate the pipeline. Callers decide whether
// warnings are fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}

	issues = append(issues, validateInput("emissions", p.Emissions)...)
	issues = append(issues, validateInput("population", p.Population)...)
	issues = append(issues, validateOutput(p)...)
	issues = append(issues, validateYears(p.Years)...)

	if _, err := merge.ParseMode(p.Join); err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "join",
			Message:  err.Error(),
		})
	}

	if p.TargetReductionPct != nil && *p.TargetReductionPct > 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "target_reduction_pct",
			Message:  fmt.Sprintf("target is positive (%+.1f%%): the 2030 level will sit above the base year", *p.TargetReductionPct),
		})
	}

	if len(p.EUCountries) > 0 && len(p.CountryMap) > 0 {
		covered := make(map[string]struct{}, len(p.CountryMap))
		for _, name := range p.CountryMap {
			covered[name] = struct{}{}
		}
		for _, c := range p.EUCountries {
			if _, ok := covered[c]; !ok {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     "eu_countries",
					Message:  fmt.Sprintf("%q is allow-listed but no geo code maps to it; its population rows can never join", c),
				})
			}
		}
	}

	return issues
}

// validateInput checks one source file block.
func validateInput(name string, in Input) []Issue {
	var issues []Issue
	if strings.TrimSpace(in.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     name + ".path",
			Message:  "input requires a non-empty path",
		})
	}
	if in.SkipRows < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     name + ".skip_rows",
			Message:  "skip_rows must not be negative",
		})
	}
	if len(in.Delimiter) > 1 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     name + ".delimiter",
			Message:  fmt.Sprintf("delimiter %q has more than one character; only the first is used", in.Delimiter),
		})
	}
	return issues
}

func validateOutput(p Pipeline) []Issue {
	var issues []Issue
	if strings.TrimSpace(p.Output.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.path",
			Message:  "output requires a non-empty path",
		})
	}
	switch p.Output.Kind {
	case "", "tsv", "xlsx":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.kind",
			Message:  fmt.Sprintf("unknown output kind %q (want tsv or xlsx)", p.Output.Kind),
		})
	}
	return issues
}

// validateYears checks the KPI anchor years against the source year range.
// Years outside 1990..2023 can never match a column, so the KPI columns
// would come out entirely missing; that is an error, not a warning.
func validateYears(y Years) []Issue {
	var issues []Issue
	r := table.DefaultYears()
	for _, c := range []struct {
		path string
		year int
	}{
		{"years.base", y.Base},
		{"years.current", y.Current},
		{"years.compare", y.Compare},
	} {
		if !r.Contains(c.year) {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     c.path,
				Message:  fmt.Sprintf("year %d is outside the source range %d-%d", c.year, r.First, r.Last),
			})
		}
	}
	if y.Base >= y.Current {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "years",
			Message:  fmt.Sprintf("base year %d is not before current year %d; percent change will compare backwards", y.Base, y.Current),
		})
	}
	return issues
}
