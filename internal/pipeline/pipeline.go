// Package pipeline wires the stages end-to-end: read and clean both raw
// sources, derive the wide features, melt to long form, merge on
// (country, year), compute the target KPIs, round, and export.
//
// Execution is single-pass and synchronous. Each stage takes the previous
// stage's output and returns a fresh table; inputs are never mutated, so a
// failed run can't leave a half-transformed table behind. Data-quality
// problems degrade to missing cells on the way through; only schema and I/O
// errors abort the run.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"ggekpi/internal/cleaner"
	"ggekpi/internal/config"
	"ggekpi/internal/datasource/file"
	"ggekpi/internal/export"
	"ggekpi/internal/feature"
	"ggekpi/internal/kpi"
	"ggekpi/internal/merge"
	"ggekpi/internal/metrics"
	csvparser "ggekpi/internal/parser/csv"
	"ggekpi/internal/reshape"
	"ggekpi/internal/table"
)

// Summary reports row counts per stage plus the output digest. It feeds the
// end-of-run log line and the row-level metrics.
type Summary struct {
	EmissionsRows  int    // cleaned wide emissions rows
	DroppedRows    int    // wide rows dropped for a missing endpoint year
	PopulationRows int    // cleaned wide population rows
	EmissionsLong  int    // melted emissions rows
	PopulationLong int    // melted population rows
	MergedRows     int    // rows surviving the join
	Digest         uint64 // xxh3 of the written output file
	Elapsed        time.Duration
}

// Run executes the full pipeline described by cfg. cfg must already have
// defaults applied and be validated.
func Run(ctx context.Context, cfg config.Pipeline) (Summary, error) {
	var sum Summary
	start := time.Now()

	years := table.DefaultYears()

	// Load + clean emissions.
	em, err := step(cfg.Job, "clean_emissions", func() (*table.EmissionsTable, error) {
		raw, err := readInput(ctx, cfg.Emissions)
		if err != nil {
			return nil, err
		}
		return cleaner.CleanEmissions(raw, cleaner.EmissionsOptions{
			CountryMap:  cfg.CountryMap,
			Years:       years,
			KeepEUTotal: cfg.KeepEUTotal,
		})
	})
	if err != nil {
		return sum, err
	}
	sum.EmissionsRows = len(em.Rows)
	metrics.RecordRows(cfg.Job, "emissions_rows", int64(len(em.Rows)))

	// Load + clean population.
	pop, err := step(cfg.Job, "clean_population", func() (*table.PopulationTable, error) {
		raw, err := readInput(ctx, cfg.Population)
		if err != nil {
			return nil, err
		}
		return cleaner.CleanPopulation(raw, cleaner.PopulationOptions{
			Allowed: cfg.EUCountries,
			Years:   years,
		})
	})
	if err != nil {
		return sum, err
	}
	sum.PopulationRows = len(pop.Rows)
	metrics.RecordRows(cfg.Job, "population_rows", int64(len(pop.Rows)))

	// Wide features: row totals, then the base->current difference. The
	// difference step drops rows missing either endpoint year.
	em, err = step(cfg.Job, "features_wide", func() (*table.EmissionsTable, error) {
		t, err := feature.AddTotalEmissions(em, years)
		if err != nil {
			return nil, err
		}
		return feature.AddDifferenceBetweenYears(t, cfg.Years.Base, cfg.Years.Current)
	})
	if err != nil {
		return sum, err
	}
	sum.DroppedRows = sum.EmissionsRows - len(em.Rows)
	metrics.RecordRows(cfg.Job, "dropped_missing_endpoint", int64(sum.DroppedRows))

	// Melt both tables and bucket sectors.
	emLong := reshape.EmissionsWideToLong(em, years)
	emLong = feature.AddSectorMain(emLong)
	popLong := reshape.PopulationWideToLong(pop, years)
	sum.EmissionsLong = len(emLong)
	sum.PopulationLong = len(popLong)

	// Merge + per-capita.
	mode, err := merge.ParseMode(cfg.Join)
	if err != nil {
		return sum, err
	}
	merged, err := step(cfg.Job, "merge", func() ([]table.MergedRow, error) {
		return merge.Join(emLong, popLong, mode)
	})
	if err != nil {
		return sum, err
	}
	merged = feature.AddEmissionsPerCapita(merged)
	sum.MergedRows = len(merged)
	metrics.RecordRows(cfg.Job, "merged_rows", int64(len(merged)))

	// Group KPIs, broadcast per country.
	merged = kpi.AddReductionPercent(merged, cfg.Years.Base, cfg.Years.Current)
	merged = kpi.AddTargetAndGap(merged, *cfg.TargetReductionPct, cfg.Years.Base, cfg.Years.Compare)

	// Rounding, then export.
	merged = feature.ApplyRounding(merged, cfg.Rounding.FiveDecimalCols, cfg.Rounding.PercentCols)

	if err := stepErr(cfg.Job, "export", func() error {
		sink, err := export.New(cfg.Output)
		if err != nil {
			return err
		}
		return sink.Write(ctx, merged)
	}); err != nil {
		return sum, err
	}
	metrics.RecordRows(cfg.Job, "exported_rows", int64(len(merged)))

	if digest, err := export.Digest(cfg.Output.Path); err != nil {
		log.Printf("digest: %v", err)
	} else {
		sum.Digest = digest
	}

	sum.Elapsed = time.Since(start)
	return sum, nil
}

// step runs one pipeline stage with timing and metrics around it.
func step[T any](job, name string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	metrics.RecordStep(job, name, err, time.Since(start))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// stepErr is step for stages that only produce a side effect.
func stepErr(job, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(job, name, err, time.Since(start))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// readInput opens and parses one delimited source file.
func readInput(ctx context.Context, in config.Input) (csvparser.Table, error) {
	src := file.NewLocal(in.Path)
	rc, err := src.Open(ctx)
	if err != nil {
		return csvparser.Table{}, err
	}
	defer rc.Close()

	if size, err := src.Size(); err == nil {
		log.Printf("reading %s (%d bytes)", in.Path, size)
	}

	t, err := csvparser.ReadTable(rc, csvparser.Options{
		Comma:     in.Comma(),
		SkipRows:  in.SkipRows,
		TrimSpace: true,
	})
	if err != nil {
		return csvparser.Table{}, fmt.Errorf("parse %s: %w", in.Path, err)
	}
	return t, nil
}

// LogSummary writes the end-of-run stats in the container's usual format.
func LogSummary(job string, s Summary) {
	log.Printf(
		"%s: emissions=%d (dropped=%d) population=%d long=%d/%d merged=%d digest=%016x elapsed=%s",
		job,
		s.EmissionsRows, s.DroppedRows, s.PopulationRows,
		s.EmissionsLong, s.PopulationLong, s.MergedRows,
		s.Digest, s.Elapsed.Truncate(time.Millisecond),
	)
}
