package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"ggekpi/internal/table"
)

// TSVSink writes the merged table as a tab-separated file with a header row.
// Given identical rows it produces byte-identical files, which is what makes
// re-runs of the pipeline idempotent at the file level.
type TSVSink struct {
	Path string
}

func (s *TSVSink) Write(ctx context.Context, rows []table.MergedRow) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.Path, err)
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'

	if err := w.Write(Header()); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		if err := w.Write(cells(r)); err != nil {
			f.Close()
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", s.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.Path, err)
	}
	return nil
}
