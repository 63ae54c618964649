package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"ggekpi/internal/table"
)

// XLSXSink writes the merged table as a single-sheet workbook. Cells carry
// native types (numbers stay numbers); missing cells are left unset so they
// show as blanks in the sheet.
type XLSXSink struct {
	Path  string
	Sheet string
}

func (s *XLSXSink) Write(ctx context.Context, rows []table.MergedRow) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", s.Sheet)

	header := Header()
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell %d: %w", i, err)
		}
		if err := f.SetCellValue(s.Sheet, cell, h); err != nil {
			return fmt.Errorf("write header %q: %w", h, err)
		}
	}

	for ri, r := range rows {
		for ci, v := range cellValues(r) {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return fmt.Errorf("cell (%d,%d): %w", ri, ci, err)
			}
			if err := f.SetCellValue(s.Sheet, cell, v); err != nil {
				return fmt.Errorf("write cell (%d,%d): %w", ri, ci, err)
			}
		}
	}

	if err := f.SaveAs(s.Path); err != nil {
		return fmt.Errorf("save %s: %w", s.Path, err)
	}
	return nil
}

// cellValues renders one row in Header order with native types; nil marks a
// missing cell.
func cellValues(r table.MergedRow) []any {
	out := []any{
		r.Freq, r.Unit, r.Airpol, r.SrcCRF, r.Geo,
		nil, nil, nil, r.SectorMain, nil, nil, nil, nil, nil,
	}
	if r.Country.Valid {
		out[5] = r.Country.String
	}
	if r.Year.Valid {
		out[6] = r.Year.Int64
	}
	if r.Emissions.Valid {
		out[7] = r.Emissions.Float64
	}
	if r.Population.Valid {
		out[9] = r.Population.Int64
	}
	if r.EmissionsPerCapita.Valid {
		out[10] = r.EmissionsPerCapita.Float64
	}
	if r.ReductionPctActual.Valid {
		out[11] = r.ReductionPctActual.Float64
	}
	if r.Meta2030.Valid {
		out[12] = r.Meta2030.Float64
	}
	if r.Gap2030.Valid {
		out[13] = r.Gap2030.Float64
	}
	return out
}
