package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/AtlasPack/internal/model"
)

const (
	summarySheet = "Summary"
	regionsSheet = "Regions"
)

var regionHeaders = []interface{}{
	"Page", "Image", "Sprite", "X", "Y", "Width", "Height", "U", "V", "U2", "V2",
}

// ExportXLSX writes a workbook with a summary sheet and one row per placed
// region, including its texture coordinates.
func ExportXLSX(path string, result model.PackResult) error {
	if len(result.Pages) == 0 {
		return fmt.Errorf("no pages to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if _, err := f.NewSheet(regionsSheet); err != nil {
		return fmt.Errorf("failed to create regions sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummarySheet(f, result, bold); err != nil {
		return err
	}
	if err := writeRegionsSheet(f, result, bold); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, result model.PackResult, bold int) error {
	s := result.Settings
	rows := [][]interface{}{
		{"Pages", len(result.Pages)},
		{"Sprites", result.SpriteCount()},
		{"Efficiency %", round1(result.TotalEfficiency())},
		{"Page width", s.PageWidth},
		{"Page height", s.PageHeight},
		{"Padding", s.Padding},
		{"Strategy", string(s.Strategy)},
		{"Flip vertical", s.FlipVertical},
		{},
		{"Page", "Image", "Sprites", "Used px", "Total px", "Efficiency %"},
	}
	for _, p := range result.Pages {
		rows = append(rows, []interface{}{
			p.Index + 1, p.Name, len(p.Placements), p.UsedArea(), p.TotalArea(), round1(p.Efficiency()),
		})
	}

	for i, row := range rows {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}
	tableHeader := 10
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", tableHeader-2), bold); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}
	if err := f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", tableHeader), fmt.Sprintf("F%d", tableHeader), bold); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}
	return f.SetColWidth(summarySheet, "A", "B", 18)
}

func writeRegionsSheet(f *excelize.File, result model.PackResult, bold int) error {
	if err := setRow(f, regionsSheet, 1, regionHeaders); err != nil {
		return err
	}
	if err := f.SetCellStyle(regionsSheet, "A1", "K1", bold); err != nil {
		return fmt.Errorf("failed to style regions header: %w", err)
	}

	row := 2
	for _, p := range result.Pages {
		pw, ph := float64(p.Width), float64(p.Height)
		for _, pl := range p.Placements {
			r := pl.Region
			values := []interface{}{
				p.Index + 1, p.Name, pl.Sprite.Name, r.X, r.Y, r.Width, r.Height,
				float64(r.X) / pw, float64(r.Y) / ph, float64(r.Right()) / pw, float64(r.Bottom()) / ph,
			}
			if err := setRow(f, regionsSheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return f.SetColWidth(regionsSheet, "B", "C", 20)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
