package excel

import (
	"fmt"
	"io"
	"strings"

	"inflationdash/domain/chart"
	"inflationdash/domain/core"
	"inflationdash/domain/dataset"
	"inflationdash/internal/filter"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// Sheet is one worksheet of an export
type Sheet struct {
	Name  string
	Title string
	Rows  []dataset.Observation
}

// ViewSheets lays out one sheet per chart, in chart order, holding the
// rows of that chart's filtered view
func ViewSheets(specs []chart.Spec, views map[core.ChartID]filter.View) []Sheet {
	sheets := make([]Sheet, 0, len(specs))
	for _, spec := range specs {
		sheets = append(sheets, Sheet{
			Name:  spec.ChartID.String(),
			Title: spec.Title,
			Rows:  views[spec.ChartID].Rows(),
		})
	}
	return sheets
}

var exportHeaders = []interface{}{"reference_area", "time", "decade", "var", "series", "value"}

// Export writes a workbook with a summary sheet followed by one sheet per view
func Export(w io.Writer, entity, note string, sheets []Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	const summary = "summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := f.SetSheetRow(summary, "A1", &[]interface{}{"entity", entity}); err != nil {
		return err
	}
	if err := f.SetSheetRow(summary, "A2", &[]interface{}{"note", note}); err != nil {
		return err
	}
	if err := f.SetSheetRow(summary, "A4", &[]interface{}{"sheet", "title", "rows"}); err != nil {
		return err
	}
	if err := f.SetRowStyle(summary, 4, 4, bold); err != nil {
		return err
	}

	used := map[string]bool{summary: true}
	for i, sheet := range sheets {
		name := sheetName(sheet.Name, used)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
		if err := writeObservations(f, name, sheet.Rows, bold); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", name, err)
		}

		cell, err := excelize.CoordinatesToCellName(1, 5+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summary, cell, &[]interface{}{name, sheet.Title, len(sheet.Rows)}); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeObservations(f *excelize.File, sheet string, rows []dataset.Observation, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &exportHeaders); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}
	for i, obs := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		var value interface{}
		if obs.Valid {
			value = obs.Value
		}
		values := []interface{}{
			obs.ReferenceArea, obs.Field("time"), obs.Decade, obs.Stat, obs.Series, value,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// sheetName makes name a legal, unused worksheet name
func sheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	if clean == "" {
		clean = "sheet"
	}
	if len(clean) > maxSheetName {
		clean = clean[:maxSheetName]
	}

	candidate := clean
	for n := 2; used[candidate]; n++ {
		suffix := fmt.Sprintf("_%d", n)
		base := clean
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		candidate = base + suffix
	}
	used[candidate] = true
	return candidate
}
