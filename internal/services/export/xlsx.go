// Package export writes rendered pages to spreadsheet workbooks.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"SteelDash/internal/domain/models"
)

const (
	maxSheetName = 31
	metricsSheet = "Metrics"
)

var sheetReplacer = strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "(", "]", ")")

// WriteXLSX writes one sheet per table on the page, preceded by a Metrics
// sheet when the page has metric blocks. A page with neither yields
// ErrMissingData.
func WriteXLSX(w io.Writer, page *models.Page) error {
	metrics := collectMetrics(page)
	tables := page.Tables()
	if len(metrics) == 0 && len(tables) == 0 {
		return fmt.Errorf("page %s has nothing to export: %w", page.ID, models.ErrMissingData)
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	used := make(map[string]bool)
	first := true
	addSheet := func(name string, columns []string, rows [][]string) error {
		name = uniqueName(SheetName(name), used)
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
			first = false
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		if err := writeRow(f, name, 1, columns); err != nil {
			return err
		}
		end, _ := excelize.CoordinatesToCellName(len(columns), 1)
		if err := f.SetCellStyle(name, "A1", end, header); err != nil {
			return err
		}
		for i, r := range rows {
			if err := writeRow(f, name, i+2, r); err != nil {
				return err
			}
		}
		return nil
	}

	if len(metrics) > 0 {
		if err := addSheet(metricsSheet, []string{"Section", "Metric", "Value", "Delta"}, metrics); err != nil {
			return fmt.Errorf("metrics sheet: %w", err)
		}
	}
	for _, t := range tables {
		name := t.Title
		if name == "" {
			name = t.ID
		}
		if err := addSheet(name, t.Columns, t.Rows); err != nil {
			return fmt.Errorf("table %s: %w", t.ID, err)
		}
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return f.SetSheetRow(sheet, cell, &out)
}

func collectMetrics(page *models.Page) [][]string {
	var rows [][]string
	for _, s := range page.Sections {
		for _, b := range s.Blocks {
			if b.Kind == models.BlockMetric && b.Metric != nil {
				rows = append(rows, []string{s.Title, b.Metric.Label, b.Metric.Display, b.Metric.Delta})
			}
		}
	}
	return rows
}

// SheetName strips characters Excel rejects and truncates to 31 runes.
func SheetName(s string) string {
	s = strings.TrimSpace(sheetReplacer.Replace(s))
	s = strings.Trim(s, "'")
	if s == "" {
		s = "Sheet"
	}
	r := []rune(s)
	if len(r) > maxSheetName {
		r = r[:maxSheetName]
	}
	return string(r)
}

func uniqueName(name string, used map[string]bool) string {
	candidate := name
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		r := []rune(name)
		if len(r)+len(suffix) > maxSheetName {
			r = r[:maxSheetName-len(suffix)]
		}
		candidate = string(r) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
