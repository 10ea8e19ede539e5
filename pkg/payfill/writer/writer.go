// Package writer commits a staged write set to the destination sheet and
// marks every written cell as machine-filled.
package writer

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/config"
	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/models"
)

// Apply writes every staged value to the sheet and styles the cell: bold
// font plus the standard fill, or the rule fill for rule-derived writes.
// The workbook is mutated in memory only; saving is the caller's concern.
func Apply(f *excelize.File, sheet string, writes []models.StagedWrite, hl config.Highlight) error {
	if len(writes) == 0 {
		return nil
	}
	standard, err := newFillStyle(f, hl, hl.Fill)
	if err != nil {
		return fmt.Errorf("build highlight style: %w", err)
	}
	rule, err := newFillStyle(f, hl, hl.RuleFill)
	if err != nil {
		return fmt.Errorf("build rule highlight style: %w", err)
	}

	for _, w := range writes {
		name := w.Cell.Name()
		if name == "" {
			return fmt.Errorf("invalid destination cell (%d,%d) for label %q", w.Cell.Col, w.Cell.Row, w.Label)
		}
		if err := f.SetCellValue(sheet, name, w.Value); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		style := standard
		if w.Kind == models.WriteRule {
			style = rule
		}
		if err := f.SetCellStyle(sheet, name, name, style); err != nil {
			return fmt.Errorf("style %s: %w", name, err)
		}
	}
	return nil
}

// Reset clears the destination data region: every cell below the header row
// except the employee ID column. Header and IDs stay untouched so a fresh
// fill can rebuild the sheet.
func Reset(f *excelize.File, layout config.TargetLayout) error {
	rows, err := f.GetRows(layout.Sheet)
	if err != nil {
		return fmt.Errorf("read destination sheet %q: %w", layout.Sheet, err)
	}
	lastCol := 0
	for _, row := range rows {
		if len(row) > lastCol {
			lastCol = len(row)
		}
	}
	for r := layout.FirstDataRow; r <= len(rows); r++ {
		for c := 1; c <= lastCol; c++ {
			if c == layout.EmployeeIDColumn {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(layout.Sheet, name, nil); err != nil {
				return fmt.Errorf("clear %s: %w", name, err)
			}
		}
	}
	return nil
}

func newFillStyle(f *excelize.File, hl config.Highlight, fill string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  hl.Bold,
			Color: hl.FontColor,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{fill},
		},
	})
}
