// Package models defines data structures for payroll workbook filling.
package models

import "github.com/xuri/excelize/v2"

// CellRef identifies a single cell on the destination sheet.
type CellRef struct {
	// Col is the column index (1-based).
	Col int `json:"col"`
	// Row is the row index (1-based).
	Row int `json:"row"`
}

// Name returns the A1-style cell name (e.g. "B3").
func (c CellRef) Name() string {
	name, err := excelize.CoordinatesToCellName(c.Col, c.Row)
	if err != nil {
		return ""
	}
	return name
}

// ParseCellRef converts an A1-style cell name into a CellRef.
func ParseCellRef(name string) (CellRef, error) {
	col, row, err := excelize.CellNameToCoordinates(name)
	if err != nil {
		return CellRef{}, err
	}
	return CellRef{Col: col, Row: row}, nil
}
