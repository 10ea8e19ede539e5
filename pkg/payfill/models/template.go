package models

// Template describes the fixed destination sheet layout resolved at run time:
// which column each canonical label occupies and which row each employee owns.
type Template struct {
	// Sheet is the destination sheet name.
	Sheet string `json:"sheet"`
	// Columns maps normalized header label to column index (1-based).
	Columns map[string]int `json:"columns"`
	// Rows maps normalized employee ID to row index (1-based).
	Rows map[string]int `json:"rows"`
	// IDWidth is the zero-padding width inferred from the employee IDs.
	IDWidth int `json:"id_width"`
	// StaticCells maps canonical label directly to a destination cell,
	// overriding header resolution for that label.
	StaticCells map[string]CellRef `json:"static_cells,omitempty"`
}

// Resolve returns the destination cell for a label and employee.
// Static entries win; otherwise the header column and employee row are
// combined. The second return is false when no destination exists.
func (t *Template) Resolve(label, employeeID string) (CellRef, bool) {
	if ref, ok := t.StaticCells[label]; ok {
		return ref, true
	}
	col, ok := t.Columns[label]
	if !ok {
		return CellRef{}, false
	}
	row, ok := t.Rows[employeeID]
	if !ok {
		return CellRef{}, false
	}
	return CellRef{Col: col, Row: row}, true
}
