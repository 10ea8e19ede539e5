package parser

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/config"
	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/models"
)

// ErrEmptyTemplate indicates the destination sheet has no usable header row.
var ErrEmptyTemplate = errors.New("destination template has no headers")

// ReadTemplate resolves the destination sheet's fixed layout: the header row
// gives each canonical label its column, and the employee ID column gives
// each employee its row. Employee IDs are read down from the first data row
// until the first blank cell and zero-padded to the widest ID found (or the
// configured default when the sheet has none). Static cell mappings override
// header resolution for their labels.
func ReadTemplate(f *excelize.File, layout config.TargetLayout, aliases AliasTable, static map[string]string) (*models.Template, error) {
	rows, err := f.GetRows(layout.Sheet)
	if err != nil {
		return nil, fmt.Errorf("read destination sheet %q: %w", layout.Sheet, err)
	}
	grid := Grid(rows)

	tpl := &models.Template{
		Sheet:   layout.Sheet,
		Columns: make(map[string]int),
		Rows:    make(map[string]int),
	}

	if layout.HeaderRow > len(grid) {
		return nil, fmt.Errorf("%w: sheet %q has no row %d", ErrEmptyTemplate, layout.Sheet, layout.HeaderRow)
	}
	header := grid[layout.HeaderRow-1]
	for i, cell := range header {
		canon := aliases.Canonical(NormalizeLabel(cell))
		if canon == "" {
			continue
		}
		if _, ok := tpl.Columns[canon]; ok {
			continue
		}
		tpl.Columns[canon] = i + 1
	}
	if len(tpl.Columns) == 0 && len(static) == 0 {
		return nil, fmt.Errorf("%w: sheet %q row %d is blank", ErrEmptyTemplate, layout.Sheet, layout.HeaderRow)
	}

	// Raw IDs first: the padding width depends on the widest one.
	var rawIDs []string
	for r := layout.FirstDataRow; r <= len(grid); r++ {
		raw := trimCell(grid.Cell(r, layout.EmployeeIDColumn))
		if raw == "" {
			break
		}
		rawIDs = append(rawIDs, raw)
	}
	for _, raw := range rawIDs {
		if n := digitCount(raw); n > tpl.IDWidth {
			tpl.IDWidth = n
		}
	}
	if tpl.IDWidth == 0 {
		tpl.IDWidth = layout.DefaultIDWidth
	}
	for i, raw := range rawIDs {
		id := NormalizeEmployeeID(raw, tpl.IDWidth)
		if id == "" {
			continue
		}
		if _, ok := tpl.Rows[id]; ok {
			continue
		}
		tpl.Rows[id] = layout.FirstDataRow + i
	}

	if len(static) > 0 {
		tpl.StaticCells = make(map[string]models.CellRef, len(static))
		for label, name := range static {
			canon := aliases.Canonical(NormalizeLabel(label))
			if canon == "" {
				return nil, fmt.Errorf("static cell mapping has a blank label for %q", name)
			}
			ref, err := models.ParseCellRef(name)
			if err != nil {
				return nil, fmt.Errorf("static cell mapping %q: %w", label, err)
			}
			tpl.StaticCells[canon] = ref
		}
	}

	return tpl, nil
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
