package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/config"
	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/models"
)

// Grid holds a sheet's formatted cell text as returned by excelize.
// Lookups are 1-based and tolerate coordinates past the data bounds,
// since trailing empty rows and columns are trimmed by the reader.
type Grid [][]string

// Cell returns the text at (row, col), or "" outside the data bounds.
func (g Grid) Cell(row, col int) string {
	if row < 1 || row > len(g) {
		return ""
	}
	r := g[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}

// Number returns the numeric value at (row, col). The second return is
// false for blank or non-numeric cells.
func (g Grid) Number(row, col int) (float64, bool) {
	return ParseNumber(g.Cell(row, col))
}

// SumRect sums the numeric cells of an inclusive rectangle, ignoring
// blanks and text.
func (g Grid) SumRect(r1, r2, c1, c2 int) float64 {
	var total float64
	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			if v, ok := g.Number(r, c); ok {
				total += v
			}
		}
	}
	return total
}

// SourceData is everything extracted from the source sheet in one read:
// the raw grid, the row index used by the rules engine, the labelled field
// rows, and the per-employee field records.
type SourceData struct {
	Grid    Grid
	Index   models.SourceIndex
	Fields  []models.SourceField
	Records []models.EmployeeRecord
}

// ExtractSource reads the source sheet and assembles employee records.
// Field labels are read down from the configured start row until the first
// blank, aliased to their canonical form, and each employee's block columns
// are scanned for values; within a block a later column overrides an
// earlier one for the same field.
func ExtractSource(f *excelize.File, layout config.SourceLayout, aliases AliasTable, idWidth int) (*SourceData, error) {
	rows, err := f.GetRows(layout.Sheet)
	if err != nil {
		return nil, fmt.Errorf("read source sheet %q: %w", layout.Sheet, err)
	}
	grid := Grid(rows)

	data := &SourceData{
		Grid: grid,
		Index: models.SourceIndex{
			ByCode:  make(map[string][]int),
			ByLabel: make(map[string][]int),
		},
	}

	// Index every row carrying a code or label.
	for r := 1; r <= len(grid); r++ {
		code := trimCell(grid.Cell(r, layout.CodeColumn))
		label := trimCell(grid.Cell(r, layout.LabelColumn))
		if code == "" && label == "" {
			continue
		}
		row := models.SourceRow{
			Row:       r,
			Code:      code,
			Label:     label,
			LabelNorm: NormalizeLabel(label),
		}
		data.Index.Rows = append(data.Index.Rows, row)
		if code != "" {
			data.Index.ByCode[code] = append(data.Index.ByCode[code], r)
		}
		if row.LabelNorm != "" {
			data.Index.ByLabel[row.LabelNorm] = append(data.Index.ByLabel[row.LabelNorm], r)
		}
	}

	// Contiguous field rows below the start row.
	for r := layout.FieldStartRow; ; r++ {
		label := trimCell(grid.Cell(r, layout.LabelColumn))
		if label == "" {
			break
		}
		data.Fields = append(data.Fields, models.SourceField{
			Row:   r,
			Raw:   label,
			Canon: aliases.Canonical(NormalizeLabel(label)),
		})
	}

	// One employee per non-empty cell on the ID row.
	maxCols := layout.MaxColumns
	if len(grid) >= layout.EmployeeIDRow && len(grid[layout.EmployeeIDRow-1]) < maxCols {
		maxCols = len(grid[layout.EmployeeIDRow-1])
	}
	for col := 1; col <= maxCols; col++ {
		raw := trimCell(grid.Cell(layout.EmployeeIDRow, col))
		if raw == "" {
			continue
		}
		id := NormalizeEmployeeID(raw, idWidth)
		if id == "" {
			continue
		}
		rec := models.EmployeeRecord{
			ID:       id,
			BlockCol: col,
		}
		// The block's columns belong to one logical field row; the last
		// non-empty column wins for that row.
		for _, fr := range data.Fields {
			if fr.Canon == "" {
				continue
			}
			var value float64
			found := false
			for sub := 0; sub < layout.BlockWidth; sub++ {
				if v, ok := grid.Number(fr.Row, col+sub); ok {
					value = v
					found = true
				}
			}
			if found {
				rec.Values = append(rec.Values, models.FieldValue{
					Label: fr.Canon,
					Value: value,
					Row:   fr.Row,
				})
			}
		}
		data.Records = append(data.Records, rec)
	}

	return data, nil
}

func trimCell(s string) string {
	return strings.TrimSpace(s)
}
