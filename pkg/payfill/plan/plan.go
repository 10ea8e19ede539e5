// Package plan turns extracted source data and a destination template into a
// staged write set. Nothing here touches the workbook; the writer commits the
// result in a separate step.
package plan

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/config"
	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/models"
	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/parser"
)

// ErrDuplicateCell is returned under the "error" duplicate policy when two
// writes resolve to the same destination cell.
var ErrDuplicateCell = errors.New("duplicate destination cell")

// Input bundles everything the planner needs.
type Input struct {
	// Source is the extracted source sheet data.
	Source *parser.SourceData
	// Template is the resolved destination layout.
	Template *models.Template
	// BlockWidth is the employee block width on the source sheet.
	BlockWidth int
	// Computed lists the configured computed fields.
	Computed []config.ComputedField
	// Policy decides between writes colliding on one cell.
	Policy config.DuplicatePolicy
	// ProtectColumn is a destination column never written through header
	// resolution (the employee ID column). 0 disables the guard.
	ProtectColumn int
}

// Result is the planned write set plus the recoverable problems found while
// building it.
type Result struct {
	Writes   []models.StagedWrite
	Warnings []models.Warning
}

// Build plans the standard and computed writes. Each destination cell
// appears at most once in the result; collisions are resolved by the
// duplicate policy, except that computed fields always override the
// standard value for their cell. The pass is deterministic: records are
// visited in source-column order and values in source-row order.
func Build(in Input) (*Result, error) {
	res := &Result{}
	if in.Source == nil || in.Template == nil {
		return nil, errors.New("plan: source and template are required")
	}

	res.Warnings = append(res.Warnings, labelWarnings(in.Source, in.Template)...)

	computed := make(map[string]config.ComputedField, len(in.Computed))
	for _, cf := range in.Computed {
		computed[cf.Label] = cf
	}

	staged := make(map[models.CellRef]int)
	stage := func(w models.StagedWrite, override bool) error {
		idx, ok := staged[w.Cell]
		if !ok {
			staged[w.Cell] = len(res.Writes)
			res.Writes = append(res.Writes, w)
			return nil
		}
		if override {
			res.Writes[idx] = w
			return nil
		}
		switch in.Policy {
		case config.FirstWriteWins:
			res.Warnings = append(res.Warnings, duplicateWarning(w, "kept first write"))
		case config.DuplicateError:
			return fmt.Errorf("%w: %s (label %q)", ErrDuplicateCell, w.Cell.Name(), w.Label)
		default: // last write wins
			res.Warnings = append(res.Warnings, duplicateWarning(res.Writes[idx], "kept last write"))
			res.Writes[idx] = w
		}
		return nil
	}

	for _, rec := range in.Source.Records {
		_, rowKnown := in.Template.Rows[rec.ID]
		employeeWarned := false

		for _, fv := range rec.Values {
			cell, ok := in.Template.Resolve(fv.Label, rec.ID)
			if !ok {
				if _, hasCol := in.Template.Columns[fv.Label]; hasCol && !rowKnown && !employeeWarned {
					res.Warnings = append(res.Warnings, models.Warning{
						Kind:     models.WarnUnknownEmployee,
						Employee: rec.ID,
						Detail:   "employee not present on destination sheet",
					})
					employeeWarned = true
				}
				continue
			}
			if protected(cell, fv.Label, in) {
				continue
			}
			if _, isComputed := computed[fv.Label]; isComputed {
				// The computed pass below is authoritative for this label.
				continue
			}
			err := stage(models.StagedWrite{
				Cell:     cell,
				Value:    fv.Value,
				Label:    fv.Label,
				Employee: rec.ID,
				Kind:     models.WriteStandard,
			}, false)
			if err != nil {
				return nil, err
			}
		}

		// Computed fields for this employee's block.
		for _, cf := range in.Computed {
			cell, ok := in.Template.Resolve(cf.Label, rec.ID)
			if !ok || protected(cell, cf.Label, in) {
				continue
			}
			width := cf.Width
			if width == 0 {
				width = in.BlockWidth
			}
			c1 := rec.BlockCol + cf.ColOffset
			value := in.Source.Grid.SumRect(cf.FromRow, cf.ToRow, c1, c1+width-1)
			if err := stage(models.StagedWrite{
				Cell:     cell,
				Value:    value,
				Label:    cf.Label,
				Employee: rec.ID,
				Kind:     models.WriteComputed,
			}, true); err != nil {
				return nil, err
			}
		}

		res.Warnings = append(res.Warnings, blankWarnings(rec, in, computed)...)
	}

	return res, nil
}

// labelWarnings reports source field labels that resolve to no destination,
// one warning per canonical label, carrying the raw text as written.
func labelWarnings(src *parser.SourceData, tpl *models.Template) []models.Warning {
	var warns []models.Warning
	seen := make(map[string]bool)
	for _, f := range src.Fields {
		if f.Canon == "" || seen[f.Canon] {
			continue
		}
		seen[f.Canon] = true
		_, hasCol := tpl.Columns[f.Canon]
		_, hasStatic := tpl.StaticCells[f.Canon]
		if !hasCol && !hasStatic {
			warns = append(warns, models.Warning{
				Kind:  models.WarnUnknownLabel,
				Label: f.Raw,
			})
		}
	}
	return warns
}

// blankWarnings reports matched fields for which an employee's block carried
// no value. Computed labels are exempt since their value is derived.
func blankWarnings(rec models.EmployeeRecord, in Input, computed map[string]config.ComputedField) []models.Warning {
	present := make(map[string]bool, len(rec.Values))
	for _, fv := range rec.Values {
		present[fv.Label] = true
	}
	var labels []string
	seen := make(map[string]bool)
	for _, f := range in.Source.Fields {
		if f.Canon == "" || seen[f.Canon] {
			continue
		}
		seen[f.Canon] = true
		labels = append(labels, f.Canon)
	}
	sort.Strings(labels)

	var warns []models.Warning
	for _, label := range labels {
		if present[label] {
			continue
		}
		if _, ok := computed[label]; ok {
			continue
		}
		if _, ok := in.Template.Resolve(label, rec.ID); !ok {
			continue
		}
		warns = append(warns, models.Warning{
			Kind:     models.WarnBlankValue,
			Label:    label,
			Employee: rec.ID,
		})
	}
	return warns
}

func duplicateWarning(w models.StagedWrite, detail string) models.Warning {
	return models.Warning{
		Kind:     models.WarnDuplicate,
		Label:    w.Label,
		Employee: w.Employee,
		Detail:   fmt.Sprintf("%s at %s", detail, w.Cell.Name()),
	}
}

func protected(cell models.CellRef, label string, in Input) bool {
	if in.ProtectColumn == 0 || cell.Col != in.ProtectColumn {
		return false
	}
	_, static := in.Template.StaticCells[label]
	return !static
}
