package rules

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/parser"
)

// The rules sheet is a three-column table: destination label, mapping type,
// and the serialized terms. The header names are part of the stored format.
var sheetHeader = []string{"Sheet1_Label", "Mapping_Type", "Feuil1_Keys"}

// Load reads the saved rules from the rules sheet. A missing sheet means no
// saved rules; rows with an empty label or no decodable terms are skipped.
func Load(f *excelize.File, sheet string) ([]Rule, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("rules sheet %q: %w", sheet, err)
	}
	if idx < 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rules sheet %q: %w", sheet, err)
	}

	var ruleSet []Rule
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 3 || row[0] == "" {
			continue
		}
		terms := DecodeTerms(row[2])
		if len(terms) == 0 {
			continue
		}
		ruleSet = append(ruleSet, Rule{Label: row[0], Terms: terms})
	}
	return ruleSet, nil
}

// Save writes a rule onto the rules sheet, replacing any existing row whose
// label normalizes to the same key, and creating the sheet when absent.
func Save(f *excelize.File, sheet string, r Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := ensureSheet(f, sheet); err != nil {
		return err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read rules sheet %q: %w", sheet, err)
	}

	target := parser.NormalizeLabel(r.Label)
	rowNum := len(rows) + 1
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if parser.NormalizeLabel(row[0]) == target {
			rowNum = i + 1
			break
		}
	}

	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &[]interface{}{r.Label, "mixed", EncodeTerms(r.Terms)})
}

// Clear removes every saved rule, leaving the sheet with only its header.
func Clear(f *excelize.File, sheet string) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("rules sheet %q: %w", sheet, err)
	}
	if idx >= 0 {
		if err := f.DeleteSheet(sheet); err != nil {
			return fmt.Errorf("clear rules sheet %q: %w", sheet, err)
		}
	}
	return ensureSheet(f, sheet)
}

func ensureSheet(f *excelize.File, sheet string) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("rules sheet %q: %w", sheet, err)
	}
	if idx >= 0 {
		return nil
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create rules sheet %q: %w", sheet, err)
	}
	header := make([]interface{}, len(sheetHeader))
	for i, h := range sheetHeader {
		header[i] = h
	}
	return f.SetSheetRow(sheet, "A1", &header)
}
