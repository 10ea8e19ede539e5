package payfill

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/config"
	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/models"
	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/rules"
)

// buildWorkbook creates a workbook with the default layout: employee IDs on
// row 3 of Feuil1 with three-column blocks, field labels in column B from
// row 5, and a destination template on Sheet1.
func buildWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet("Feuil1"); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	f.SetCellValue("Feuil1", "C3", "14")
	f.SetCellValue("Feuil1", "F3", "27")

	f.SetCellValue("Feuil1", "A5", "F01")
	f.SetCellValue("Feuil1", "B5", "Salaire de base")
	f.SetCellValue("Feuil1", "C5", 2000)
	f.SetCellValue("Feuil1", "F5", 1800)

	f.SetCellValue("Feuil1", "A6", "F02")
	f.SetCellValue("Feuil1", "B6", "Salaire Brut Total")
	f.SetCellValue("Feuil1", "C6", 2500)
	f.SetCellValue("Feuil1", "F6", 2200)

	f.SetCellValue("Feuil1", "B7", "Unknown Field")
	f.SetCellValue("Feuil1", "C7", 100)

	f.SetCellValue("Sheet1", "A1", "Matricule")
	f.SetCellValue("Sheet1", "B1", "Salaire de base")
	f.SetCellValue("Sheet1", "C1", "Salaire brut")
	f.SetCellValue("Sheet1", "D1", "Prime")
	f.SetCellValue("Sheet1", "A2", "00014")
	f.SetCellValue("Sheet1", "A3", "00027")

	path := filepath.Join(t.TempDir(), "paie.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	return path
}

func cellValue(t *testing.T, path, sheet, cell string) string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()
	v, err := f.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	return v
}

func TestFill(t *testing.T) {
	path := buildWorkbook(t)

	report, err := Fill(path, config.Default(), DefaultOptions())
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}

	if report.RunID == "" {
		t.Error("expected a run ID")
	}
	if report.Employees != 2 {
		t.Errorf("Employees = %d, expected 2", report.Employees)
	}
	if len(report.Written) != 4 {
		t.Errorf("expected 4 writes, got %d: %+v", len(report.Written), report.Written)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer f.Close()

	want := map[string]string{
		"B2": "2000", "C2": "2500",
		"B3": "1800", "C3": "2200",
	}
	for cell, expected := range want {
		got, err := f.GetCellValue("Sheet1", cell)
		if err != nil {
			t.Fatalf("GetCellValue failed: %v", err)
		}
		if got != expected {
			t.Errorf("Sheet1!%s = %q, expected %q", cell, got, expected)
		}
	}

	// Written cells are visually marked.
	style, err := f.GetCellStyle("Sheet1", "B2")
	if err != nil {
		t.Fatalf("GetCellStyle failed: %v", err)
	}
	if style == 0 {
		t.Error("expected B2 to carry a highlight style")
	}

	// The source sheet is untouched.
	if got, _ := f.GetCellValue("Feuil1", "C5"); got != "2000" {
		t.Errorf("Feuil1!C5 = %q, expected 2000", got)
	}

	// The unmatched label is reported, not written.
	foundUnknown := false
	for _, w := range report.Warnings {
		if w.Kind == models.WarnUnknownLabel && w.Label == "Unknown Field" {
			foundUnknown = true
		}
	}
	if !foundUnknown {
		t.Errorf("expected an unknown label warning, got %+v", report.Warnings)
	}
}

func TestFillIsIdempotent(t *testing.T) {
	path := buildWorkbook(t)
	cfg := config.Default()

	first, err := Fill(path, cfg, DefaultOptions())
	if err != nil {
		t.Fatalf("first Fill failed: %v", err)
	}
	second, err := Fill(path, cfg, DefaultOptions())
	if err != nil {
		t.Fatalf("second Fill failed: %v", err)
	}

	if len(first.Written) != len(second.Written) {
		t.Fatalf("write counts differ between runs: %d vs %d", len(first.Written), len(second.Written))
	}
	for i := range first.Written {
		if first.Written[i] != second.Written[i] {
			t.Errorf("write %d differs between runs: %+v vs %+v", i, first.Written[i], second.Written[i])
		}
	}
	if cellValue(t, path, "Sheet1", "C2") != "2500" {
		t.Error("destination state changed on re-run")
	}
}

func TestFillDryRun(t *testing.T) {
	path := buildWorkbook(t)

	report, err := Fill(path, config.Default(), Options{DryRun: true})
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if !report.DryRun {
		t.Error("report should be marked as a dry run")
	}
	if len(report.Written) != 4 {
		t.Errorf("expected 4 planned writes, got %d", len(report.Written))
	}
	if got := cellValue(t, path, "Sheet1", "B2"); got != "" {
		t.Errorf("dry run wrote to the workbook: B2 = %q", got)
	}
}

func TestFillStaticMapping(t *testing.T) {
	f := excelize.NewFile()
	if _, err := f.NewSheet("Feuil1"); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	f.SetCellValue("Feuil1", "C3", "14")
	f.SetCellValue("Feuil1", "B5", "Salaire Brut")
	f.SetCellValue("Feuil1", "C5", 2500)
	f.SetCellValue("Feuil1", "B6", "Unknown Field")
	f.SetCellValue("Feuil1", "C6", 100)
	f.SetCellValue("Sheet1", "A1", "Rapport")

	path := filepath.Join(t.TempDir(), "static.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	f.Close()

	cfg := config.Default()
	cfg.Cells = map[string]string{"salaire brut": "B3"}

	report, err := Fill(path, cfg, DefaultOptions())
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}

	if got := cellValue(t, path, "Sheet1", "B3"); got != "2500" {
		t.Errorf("Sheet1!B3 = %q, expected 2500", got)
	}

	out, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer out.Close()
	style, err := out.GetCellStyle("Sheet1", "B3")
	if err != nil {
		t.Fatalf("GetCellStyle failed: %v", err)
	}
	if style == 0 {
		t.Error("expected B3 to carry a highlight style")
	}

	foundUnknown := false
	for _, w := range report.Warnings {
		if w.Kind == models.WarnUnknownLabel && w.Label == "Unknown Field" {
			foundUnknown = true
		}
	}
	if !foundUnknown {
		t.Errorf("expected an unknown label warning, got %+v", report.Warnings)
	}
}

func TestFillAppliesSavedRules(t *testing.T) {
	path := buildWorkbook(t)
	cfg := config.Default()

	// Save a rule the way the mapping editor would.
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	rule := rules.Rule{
		Label: "Prime",
		Terms: []rules.Term{{Op: "+", Key: "F02", Kind: rules.KindCode}},
	}
	if err := rules.Save(f, cfg.RulesSheet, rule); err != nil {
		t.Fatalf("Save rule failed: %v", err)
	}
	if err := f.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	f.Close()

	report, err := Fill(path, cfg, DefaultOptions())
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if report.RulesApplied != 1 {
		t.Errorf("RulesApplied = %d, expected 1", report.RulesApplied)
	}

	// Prime for employee 00014 = sum of the F02 row across the C..E block.
	if got := cellValue(t, path, "Sheet1", "D2"); got != "2500" {
		t.Errorf("Sheet1!D2 = %q, expected 2500", got)
	}
	if got := cellValue(t, path, "Sheet1", "D3"); got != "2200" {
		t.Errorf("Sheet1!D3 = %q, expected 2200", got)
	}
}

func TestFillNoRules(t *testing.T) {
	path := buildWorkbook(t)
	cfg := config.Default()

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	rule := rules.Rule{
		Label: "Prime",
		Terms: []rules.Term{{Op: "+", Key: "F02", Kind: rules.KindCode}},
	}
	if err := rules.Save(f, cfg.RulesSheet, rule); err != nil {
		t.Fatalf("Save rule failed: %v", err)
	}
	if err := f.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	f.Close()

	apply := false
	report, err := Fill(path, cfg, Options{ApplyRules: &apply})
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if report.RulesApplied != 0 {
		t.Errorf("RulesApplied = %d, expected 0", report.RulesApplied)
	}
	if got := cellValue(t, path, "Sheet1", "D2"); got != "" {
		t.Errorf("Sheet1!D2 = %q, expected empty with rules disabled", got)
	}
}

func TestReset(t *testing.T) {
	path := buildWorkbook(t)
	cfg := config.Default()

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	rule := rules.Rule{
		Label: "Prime",
		Terms: []rules.Term{{Op: "+", Key: "F02", Kind: rules.KindCode}},
	}
	if err := rules.Save(f, cfg.RulesSheet, rule); err != nil {
		t.Fatalf("Save rule failed: %v", err)
	}
	if err := f.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	f.Close()

	if _, err := Fill(path, cfg, DefaultOptions()); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if got := cellValue(t, path, "Sheet1", "D2"); got == "" {
		t.Fatal("expected the rule to fill Prime before the reset")
	}

	if _, err := Reset(path, cfg, DefaultOptions()); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	// Standard fields are rebuilt, the rule-derived cell is gone, and the
	// saved rule was deleted.
	if got := cellValue(t, path, "Sheet1", "C2"); got != "2500" {
		t.Errorf("Sheet1!C2 = %q, expected 2500 after reset", got)
	}
	if got := cellValue(t, path, "Sheet1", "D2"); got != "" {
		t.Errorf("Sheet1!D2 = %q, expected cleared after reset", got)
	}

	out, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer out.Close()
	saved, err := rules.Load(out, cfg.RulesSheet)
	if err != nil {
		t.Fatalf("Load rules failed: %v", err)
	}
	if len(saved) != 0 {
		t.Errorf("expected no saved rules after reset, got %d", len(saved))
	}
}

func TestFillMissingWorkbook(t *testing.T) {
	_, err := Fill(filepath.Join(t.TempDir(), "absent.xlsx"), config.Default(), DefaultOptions())
	if !errors.Is(err, ErrWorkbookNotFound) {
		t.Fatalf("expected ErrWorkbookNotFound, got %v", err)
	}
	var runErr *RunError
	if !errors.As(err, &runErr) || runErr.Stage != "open" {
		t.Fatalf("expected a RunError in the open stage, got %v", err)
	}
}

func TestFillMissingTemplate(t *testing.T) {
	f := excelize.NewFile()
	if _, err := f.NewSheet("Feuil1"); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	f.SetCellValue("Feuil1", "C3", "14")
	// Sheet1 exists but is completely blank: no template to fill.
	path := filepath.Join(t.TempDir(), "notemplate.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	f.Close()

	_, err := Fill(path, config.Default(), DefaultOptions())
	if err == nil {
		t.Fatal("expected a fatal error for a missing template")
	}
	var runErr *RunError
	if !errors.As(err, &runErr) || runErr.Stage != "template" {
		t.Fatalf("expected a RunError in the template stage, got %v", err)
	}
}

func TestFillOutputPath(t *testing.T) {
	path := buildWorkbook(t)
	outPath := filepath.Join(t.TempDir(), "filled.xlsx")

	if _, err := Fill(path, config.Default(), Options{OutputPath: outPath}); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}

	if got := cellValue(t, outPath, "Sheet1", "B2"); got != "2000" {
		t.Errorf("output workbook B2 = %q, expected 2000", got)
	}
	// The original is left unfilled.
	if got := cellValue(t, path, "Sheet1", "B2"); got != "" {
		t.Errorf("original workbook B2 = %q, expected empty", got)
	}
}
