package payfill

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/config"
	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/models"
	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/parser"
	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/plan"
	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/rules"
	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/writer"
)

// Fill runs one complete pass over the workbook at path: read the
// destination template, extract the source records, plan the write set,
// apply saved custom mapping rules, commit, and save. The returned report
// lists every write and warning. Fatal errors are *RunError; nothing is
// committed unless every earlier stage succeeded.
func Fill(path string, cfg config.Config, opts Options) (*models.RunReport, error) {
	f, err := open(path, cfg)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	report, err := run(f, filepath.Base(path), cfg, opts)
	if err != nil {
		return nil, err
	}
	if opts.DryRun {
		return report, nil
	}
	if err := save(f, path, opts); err != nil {
		return nil, err
	}
	return report, nil
}

// Reset restores the destination sheet to its unfilled state and rebuilds
// it: saved custom mapping rules are deleted, the data region below the
// header is cleared, and a standard fill runs from scratch.
func Reset(path string, cfg config.Config, opts Options) (*models.RunReport, error) {
	f, err := open(path, cfg)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := writer.Reset(f, cfg.Target); err != nil {
		return nil, NewRunError("commit", err)
	}
	if err := rules.Clear(f, cfg.RulesSheet); err != nil {
		return nil, NewRunError("rules", err)
	}

	noRules := false
	opts.ApplyRules = &noRules
	opts.DryRun = false

	report, err := run(f, filepath.Base(path), cfg, opts)
	if err != nil {
		return nil, err
	}
	if err := save(f, path, opts); err != nil {
		return nil, err
	}
	return report, nil
}

func open(path string, cfg config.Config) (*excelize.File, error) {
	if err := cfg.Validate(); err != nil {
		return nil, NewRunError("config", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, NewRunError("open", fmt.Errorf("%w: %s", ErrWorkbookNotFound, path))
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, NewRunError("open", fmt.Errorf("%w: %v", ErrInvalidWorkbook, err))
	}
	return f, nil
}

// run executes the in-memory part of a fill pass against an open workbook.
func run(f *excelize.File, bookName string, cfg config.Config, opts Options) (*models.RunReport, error) {
	start := time.Now()
	log := opts.logger()
	aliases := parser.NewAliasTable(cfg.Aliases)

	tpl, err := parser.ReadTemplate(f, cfg.Target, aliases, cfg.Cells)
	if err != nil {
		return nil, NewRunError("template", err)
	}
	log.Debug("template resolved",
		zap.Int("columns", len(tpl.Columns)),
		zap.Int("employees", len(tpl.Rows)),
		zap.Int("id_width", tpl.IDWidth))

	src, err := parser.ExtractSource(f, cfg.Source, aliases, tpl.IDWidth)
	if err != nil {
		return nil, NewRunError("source", err)
	}
	log.Debug("source extracted",
		zap.Int("records", len(src.Records)),
		zap.Int("fields", len(src.Fields)))

	res, err := plan.Build(plan.Input{
		Source:        src,
		Template:      tpl,
		BlockWidth:    cfg.Source.BlockWidth,
		Computed:      cfg.Computed,
		Policy:        cfg.DuplicatePolicy,
		ProtectColumn: cfg.Target.EmployeeIDColumn,
	})
	if err != nil {
		return nil, NewRunError("plan", err)
	}

	writes := res.Writes
	warnings := res.Warnings
	rulesApplied := 0

	if opts.ShouldApplyRules() {
		saved, err := rules.Load(f, cfg.RulesSheet)
		if err != nil {
			return nil, NewRunError("rules", err)
		}
		ruleWrites, ruleWarns := rules.Apply(saved, src, tpl, aliases, cfg.Source.BlockWidth)
		warnings = append(warnings, ruleWarns...)
		writes = overrideWrites(writes, ruleWrites)
		rulesApplied = countRuleLabels(ruleWrites)
		if len(saved) > 0 {
			log.Info("custom mapping rules applied",
				zap.Int("saved", len(saved)),
				zap.Int("applied", rulesApplied))
		}
	}

	report := &models.RunReport{
		RunID:        uuid.NewString(),
		Workbook:     bookName,
		DryRun:       opts.DryRun,
		Written:      writes,
		Warnings:     warnings,
		Employees:    len(src.Records),
		RulesApplied: rulesApplied,
	}

	if opts.DryRun {
		report.Duration = time.Since(start)
		log.Info("dry run complete",
			zap.Int("planned", len(writes)),
			zap.Int("warnings", len(warnings)))
		return report, nil
	}

	if err := writer.Apply(f, cfg.Target.Sheet, writes, cfg.Highlight); err != nil {
		return nil, NewRunError("commit", err)
	}
	report.Duration = time.Since(start)
	log.Info("destination sheet filled",
		zap.Int("writes", len(writes)),
		zap.Int("warnings", len(warnings)),
		zap.Int("employees", report.Employees))
	return report, nil
}

func save(f *excelize.File, path string, opts Options) error {
	if opts.OutputPath != "" {
		if err := f.SaveAs(opts.OutputPath); err != nil {
			return NewRunError("save", err)
		}
		return nil
	}
	if err := f.Save(); err != nil {
		return NewRunError("save", err)
	}
	return nil
}

// overrideWrites merges rule writes over planned writes: a rule write
// replaces any planned write for the same cell.
func overrideWrites(base, overrides []models.StagedWrite) []models.StagedWrite {
	if len(overrides) == 0 {
		return base
	}
	index := make(map[models.CellRef]int, len(base))
	for i, w := range base {
		index[w.Cell] = i
	}
	for _, w := range overrides {
		if i, ok := index[w.Cell]; ok {
			base[i] = w
			continue
		}
		index[w.Cell] = len(base)
		base = append(base, w)
	}
	return base
}

func countRuleLabels(writes []models.StagedWrite) int {
	labels := make(map[string]bool)
	for _, w := range writes {
		labels[w.Label] = true
	}
	return len(labels)
}
