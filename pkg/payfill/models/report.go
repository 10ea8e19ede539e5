package models

import "time"

// WarningKind classifies a recoverable per-row problem.
type WarningKind string

const (
	// WarnUnknownLabel marks a source label with no destination column.
	WarnUnknownLabel WarningKind = "unknown_label"
	// WarnUnknownEmployee marks a source employee absent from the destination sheet.
	WarnUnknownEmployee WarningKind = "unknown_employee"
	// WarnBlankValue marks a matched field whose value was blank.
	WarnBlankValue WarningKind = "blank_value"
	// WarnDuplicate marks a write discarded by the duplicate policy.
	WarnDuplicate WarningKind = "duplicate"
	// WarnRuleUnresolved marks a rule whose destination or terms did not resolve.
	WarnRuleUnresolved WarningKind = "rule_unresolved"
)

// Warning is a recoverable problem encountered during a run. Warnings are
// collected and returned to the caller; they never abort the run.
type Warning struct {
	// Kind classifies the warning.
	Kind WarningKind `json:"kind"`
	// Label is the label involved, raw when the label itself is the problem.
	Label string `json:"label,omitempty"`
	// Employee is the normalized employee ID involved, if any.
	Employee string `json:"employee,omitempty"`
	// Detail carries extra context.
	Detail string `json:"detail,omitempty"`
}

// RunReport summarizes one fill run.
type RunReport struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`
	// Workbook is the workbook file name (no path).
	Workbook string `json:"workbook"`
	// DryRun is true when nothing was committed.
	DryRun bool `json:"dry_run,omitempty"`
	// Written lists the committed (or, on dry runs, planned) writes.
	Written []StagedWrite `json:"written"`
	// Warnings lists the recoverable problems encountered.
	Warnings []Warning `json:"warnings,omitempty"`
	// Employees is the number of employee records extracted.
	Employees int `json:"employees"`
	// RulesApplied is the number of custom mapping rules applied.
	RulesApplied int `json:"rules_applied"`
	// Duration is the wall-clock duration of the run.
	Duration time.Duration `json:"duration"`
}
