// Package rules implements custom mapping rules: a destination label bound
// to an arithmetic combination of source rows, selected by code or by label.
// Rules are applied after the standard fill and persist on a dedicated
// worksheet so they survive between runs.
package rules

import (
	"fmt"

	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/models"
	"github.com/mortadamoghazy/Integrated-Project/pkg/payfill/parser"
)

// TermKind selects how a term's key is matched against the source sheet.
type TermKind string

const (
	// KindCode matches the source code column.
	KindCode TermKind = "code"
	// KindLabel matches the normalized source label column.
	KindLabel TermKind = "label"
)

// Term is one operand of a rule: an operator, a key, and the key kind.
type Term struct {
	// Op is one of "+", "-", "*", "/".
	Op string `json:"op"`
	// Key is the code or raw label to match.
	Key string `json:"key"`
	// Kind selects code or label matching.
	Kind TermKind `json:"kind"`
}

// Rule binds a destination label to a left-folded sequence of terms.
type Rule struct {
	// Label is the destination label as written by the user.
	Label string `json:"label"`
	// Terms are combined left to right; the first term initializes the
	// accumulator to 0 for +/- and 1 for *,/.
	Terms []Term `json:"terms"`
}

// Validate checks the rule's operators and kinds.
func (r Rule) Validate() error {
	if r.Label == "" {
		return fmt.Errorf("rule has no destination label")
	}
	if len(r.Terms) == 0 {
		return fmt.Errorf("rule %q has no terms", r.Label)
	}
	for _, t := range r.Terms {
		switch t.Op {
		case "+", "-", "*", "/":
		default:
			return fmt.Errorf("rule %q: unknown operator %q", r.Label, t.Op)
		}
		if t.Key == "" {
			return fmt.Errorf("rule %q has a term with no key", r.Label)
		}
		switch t.Kind {
		case KindCode, KindLabel:
		default:
			return fmt.Errorf("rule %q: unknown term kind %q", r.Label, t.Kind)
		}
	}
	return nil
}

// Apply evaluates the rules for every employee and returns the resulting
// staged writes. A term sums the matching source rows across the employee's
// block; terms with no matching rows are skipped, as are divisions by zero.
// Rules whose destination label resolves to nothing produce a warning.
func Apply(ruleSet []Rule, src *parser.SourceData, tpl *models.Template, aliases parser.AliasTable, blockWidth int) ([]models.StagedWrite, []models.Warning) {
	var writes []models.StagedWrite
	var warns []models.Warning

	for _, r := range ruleSet {
		canon := aliases.Canonical(parser.NormalizeLabel(r.Label))
		_, hasCol := tpl.Columns[canon]
		_, hasStatic := tpl.StaticCells[canon]
		if canon == "" || (!hasCol && !hasStatic) {
			warns = append(warns, models.Warning{
				Kind:   models.WarnRuleUnresolved,
				Label:  r.Label,
				Detail: "destination label not found on template",
			})
			continue
		}

		for _, rec := range src.Records {
			cell, ok := tpl.Resolve(canon, rec.ID)
			if !ok {
				continue
			}
			value, ok := evaluate(r, src, rec.BlockCol, blockWidth)
			if !ok {
				continue
			}
			writes = append(writes, models.StagedWrite{
				Cell:     cell,
				Value:    value,
				Label:    canon,
				Employee: rec.ID,
				Kind:     models.WriteRule,
			})
		}
	}

	return writes, warns
}

func evaluate(r Rule, src *parser.SourceData, blockCol, blockWidth int) (float64, bool) {
	var total float64
	started := false

	for _, t := range r.Terms {
		var rows []int
		switch t.Kind {
		case KindCode:
			rows = src.Index.ByCode[t.Key]
		case KindLabel:
			rows = src.Index.ByLabel[parser.NormalizeLabel(t.Key)]
		}
		if len(rows) == 0 {
			continue
		}

		var part float64
		for _, row := range rows {
			part += src.Grid.SumRect(row, row, blockCol, blockCol+blockWidth-1)
		}

		if !started {
			started = true
			if t.Op == "*" || t.Op == "/" {
				total = 1
			}
		}
		switch t.Op {
		case "+":
			total += part
		case "-":
			total -= part
		case "*":
			total *= part
		case "/":
			if part != 0 {
				total /= part
			}
		}
	}

	return total, started
}
