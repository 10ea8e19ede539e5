// Package parser reads the source and destination sheets of a payroll workbook.
package parser

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeLabel cleans a header or field label for use as a lookup key:
// lower-case, accents removed, internal whitespace collapsed to single
// spaces, and any character outside letters, digits, underscore, space,
// and "./-" dropped. The result is stable under re-normalization.
func NormalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	s = stripAccents(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case r == '.' || r == '/' || r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeEmployeeID reduces an employee ID to its digits, zero-padded to
// width (e.g. "N° 14" with width 5 becomes "00014"). Returns "" when the
// input carries no digits.
func NormalizeEmployeeID(s string, width int) string {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if d == "" {
		return ""
	}
	for len(d) < width {
		d = "0" + d
	}
	return d
}

// AliasTable maps normalized label variants to their canonical label
// ("cot salarie" -> "cotisations salarie"). Keys and values are stored
// normalized regardless of how they were written in the configuration.
type AliasTable map[string]string

// NewAliasTable normalizes the keys and values of a raw alias map.
func NewAliasTable(raw map[string]string) AliasTable {
	t := make(AliasTable, len(raw))
	for k, v := range raw {
		nk := NormalizeLabel(k)
		nv := NormalizeLabel(v)
		if nk == "" || nv == "" {
			continue
		}
		t[nk] = nv
	}
	return t
}

// Canonical resolves a normalized label through the alias table. Labels
// without an alias entry are already canonical.
func (t AliasTable) Canonical(norm string) string {
	if canon, ok := t[norm]; ok {
		return canon
	}
	return norm
}

// stripAccents decomposes the string and drops combining marks, so "é"
// compares equal to "e".
func stripAccents(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
