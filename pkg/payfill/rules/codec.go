package rules

import "strings"

// Serialized term format on the rules sheet:
//
//	+::F07::code;;-::Salaire de base::label
//
// Entries are joined with ";;" and fields with "::".
const (
	termSep  = ";;"
	fieldSep = "::"
)

// EncodeTerms serializes terms for storage in a single cell.
func EncodeTerms(terms []Term) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, t.Op+fieldSep+t.Key+fieldSep+string(t.Kind))
	}
	return strings.Join(parts, termSep)
}

// DecodeTerms parses a serialized term list. Malformed entries are skipped
// rather than failing the whole cell, so a hand-edited sheet degrades
// gracefully.
func DecodeTerms(s string) []Term {
	var terms []Term
	if strings.TrimSpace(s) == "" {
		return terms
	}
	for _, entry := range strings.Split(s, termSep) {
		fields := strings.Split(entry, fieldSep)
		if len(fields) != 3 {
			continue
		}
		t := Term{
			Op:   strings.TrimSpace(fields[0]),
			Key:  strings.TrimSpace(fields[1]),
			Kind: TermKind(strings.ToLower(strings.TrimSpace(fields[2]))),
		}
		switch t.Op {
		case "+", "-", "*", "/":
		default:
			continue
		}
		if t.Key == "" {
			continue
		}
		if t.Kind != KindCode && t.Kind != KindLabel {
			continue
		}
		terms = append(terms, t)
	}
	return terms
}
