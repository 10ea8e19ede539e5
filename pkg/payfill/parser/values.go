package parser

import (
	"strconv"
	"strings"
)

// ParseNumber attempts to parse a cell's formatted text as a number.
// Grouping spaces (including non-breaking spaces) are removed and a comma
// decimal separator is accepted, since payroll sheets are commonly formatted
// with a French locale. The second return is false for blank or non-numeric
// text.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == ' ' || r == ' ' {
			return -1
		}
		return r
	}, s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
