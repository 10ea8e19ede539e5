package parser

import "testing"

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"2500", 2500, true},
		{"2500.75", 2500.75, true},
		{"-100", -100, true},
		{"2500,75", 2500.75, true},
		{"1 250,50", 1250.5, true},
		{"1 250", 1250, true},
		{"", 0, false},
		{"   ", 0, false},
		{"salaire", 0, false},
		{"1,250.50", 0, false},
	}

	for _, tt := range tests {
		result, ok := ParseNumber(tt.input)
		if ok != tt.ok || result != tt.expected {
			t.Errorf("ParseNumber(%q) = (%v, %v), expected (%v, %v)", tt.input, result, ok, tt.expected, tt.ok)
		}
	}
}
