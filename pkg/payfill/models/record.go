package models

// SourceField is one labelled field row of the source data region.
type SourceField struct {
	// Row is the row index (1-based).
	Row int `json:"row"`
	// Raw is the label as written on the sheet.
	Raw string `json:"raw"`
	// Canon is the canonical (normalized and aliased) label.
	Canon string `json:"canon"`
}

// FieldValue is one extracted value for an employee, in source-row order.
// Duplicate canonical labels stay separate entries so the duplicate policy
// can decide between them.
type FieldValue struct {
	// Label is the canonical label.
	Label string `json:"label"`
	// Value is the numeric value read from the employee's block.
	Value float64 `json:"value"`
	// Row is the source row the value came from.
	Row int `json:"row"`
}

// EmployeeRecord holds the values extracted from one employee's column block.
type EmployeeRecord struct {
	// ID is the normalized employee ID (digits only, zero-padded).
	ID string `json:"id"`
	// BlockCol is the first column (1-based) of the employee's block.
	BlockCol int `json:"block_col"`
	// Values lists the extracted field values in source-row order.
	Values []FieldValue `json:"values"`
}

// SourceRow describes one labelled row of the source sheet.
type SourceRow struct {
	// Row is the row index (1-based).
	Row int `json:"row"`
	// Code is the raw code from the code column, if any.
	Code string `json:"code,omitempty"`
	// Label is the raw label text.
	Label string `json:"label,omitempty"`
	// LabelNorm is the normalized label used for lookups.
	LabelNorm string `json:"label_norm,omitempty"`
}

// SourceIndex indexes the source sheet's rows by code and normalized label.
// The rules engine resolves its terms against it.
type SourceIndex struct {
	// Rows lists every row carrying a code or a label.
	Rows []SourceRow `json:"rows"`
	// ByCode maps a code to the rows carrying it.
	ByCode map[string][]int `json:"-"`
	// ByLabel maps a normalized label to the rows carrying it.
	ByLabel map[string][]int `json:"-"`
}
