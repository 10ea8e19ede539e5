package models

// WriteKind distinguishes how a staged write was produced.
type WriteKind string

const (
	// WriteStandard is a write produced by the standard label matching pass.
	WriteStandard WriteKind = "standard"
	// WriteComputed is a write produced by a configured computed field.
	WriteComputed WriteKind = "computed"
	// WriteRule is a write produced by a custom mapping rule.
	WriteRule WriteKind = "rule"
)

// StagedWrite is one pending destination-cell write. Writes are staged in
// memory and committed in a single pass so a fatal error never leaves the
// destination sheet half filled.
type StagedWrite struct {
	// Cell is the destination cell.
	Cell CellRef `json:"cell"`
	// Value is the value to write.
	Value float64 `json:"value"`
	// Label is the canonical label the write satisfies.
	Label string `json:"label"`
	// Employee is the normalized employee ID, empty for static mappings.
	Employee string `json:"employee,omitempty"`
	// Kind records which pass produced the write.
	Kind WriteKind `json:"kind"`
}
