// Package config loads and validates the run configuration: sheet layouts,
// label aliases, static cell mappings, computed fields, and highlighting.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DuplicatePolicy decides what happens when two source rows resolve to the
// same destination cell within one pass.
type DuplicatePolicy string

const (
	// LastWriteWins keeps the later write.
	LastWriteWins DuplicatePolicy = "last"
	// FirstWriteWins keeps the earlier write.
	FirstWriteWins DuplicatePolicy = "first"
	// DuplicateError aborts the run on the first collision.
	DuplicateError DuplicatePolicy = "error"
)

// Config captures the runtime settings for a fill run.
type Config struct {
	Source          SourceLayout      `yaml:"source"`
	Target          TargetLayout      `yaml:"target"`
	Aliases         map[string]string `yaml:"aliases"`
	Cells           map[string]string `yaml:"cells"`
	Computed        []ComputedField   `yaml:"computed"`
	RulesSheet      string            `yaml:"rulesSheet"`
	DuplicatePolicy DuplicatePolicy   `yaml:"duplicatePolicy"`
	Highlight       Highlight         `yaml:"highlight"`
	LogLevel        string            `yaml:"logLevel"`
}

// SourceLayout describes where the raw payroll data sits on the source sheet.
// Employee IDs run along one row, each owning a block of columns; codes and
// field labels run down two columns.
type SourceLayout struct {
	Sheet         string `yaml:"sheet"`
	EmployeeIDRow int    `yaml:"employeeIdRow"`
	CodeColumn    int    `yaml:"codeColumn"`
	LabelColumn   int    `yaml:"labelColumn"`
	FieldStartRow int    `yaml:"fieldStartRow"`
	BlockWidth    int    `yaml:"blockWidth"`
	MaxColumns    int    `yaml:"maxColumns"`
}

// TargetLayout describes the fixed destination template: a header row of
// field labels and a column of employee IDs.
type TargetLayout struct {
	Sheet            string `yaml:"sheet"`
	HeaderRow        int    `yaml:"headerRow"`
	EmployeeIDColumn int    `yaml:"employeeIdColumn"`
	FirstDataRow     int    `yaml:"firstDataRow"`
	DefaultIDWidth   int    `yaml:"defaultIdWidth"`
}

// ComputedField declares a value derived by summing a fixed rectangle of an
// employee's block rather than matching a labelled row.
type ComputedField struct {
	// Label is the canonical destination label.
	Label string `yaml:"label"`
	// FromRow and ToRow bound the summed rows (1-based, inclusive).
	FromRow int `yaml:"fromRow"`
	ToRow   int `yaml:"toRow"`
	// ColOffset shifts the summed columns within the block.
	ColOffset int `yaml:"colOffset"`
	// Width is the number of columns summed; 0 means the block width.
	Width int `yaml:"width"`
}

// Highlight configures the visual marking of machine-filled cells.
type Highlight struct {
	// Fill is the RGB hex fill for standard and computed writes.
	Fill string `yaml:"fill"`
	// RuleFill is the RGB hex fill for rule-derived writes.
	RuleFill string `yaml:"ruleFill"`
	// FontColor is the RGB hex font color.
	FontColor string `yaml:"fontColor"`
	// Bold toggles bold font on written cells.
	Bold bool `yaml:"bold"`
}

// Default returns the built-in configuration. The layouts, aliases, and
// computed fields mirror the workbook this tool was written for; any of them
// can be overridden from a YAML file.
func Default() Config {
	return Config{
		Source: SourceLayout{
			Sheet:         "Feuil1",
			EmployeeIDRow: 3,
			CodeColumn:    1,
			LabelColumn:   2,
			FieldStartRow: 5,
			BlockWidth:    3,
			MaxColumns:    120,
		},
		Target: TargetLayout{
			Sheet:            "Sheet1",
			HeaderRow:        1,
			EmployeeIDColumn: 1,
			FirstDataRow:     2,
			DefaultIDWidth:   5,
		},
		Aliases: map[string]string{
			"salaire brut total":      "salaire brut",
			"salaire de base mensuel": "salaire de base",

			"cot salarie":    "cotisations salarie",
			"salarial":       "cotisations salarie",
			"total salarial": "cotisations salarie",

			"cot patronale":  "cotisations patronales",
			"patronal":       "cotisations patronales",
			"total patronal": "cotisations patronales",

			"net a payer":            "net paye",
			"prelevement a la source": "pas",
			"impot":                   "pas",

			"avantage":            "avantages",
			"avantages en nature": "avantages",
		},
		Computed: []ComputedField{
			{Label: "cotisations salarie", FromRow: 5, ToRow: 5, ColOffset: 1, Width: 1},
			{Label: "cotisations patronales", FromRow: 5, ToRow: 5, ColOffset: 2, Width: 1},
			{Label: "pas", FromRow: 75, ToRow: 75},
			{Label: "avantages", FromRow: 66, ToRow: 74},
		},
		RulesSheet:      "CustomMap",
		DuplicatePolicy: LastWriteWins,
		Highlight: Highlight{
			Fill:      "FFFF99",
			RuleFill:  "CCFFCC",
			FontColor: "000000",
			Bold:      true,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.Source.Sheet == "" {
		return errors.New("source.sheet must not be empty")
	}
	if c.Target.Sheet == "" {
		return errors.New("target.sheet must not be empty")
	}
	if c.Source.Sheet == c.Target.Sheet {
		return errors.New("source and target sheets must differ")
	}
	if c.Source.EmployeeIDRow < 1 || c.Source.FieldStartRow < 1 {
		return errors.New("source rows are 1-based and must be positive")
	}
	if c.Source.CodeColumn < 1 || c.Source.LabelColumn < 1 {
		return errors.New("source columns are 1-based and must be positive")
	}
	if c.Source.BlockWidth < 1 {
		return errors.New("source.blockWidth must be at least 1")
	}
	if c.Source.MaxColumns < c.Source.BlockWidth {
		return errors.New("source.maxColumns must cover at least one block")
	}
	if c.Target.HeaderRow < 1 || c.Target.EmployeeIDColumn < 1 {
		return errors.New("target layout is 1-based and must be positive")
	}
	if c.Target.FirstDataRow <= c.Target.HeaderRow {
		return errors.New("target.firstDataRow must be below the header row")
	}
	switch c.DuplicatePolicy {
	case LastWriteWins, FirstWriteWins, DuplicateError:
	default:
		return fmt.Errorf("unknown duplicatePolicy %q", c.DuplicatePolicy)
	}
	for _, cf := range c.Computed {
		if cf.Label == "" {
			return errors.New("computed field label must not be empty")
		}
		if cf.FromRow < 1 || cf.ToRow < cf.FromRow {
			return fmt.Errorf("computed field %q has an invalid row range", cf.Label)
		}
		if cf.ColOffset < 0 || cf.Width < 0 {
			return fmt.Errorf("computed field %q has a negative offset or width", cf.Label)
		}
	}
	if err := validateHex(c.Highlight.Fill); err != nil {
		return fmt.Errorf("highlight.fill: %w", err)
	}
	if err := validateHex(c.Highlight.RuleFill); err != nil {
		return fmt.Errorf("highlight.ruleFill: %w", err)
	}
	if err := validateHex(c.Highlight.FontColor); err != nil {
		return fmt.Errorf("highlight.fontColor: %w", err)
	}
	return nil
}

func validateHex(s string) error {
	if len(s) != 6 {
		return fmt.Errorf("%q is not a 6-digit RGB hex color", s)
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return fmt.Errorf("%q is not a 6-digit RGB hex color", s)
		}
	}
	return nil
}
