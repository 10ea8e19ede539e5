// Package payfill fills a payroll report sheet from raw source data in the
// same workbook: extraction, label normalization, template matching, and a
// staged, highlighted write-back.
package payfill

import "go.uber.org/zap"

// Options configures a fill run.
type Options struct {
	// DryRun plans the writes and builds the report without mutating or
	// saving the workbook.
	DryRun bool
	// ApplyRules controls whether saved custom mapping rules run after the
	// standard fill. If nil, rules are applied.
	ApplyRules *bool
	// OutputPath saves the filled workbook to a new file instead of
	// writing in place.
	OutputPath string
	// Logger receives run progress. If nil, logging is disabled.
	Logger *zap.Logger
}

// DefaultOptions returns default fill options.
func DefaultOptions() Options {
	return Options{}
}

// ShouldApplyRules returns whether saved custom mapping rules are applied.
func (o Options) ShouldApplyRules() bool {
	if o.ApplyRules != nil {
		return *o.ApplyRules
	}
	return true
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}
