package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
//	0 (default) - generated file summary, errors with hints
//	1 (-v)      - + config summary, per-artifact progress
//	2 (-vv)     - + per-node emission, timing, cycle fallbacks
//	3 (-vvv)    - + raw schema decoding, IR dumps

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults OutputCategory = iota // Generated files, check results
	OutputErrors                        // Errors with hints

	// Level 1 (-v) - Informational
	OutputProgress // Per-artifact progress
	OutputConfig   // Config values loaded/applied

	// Level 2 (-vv) - Detailed
	OutputNodes    // Per-node emission
	OutputTiming   // Phase timing
	OutputOrdering // Cycle fallbacks in dependency-ordered emission

	// Level 3 (-vvv) - Trace
	OutputSchemaDecode // Raw schema decoding
	OutputDataDump     // Full IR dumps
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults: VerbosityUser,
	OutputErrors:  VerbosityUser,

	OutputProgress: VerbosityInfo,
	OutputConfig:   VerbosityInfo,

	OutputNodes:    VerbosityDebug,
	OutputTiming:   VerbosityDebug,
	OutputOrdering: VerbosityDebug,

	OutputSchemaDecode: VerbosityTrace,
	OutputDataDump:     VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputResults:      "results",
	OutputErrors:       "errors",
	OutputProgress:     "progress",
	OutputConfig:       "config",
	OutputNodes:        "nodes",
	OutputTiming:       "timing",
	OutputOrdering:     "ordering",
	OutputSchemaDecode: "schema-decode",
	OutputDataDump:     "data-dump",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
