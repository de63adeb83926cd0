// Package errors provides error handling for schemagen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints printed by the CLI
//
// Every failure in the generation pipeline is fatal. Errors raised while
// loading schemas or emitting code are marked with one of the sentinels below
// so callers (and tests) can classify them with errors.Is:
//
//	if errors.Is(err, errors.ErrDuplicateNode) {
//	    // two schema files map to the same node name
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark

	// CombineErrors keeps the first error and attaches the second as secondary
	CombineErrors = crdb.CombineErrors
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// AssertionFailedf reports an internal invariant violation.
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel errors for the generation pipeline.
// Use these with errors.Is(); the helpers below mark new errors with them.
var (
	// ErrSchema indicates a schema file could not be decoded or uses an unsupported construct
	ErrSchema = New("invalid schema")

	// ErrDuplicateNode indicates two definitions map to the same node name
	ErrDuplicateNode = New("duplicate node")

	// ErrUnresolvedRef indicates a $ref, dependency or base type that names no loaded node
	ErrUnresolvedRef = New("unresolved reference")

	// ErrGeneration indicates the IR cannot be rendered unambiguously
	ErrGeneration = New("generation failed")

	// ErrConfig indicates an invalid configuration value
	ErrConfig = New("invalid configuration")
)

// SchemaErrorf creates an error for a schema file, marked with ErrSchema.
// The file name is always the first thing in the message.
func SchemaErrorf(file string, format string, args ...interface{}) error {
	return Mark(Wrapf(Newf(format, args...), "%s", file), ErrSchema)
}

// DuplicateNodef creates an error marked with ErrDuplicateNode.
func DuplicateNodef(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrDuplicateNode)
}

// UnresolvedReff creates an error marked with ErrUnresolvedRef.
func UnresolvedReff(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrUnresolvedRef)
}

// GenerationErrorf creates an error marked with ErrGeneration.
func GenerationErrorf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrGeneration)
}

// ConfigErrorf creates an error marked with ErrConfig.
func ConfigErrorf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrConfig)
}

// IsSchemaError checks if an error is or wraps ErrSchema
func IsSchemaError(err error) bool {
	return err != nil && Is(err, ErrSchema)
}

// IsDuplicateNode checks if an error is or wraps ErrDuplicateNode
func IsDuplicateNode(err error) bool {
	return err != nil && Is(err, ErrDuplicateNode)
}

// IsUnresolvedRef checks if an error is or wraps ErrUnresolvedRef
func IsUnresolvedRef(err error) bool {
	return err != nil && Is(err, ErrUnresolvedRef)
}

// IsGenerationError checks if an error is or wraps ErrGeneration
func IsGenerationError(err error) bool {
	return err != nil && Is(err, ErrGeneration)
}

// IsConfigError checks if an error is or wraps ErrConfig
func IsConfigError(err error) bool {
	return err != nil && Is(err, ErrConfig)
}
